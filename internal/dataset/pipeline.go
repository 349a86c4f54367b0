package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	logx "github.com/datacation/titanic-analyst/pkg/logger"
)

// DefaultCSVURL is the upstream Titanic CSV used by the pipeline.
const DefaultCSVURL = "https://raw.githubusercontent.com/datasciencedojo/datasets/master/titanic.csv"

// PipelineConfig drives the download-and-convert pipeline, sourced from
// environment variables.
type PipelineConfig struct {
	DataDir string `envconfig:"DATA_DIR" default:"data_sources"`
	CSVURL  string `envconfig:"TITANIC_CSV_URL" default:"https://raw.githubusercontent.com/datasciencedojo/datasets/master/titanic.csv"`
	DBName  string `envconfig:"TITANIC_DB_NAME" default:"titanic.sqlite"`
	// Force re-downloads the CSV and rebuilds the database even when both
	// files already exist.
	Force bool `envconfig:"PIPELINE_FORCE" default:"false"`
}

// CSVPath returns the on-disk location of the cached CSV.
func (c PipelineConfig) CSVPath() string { return filepath.Join(c.DataDir, "titanic.csv") }

// DBPath returns the on-disk location of the SQLite database.
func (c PipelineConfig) DBPath() string { return filepath.Join(c.DataDir, c.DBName) }

// httpClient is a package-level var to allow test injection.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// RunPipeline downloads the Titanic CSV (with retry) and converts it into
// the titanic SQLite table. Both steps are idempotent: existing files are
// reused unless Force is set. Name-bearing columns are dropped during
// conversion to keep passenger identities out of the analysis surface.
func RunPipeline(ctx context.Context, cfg PipelineConfig) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	csvPath := cfg.CSVPath()
	if cfg.Force || !fileExists(csvPath) {
		if err := downloadCSV(ctx, cfg.CSVURL, csvPath); err != nil {
			return err
		}
	} else {
		logx.Debug().Str("path", csvPath).Msg("reusing cached CSV")
	}

	dbPath := cfg.DBPath()
	if cfg.Force || !fileExists(dbPath) {
		if err := convertToSQLite(ctx, csvPath, dbPath); err != nil {
			return err
		}
	} else {
		logx.Debug().Str("path", dbPath).Msg("reusing existing database")
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// downloadCSV fetches the dataset with exponential backoff. Server errors
// and transport errors are retried; client errors are not.
func downloadCSV(ctx context.Context, url, dest string) error {
	logx.Info().Str("url", url).Msg("downloading Titanic dataset")

	backoff := retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("download: server returned %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("download: unexpected status %s", resp.Status)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return os.WriteFile(dest, body, 0o644)
	})
}

// convertToSQLite reads the CSV and loads it into a freshly created titanic
// table. Column types are inferred from the data (INTEGER, then REAL, else
// TEXT); empty cells become NULL.
func convertToSQLite(ctx context.Context, csvPath, dbPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 1 {
		return fmt.Errorf("parse csv: empty file")
	}

	header := records[0]
	body := records[1:]

	keep := keepColumns(header)
	if len(keep) == 0 {
		return fmt.Errorf("parse csv: no usable columns")
	}
	if len(keep) < len(header) {
		logx.Info().
			Int("dropped", len(header)-len(keep)).
			Msg("removed name-bearing columns for privacy")
	}

	types := inferColumnTypes(header, body, keep)

	// Rebuild from scratch so Force runs never append onto stale data.
	os.Remove(dbPath)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer db.Close()

	var cols []string
	for _, idx := range keep {
		cols = append(cols, fmt.Sprintf("%q %s", header[idx], types[idx]))
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ")
	insertStmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s VALUES (%s)", tableName, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for _, record := range body {
		args := make([]any, 0, len(keep))
		for _, idx := range keep {
			args = append(args, cellValue(record[idx], types[idx]))
		}
		if _, err := insertStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	logx.Info().
		Str("path", dbPath).
		Int("rows", len(body)).
		Int("columns", len(keep)).
		Msg("Titanic dataset stored in SQLite")
	return nil
}

// keepColumns returns the header indexes to load, excluding any column
// whose name contains "name".
func keepColumns(header []string) []int {
	var keep []int
	for i, col := range header {
		if strings.Contains(strings.ToLower(col), "name") {
			continue
		}
		keep = append(keep, i)
	}
	return keep
}

func inferColumnTypes(header []string, body [][]string, keep []int) map[int]string {
	types := make(map[int]string, len(keep))
	for _, idx := range keep {
		types[idx] = inferType(body, idx)
	}
	return types
}

func inferType(body [][]string, idx int) string {
	isInt, isReal, seen := true, true, false
	for _, record := range body {
		if idx >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[idx])
		if cell == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			isReal = false
		}
		if !isInt && !isReal {
			break
		}
	}
	switch {
	case !seen:
		return "TEXT"
	case isInt:
		return "INTEGER"
	case isReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func cellValue(cell, colType string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch colType {
	case "INTEGER":
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return cell
		}
		return n
	case "REAL":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return cell
		}
		return f
	default:
		return cell
	}
}
