// Package dataset owns the Titanic SQLite database: the pipeline that
// builds it from the upstream CSV and the inspector that answers fixed
// aggregate questions about it.
package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

const tableName = "titanic"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Inspector answers a fixed set of aggregate questions about the titanic
// table plus ad-hoc read-only queries. No caching, no retries: every call
// is one query against the local database file.
type Inspector struct {
	db *sql.DB
}

// NewInspector opens the database file. The file must already exist; run
// the pipeline first.
func NewInspector(dbPath string) (*Inspector, error) {
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	// Fail now if the file is missing or not a database rather than on the
	// first query.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", dbPath, err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the underlying database handle.
func (i *Inspector) Close() error { return i.db.Close() }

// SurvivalRate returns the overall survival rate as a percentage.
func (i *Inspector) SurvivalRate(ctx context.Context) (float64, error) {
	var rate sql.NullFloat64
	err := i.db.QueryRowContext(ctx, "SELECT AVG(Survived) FROM titanic").Scan(&rate)
	if err != nil {
		return 0, fmt.Errorf("survival rate: %w", err)
	}
	return rate.Float64 * 100, nil
}

// PassengerCount returns the total number of passengers.
func (i *Inspector) PassengerCount(ctx context.Context) (int, error) {
	var count int
	err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM titanic").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("passenger count: %w", err)
	}
	return count, nil
}

// ClassDistribution returns passenger counts per class.
func (i *Inspector) ClassDistribution(ctx context.Context) (map[int]int, error) {
	rows, err := i.db.QueryContext(ctx,
		"SELECT Pclass, COUNT(*) FROM titanic GROUP BY Pclass ORDER BY Pclass")
	if err != nil {
		return nil, fmt.Errorf("class distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var class, count int
		if err := rows.Scan(&class, &count); err != nil {
			return nil, fmt.Errorf("class distribution: %w", err)
		}
		dist[class] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("class distribution: %w", err)
	}
	return dist, nil
}

// AverageAge returns the mean passenger age. SQLite's AVG skips NULL ages,
// matching the original dropna behavior.
func (i *Inspector) AverageAge(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := i.db.QueryRowContext(ctx, "SELECT AVG(Age) FROM titanic").Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average age: %w", err)
	}
	return avg.Float64, nil
}

// SchemaDescription returns a human-readable description of the titanic
// table: name plus one line per column with its declared type.
func (i *Inspector) SchemaDescription(ctx context.Context) (string, error) {
	rows, err := i.db.QueryContext(ctx, "PRAGMA table_info(titanic)")
	if err != nil {
		return "", fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString("Table: " + tableName + "\nColumns:\n")
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return "", fmt.Errorf("table info: %w", err)
		}
		fmt.Fprintf(&b, "- %s: %s\n", name, typ)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("table info: %w", err)
	}
	return b.String(), nil
}

// Query runs an ad-hoc SELECT and renders the result as aligned text, one
// row per line, capped at maxRows. Only statements beginning with SELECT
// are accepted; this keeps the analyst's run_sql tool read-only.
func (i *Inspector) Query(ctx context.Context, query string, maxRows int) (string, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return "", fmt.Errorf("only SELECT statements are allowed")
	}
	if maxRows <= 0 {
		maxRows = 50
	}

	rows, err := i.db.QueryContext(ctx, trimmed)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("query columns: %w", err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	b.WriteByte('\n')

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	n := 0
	for rows.Next() {
		if n >= maxRows {
			fmt.Fprintf(&b, "... (truncated at %d rows)\n", maxRows)
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("query scan: %w", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = renderCell(v)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteByte('\n')
		n++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("query rows: %w", err)
	}
	if n == 0 {
		b.WriteString("(no rows)\n")
	}
	return b.String(), nil
}

func renderCell(v any) string {
	switch vv := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(vv)
	case float64:
		return fmt.Sprintf("%g", vv)
	default:
		return fmt.Sprint(vv)
	}
}

// ClassDistributionString formats the distribution in ascending class
// order, for display in prompts and CLI output.
func ClassDistributionString(dist map[int]int) string {
	classes := make([]int, 0, len(dist))
	for c := range dist {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		parts = append(parts, fmt.Sprintf("class %d: %d", c, dist[c]))
	}
	return strings.Join(parts, ", ")
}
