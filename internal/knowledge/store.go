// Package knowledge persists what the analyst agent learns about the
// Titanic dataset: individual insights and the full history of analysis
// steps. Both collections are append-only JSON logs rewritten wholesale on
// every mutation, which keeps memory and disk trivially consistent at the
// scale this demo operates at.
package knowledge

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	logx "github.com/datacation/titanic-analyst/pkg/logger"
)

const (
	insightsFile = "insights.json"
	analysisFile = "analysis_history.json"
)

// DefaultDir is the knowledge directory used when none is configured.
const DefaultDir = "knowledge"

// renameFile is a package-level var to allow failure injection in tests.
var renameFile = os.Rename

// Store is the durable, ordered log of insights and analysis steps. One
// instance is constructed at process start and shared by reference; it is
// safe for concurrent use. Mutations are serialized by the write lock, and
// the atomic temp-file-then-rename discipline guarantees readers of the
// on-disk files always observe either the pre- or post-mutation state.
type Store struct {
	mu       sync.RWMutex
	dir      string
	insights []Insight
	history  []AnalysisStep
}

// NewStore prepares the knowledge directory (idempotent) and eagerly loads
// both collections. A missing file yields an empty collection; a present
// but malformed file yields a StorageError.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ConfigurationError{Dir: dir, Err: err}
	}

	s := &Store{dir: dir}

	insights, err := loadCollection[Insight](filepath.Join(dir, insightsFile), insightRequiredKeys)
	if err != nil {
		return nil, err
	}
	history, err := loadCollection[AnalysisStep](filepath.Join(dir, analysisFile), analysisStepRequiredKeys)
	if err != nil {
		return nil, err
	}
	s.insights = insights
	s.history = history

	logx.Debug().
		Str("dir", dir).
		Int("insights", len(insights)).
		Int("analyses", len(history)).
		Msg("knowledge store loaded")
	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

// AddInsight validates and appends an insight, then rewrites the insights
// file. On write failure the append is rolled back and a PersistenceError
// is returned, so the in-memory collection always matches disk.
func (s *Store) AddInsight(insight Insight) error {
	if err := insight.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.insights = append(s.insights, insight)
	if err := s.saveCollection(insightsFile, s.insights); err != nil {
		s.insights = s.insights[:len(s.insights)-1]
		return err
	}
	return nil
}

// RecordAnalysis validates and appends an analysis step, then rewrites the
// analysis-history file. Same rollback contract as AddInsight.
func (s *Store) RecordAnalysis(step AnalysisStep) error {
	if err := step.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, step)
	if err := s.saveCollection(analysisFile, s.history); err != nil {
		s.history = s.history[:len(s.history)-1]
		return err
	}
	return nil
}

// InsightCount reports the number of stored insights.
func (s *Store) InsightCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.insights)
}

// AnalysisCount reports the number of stored analysis steps.
func (s *Store) AnalysisCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// saveCollection serializes the full collection to a temp file in the same
// directory and atomically replaces the target. A crash mid-write leaves
// the previous file intact. Callers hold the write lock.
func (s *Store) saveCollection(name string, collection any) error {
	target := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return &PersistenceError{Path: target, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return &PersistenceError{Path: target, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Path: target, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Path: target, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: target, Err: err}
	}
	if err := renameFile(tmpName, target); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: target, Err: err}
	}
	return nil
}

func loadCollection[T any](path string, required []string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}
	records, err := decodeRecords[T](data, required)
	if err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}
	return records, nil
}
