package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInsight(n int) Insight {
	return NewInsight(
		CategoryPattern,
		fmt.Sprintf("insight %d", n),
		fmt.Sprintf("df.groupby('Pclass').mean() // %d", n),
		0.9,
		SourceDirectAnalysis,
	)
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			dir := t.TempDir()

			store, err := NewStore(dir)
			require.NoError(t, err)

			want := make([]Insight, 0, n)
			for i := 0; i < n; i++ {
				ins := testInsight(i)
				require.NoError(t, store.AddInsight(ins))
				want = append(want, ins)
			}

			reloaded, err := NewStore(dir)
			require.NoError(t, err)
			assert.Equal(t, want, reloaded.RelevantInsights("anything"))
		})
	}
}

func TestRecordAnalysisAppendOnly(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	const k = 7
	for i := 0; i < k; i++ {
		step := NewAnalysisStep(
			fmt.Sprintf("question %d", i),
			"sql_analysis",
			fmt.Sprintf("SELECT %d", i),
			fmt.Sprintf("result %d", i),
			[]Insight{testInsight(i)},
		)
		require.NoError(t, store.RecordAnalysis(step))
	}

	got := store.SimilarAnalyses("anything")
	require.Len(t, got, k)
	for i, step := range got {
		assert.Equal(t, fmt.Sprintf("question %d", i), step.Question)
		assert.Equal(t, fmt.Sprintf("result %d", i), step.Result)
		require.Len(t, step.Insights, 1)
	}
}

func TestAtomicWriteKeepsOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.AddInsight(testInsight(0)))

	before, err := os.ReadFile(filepath.Join(dir, insightsFile))
	require.NoError(t, err)

	// Simulate a crash between temp-file write and atomic replace.
	renameFile = func(oldpath, newpath string) error {
		return errors.New("injected rename failure")
	}
	defer func() { renameFile = os.Rename }()

	err = store.AddInsight(testInsight(1))
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)

	after, err := os.ReadFile(filepath.Join(dir, insightsFile))
	require.NoError(t, err)
	assert.Equal(t, before, after, "original file must remain intact")

	// The surviving file still reloads cleanly.
	renameFile = os.Rename
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.InsightCount())
}

func TestRollbackOnWriteFailure(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	renameFile = func(oldpath, newpath string) error {
		return errors.New("disk full")
	}
	defer func() { renameFile = os.Rename }()

	err = store.AddInsight(testInsight(0))
	require.Error(t, err)

	assert.Empty(t, store.RelevantInsights("anything"),
		"in-memory state must match the successfully persisted state")
	assert.Equal(t, 0, store.InsightCount())

	err = store.RecordAnalysis(NewAnalysisStep("q", "a", "c", "r", nil))
	require.Error(t, err)
	assert.Equal(t, 0, store.AnalysisCount())
}

func TestIdempotentDirectoryBootstrap(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.AddInsight(testInsight(0)))

	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, second.InsightCount(), "existing records survive re-initialization")
}

func TestMalformedFileFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, insightsFile), []byte("{not json"), 0o644))

	_, err := NewStore(dir)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
}

func TestUnknownFieldsRejected(t *testing.T) {
	dir := t.TempDir()
	payload := `[{"timestamp":"2026-01-01T00:00:00Z","category":"pattern","description":"d","evidence":"e","confidence":0.5,"source":"direct_analysis","extra_field":1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, insightsFile), []byte(payload), 0o644))

	_, err := NewStore(dir)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
}

func TestMissingFieldsRejected(t *testing.T) {
	dir := t.TempDir()
	payload := `[{"category":"pattern","description":"d"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, insightsFile), []byte(payload), 0o644))

	_, err := NewStore(dir)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "missing required field")
}

func TestMissingFieldsRejectedAnalysis(t *testing.T) {
	dir := t.TempDir()
	payload := `[{"timestamp":"2026-01-01T00:00:00Z","question":"q","approach":"a"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, analysisFile), []byte(payload), 0o644))

	_, err := NewStore(dir)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
}

func TestConfidenceOutOfRangeRejected(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, confidence := range []float64{-0.1, 1.5} {
		ins := testInsight(0)
		ins.Confidence = confidence

		err := store.AddInsight(ins)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, store.InsightCount())

		step := NewAnalysisStep("q", "a", "c", "r", []Insight{ins})
		err = store.RecordAnalysis(step)
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, store.AnalysisCount())
	}
}
