package knowledge

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStoreRetrieval(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, store.RelevantInsights("anything"))
	assert.Empty(t, store.SimilarAnalyses("anything"))
}

func TestRecordThenRetrieveScenario(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	step := NewAnalysisStep(
		"How many survived?",
		"pandas_analysis",
		"df['Survived'].sum()",
		"342",
		nil,
	)
	require.NoError(t, store.RecordAnalysis(step))

	similar := store.SimilarAnalyses("survivors")
	require.Len(t, similar, 1)
	assert.Equal(t, "How many survived?", similar[0].Question)
	assert.Equal(t, "342", similar[0].Result)
}

func TestRetrievalReturnsCopies(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.AddInsight(testInsight(0)))

	got := store.RelevantInsights("q")
	got[0].Description = "mutated"

	assert.Equal(t, "insight 0", store.RelevantInsights("q")[0].Description,
		"callers must not be able to mutate stored records")
}

func TestConcurrentMutatorsAndReaders(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	const writers = 4
	const perWriter = 10

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				err := store.AddInsight(NewInsight(
					CategoryEdgeCase,
					fmt.Sprintf("writer %d insight %d", w, i),
					"evidence",
					0.5,
					SourceDirectAnalysis,
				))
				assert.NoError(t, err)
				// Concurrent reads must never observe torn state.
				_ = store.RelevantInsights("q")
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, store.InsightCount())

	reloaded, err := NewStore(store.Dir())
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, reloaded.InsightCount())
}
