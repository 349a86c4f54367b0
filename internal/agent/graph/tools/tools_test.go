package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/datacation/titanic-analyst/internal/dataset"
	"github.com/datacation/titanic-analyst/internal/knowledge"
)

func seedInspector(t *testing.T) *dataset.Inspector {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "titanic.sqlite")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE titanic ("Survived" INTEGER, "Pclass" INTEGER, "Age" REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO titanic VALUES (1, 1, 30.0), (0, 3, 40.0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	insp, err := dataset.NewInspector(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { insp.Close() })
	return insp
}

func invoke(t *testing.T, bt tool.BaseTool, args string) string {
	t.Helper()
	inv, ok := bt.(tool.InvokableTool)
	require.True(t, ok, "tool must be invokable")
	out, err := inv.InvokableRun(context.Background(), args)
	require.NoError(t, err)
	return out
}

func TestDatasetStatsTool(t *testing.T) {
	bt := createDatasetStatsTool(seedInspector(t))

	out := invoke(t, bt, `{"metric":"all"}`)

	var parsed DatasetStatsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.NotNil(t, parsed.PassengerCount)
	assert.Equal(t, 2, *parsed.PassengerCount)
	require.NotNil(t, parsed.SurvivalRatePct)
	assert.InDelta(t, 50.0, *parsed.SurvivalRatePct, 0.001)
	assert.Equal(t, map[int]int{1: 1, 3: 1}, parsed.ClassDistribution)
}

func TestDatasetStatsToolUnknownMetric(t *testing.T) {
	bt := createDatasetStatsTool(seedInspector(t))
	inv := bt.(tool.InvokableTool)
	_, err := inv.InvokableRun(context.Background(), `{"metric":"nonsense"}`)
	require.Error(t, err)
}

func TestRunSQLTool(t *testing.T) {
	bt := createRunSQLTool(seedInspector(t))

	out := invoke(t, bt, `{"query":"SELECT Pclass FROM titanic ORDER BY Pclass"}`)
	assert.Contains(t, out, "Pclass")

	inv := bt.(tool.InvokableTool)
	_, err := inv.InvokableRun(context.Background(), `{"query":"DROP TABLE titanic"}`)
	require.Error(t, err, "mutating statements must be rejected")
}

func TestSaveInsightTool(t *testing.T) {
	store, err := knowledge.NewStore(t.TempDir())
	require.NoError(t, err)

	bt := createSaveInsightTool(store)
	out := invoke(t, bt, `{"category":"pattern","description":"women survived at a higher rate","evidence":"SELECT Sex, AVG(Survived) FROM titanic GROUP BY Sex","confidence":0.95}`)

	var parsed SaveInsightOutput
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.True(t, parsed.Saved)
	assert.Equal(t, 1, parsed.TotalInsights)

	insights := store.RelevantInsights("survival")
	require.Len(t, insights, 1)
	assert.Equal(t, knowledge.CategoryPattern, insights[0].Category)

	// Out-of-range confidence propagates the store's validation error.
	inv := bt.(tool.InvokableTool)
	_, err = inv.InvokableRun(context.Background(), `{"category":"pattern","description":"d","confidence":1.4}`)
	require.Error(t, err)
	assert.Equal(t, 1, store.InsightCount())
}
