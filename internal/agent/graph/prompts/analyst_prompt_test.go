package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacation/titanic-analyst/internal/knowledge"
)

func TestRenderAnalystSystem(t *testing.T) {
	data := AnalystPromptData{
		SchemaDescription: "Table: titanic\nColumns:\n- Survived: INTEGER\n",
		PassengerCount:    891,
		SurvivalRate:      "38.38",
		AverageAge:        "29.70",
		ClassDistribution: "class 1: 216, class 2: 184, class 3: 491",
		Insights: []knowledge.Insight{
			knowledge.NewInsight(knowledge.CategoryPattern, "women survived at a higher rate", "", 0.95, knowledge.SourceDirectAnalysis),
		},
	}

	out, err := RenderAnalystSystem(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, out, "Total passengers: 891")
	assert.Contains(t, out, "38.38%")
	assert.Contains(t, out, "- Survived: INTEGER")
	assert.Contains(t, out, "run_sql")
	assert.Contains(t, out, "save_insight")
	assert.Contains(t, out, "women survived at a higher rate")
	assert.Contains(t, out, "privacy")
}

func TestRenderAnalystSystemNoInsights(t *testing.T) {
	out, err := RenderAnalystSystem(context.Background(), AnalystPromptData{
		SchemaDescription: "Table: titanic",
		PassengerCount:    891,
		SurvivalRate:      "38.38",
		AverageAge:        "29.70",
		ClassDistribution: "class 3: 491",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "What we already know")
}
