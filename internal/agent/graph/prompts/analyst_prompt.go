package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/datacation/titanic-analyst/internal/agent/graph/tools"
	"github.com/datacation/titanic-analyst/internal/knowledge"
)

//go:embed template/analyst_prompt.txt
var analystSystemPrompt string

// AnalystPromptData carries the dataset snapshot rendered into the analyst
// system prompt.
type AnalystPromptData struct {
	SchemaDescription string
	PassengerCount    int
	SurvivalRate      string
	AverageAge        string
	ClassDistribution string
	Insights          []knowledge.Insight
}

// RenderAnalystSystem renders the analyst system prompt via the Eino prompt
// component (which also emits prompt callbacks) and returns the final
// system prompt string.
func RenderAnalystSystem(ctx context.Context, data AnalystPromptData) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(analystSystemPrompt),
	)
	vars := map[string]any{
		"SchemaDescription": data.SchemaDescription,
		"PassengerCount":    data.PassengerCount,
		"SurvivalRate":      data.SurvivalRate,
		"AverageAge":        data.AverageAge,
		"ClassDistribution": data.ClassDistribution,
		"KnownInsights":     formatInsights(data.Insights),
		"SchemaTool":        tools.ToolDatasetSchema,
		"StatsTool":         tools.ToolDatasetStats,
		"SQLTool":           tools.ToolRunSQL,
		"SearchTool":        tools.ToolWebSearch,
		"InsightTool":       tools.ToolSaveInsight,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("analyst prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("analyst prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// formatInsights renders replayed insights as a compact bullet list. High
// volumes are capped; the retrieval facade does not rank yet, so the most
// recent entries win.
func formatInsights(insights []knowledge.Insight) string {
	const maxReplayed = 10
	if len(insights) == 0 {
		return ""
	}
	if len(insights) > maxReplayed {
		insights = insights[len(insights)-maxReplayed:]
	}

	var b strings.Builder
	for _, ins := range insights {
		fmt.Fprintf(&b, "- [%s, confidence %.2f] %s\n", ins.Category, ins.Confidence, ins.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
