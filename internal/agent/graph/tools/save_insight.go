package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	errx "github.com/datacation/titanic-analyst/internal/core/error"
	"github.com/datacation/titanic-analyst/internal/knowledge"
)

// ===================================
// Save Insight Tool
// ===================================

type SaveInsightInput struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Evidence    string  `json:"evidence,omitempty"`
	Confidence  float64 `json:"confidence"`
}

type SaveInsightOutput struct {
	Saved         bool `json:"saved"`
	TotalInsights int  `json:"total_insights"`
}

func createSaveInsightTool(store *knowledge.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSaveInsight,
			Desc: "Record a durable insight about the dataset or the analysis process, e.g. a data quality issue or a pattern worth remembering. Saved insights are replayed into future conversations.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"category": {
					Type:     "string",
					Desc:     "One of: data_structure, pattern, edge_case.",
					Required: true,
				},
				"description": {
					Type:     "string",
					Desc:     "Human-readable statement of the insight.",
					Required: true,
				},
				"evidence": {
					Type: "string",
					Desc: "Code or data supporting the insight, typically the SQL that revealed it.",
				},
				"confidence": {
					Type:     "number",
					Desc:     "How certain the insight is, from 0.0 to 1.0.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *SaveInsightInput) (*SaveInsightOutput, error) {
			if in.Description == "" {
				return nil, fmt.Errorf("description is required")
			}
			insight := knowledge.NewInsight(
				in.Category,
				in.Description,
				in.Evidence,
				in.Confidence,
				knowledge.SourceDirectAnalysis,
			)
			if err := store.AddInsight(insight); err != nil {
				return nil, errx.WrapKnowledge(err)
			}
			return &SaveInsightOutput{Saved: true, TotalInsights: store.InsightCount()}, nil
		},
	)
}
