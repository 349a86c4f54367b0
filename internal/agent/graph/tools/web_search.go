package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/datacation/titanic-analyst/internal/websearch"
)

// ===================================
// Web Search Tool
// ===================================

type WebSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type WebSearchOutput struct {
	Results []websearch.Result `json:"results"`
	Total   int                `json:"total"`
}

func createWebSearchTool(client *websearch.Client, defaultMax int) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolWebSearch,
			Desc: "Search the web via DuckDuckGo for historical context the dataset cannot answer, e.g. when the Titanic sank or what happened at a given port. Do NOT use it for passenger statistics; those come from the database tools.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search keywords, e.g. 'Titanic sinking date' or 'Cherbourg port history'.",
					Required: true,
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of results to return (default: 5)",
				},
			}),
		},
		func(ctx context.Context, in *WebSearchInput) (*WebSearchOutput, error) {
			if in.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			max := in.MaxResults
			if max <= 0 {
				max = defaultMax
			}
			results, err := client.Search(ctx, in.Query, max)
			if err != nil {
				return nil, err
			}
			return &WebSearchOutput{Results: results, Total: len(results)}, nil
		},
	)
}
