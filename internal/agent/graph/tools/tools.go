// Package tools defines the analyst's tool surface: dataset statistics,
// schema inspection, read-only SQL, web search, and insight capture.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/datacation/titanic-analyst/internal/dataset"
	"github.com/datacation/titanic-analyst/internal/knowledge"
	"github.com/datacation/titanic-analyst/internal/websearch"
)

// Tool names bound to the analyst model.
const (
	ToolDatasetStats  = "titanic_stats"
	ToolDatasetSchema = "titanic_schema"
	ToolRunSQL        = "run_sql"
	ToolWebSearch     = "web_search"
	ToolSaveInsight   = "save_insight"
)

// Deps carries the collaborators the tools close over.
type Deps struct {
	Inspector        *dataset.Inspector
	Knowledge        *knowledge.Store
	Search           *websearch.Client
	SearchMaxResults int
}

// GetQueryTools builds the full tool set for the analyst model.
func GetQueryTools(deps Deps) []tool.BaseTool {
	return []tool.BaseTool{
		createDatasetStatsTool(deps.Inspector),
		createDatasetSchemaTool(deps.Inspector),
		createRunSQLTool(deps.Inspector),
		createWebSearchTool(deps.Search, deps.SearchMaxResults),
		createSaveInsightTool(deps.Knowledge),
	}
}

// GetToolInfos resolves the ToolInfo for each tool so they can be bound to
// the chat model.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
