package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	errx "github.com/datacation/titanic-analyst/internal/core/error"
	"github.com/datacation/titanic-analyst/internal/dataset"
)

// ===================================
// Run SQL Tool
// ===================================

type RunSQLInput struct {
	Query   string `json:"query"`
	MaxRows int    `json:"max_rows,omitempty"`
}

type RunSQLOutput struct {
	Rows string `json:"rows"`
}

func createRunSQLTool(insp *dataset.Inspector) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolRunSQL,
			Desc: "Run a read-only SELECT statement against the titanic table and get the rows back as text. Use this for any analysis the fixed statistics do not cover: grouped aggregates, filters, correlations. Only SELECT is accepted.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "A single SELECT statement over the titanic table, e.g. SELECT Sex, AVG(Survived) FROM titanic GROUP BY Sex.",
					Required: true,
				},
				"max_rows": {
					Type: "number",
					Desc: "Maximum number of rows to return (default: 50)",
				},
			}),
		},
		func(ctx context.Context, in *RunSQLInput) (*RunSQLOutput, error) {
			if in.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			rows, err := insp.Query(ctx, in.Query, in.MaxRows)
			if err != nil {
				return nil, errx.WrapDataset(err)
			}
			return &RunSQLOutput{Rows: rows}, nil
		},
	)
}
