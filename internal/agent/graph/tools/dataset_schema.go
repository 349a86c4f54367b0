package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/datacation/titanic-analyst/internal/dataset"
)

// ===================================
// Dataset Schema Tool
// ===================================

type DatasetSchemaInput struct{}

type DatasetSchemaOutput struct {
	Schema string `json:"schema"`
}

func createDatasetSchemaTool(insp *dataset.Inspector) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolDatasetSchema,
			Desc: "Describe the titanic table: column names and SQL types. Call this before composing SQL so column names are exact.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, in *DatasetSchemaInput) (*DatasetSchemaOutput, error) {
			desc, err := insp.SchemaDescription(ctx)
			if err != nil {
				return nil, err
			}
			return &DatasetSchemaOutput{Schema: desc}, nil
		},
	)
}
