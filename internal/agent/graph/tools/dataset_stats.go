package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/datacation/titanic-analyst/internal/dataset"
)

// ===================================
// Dataset Statistics Tool
// ===================================

type DatasetStatsInput struct {
	Metric string `json:"metric"`
}

type DatasetStatsOutput struct {
	SurvivalRatePct   *float64    `json:"survival_rate_pct,omitempty"`
	PassengerCount    *int        `json:"passenger_count,omitempty"`
	ClassDistribution map[int]int `json:"class_distribution,omitempty"`
	AverageAge        *float64    `json:"average_age,omitempty"`
}

func createDatasetStatsTool(insp *dataset.Inspector) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolDatasetStats,
			Desc: "Get precomputed statistics about the Titanic passenger dataset. Returns exact aggregate values straight from the database. Use this for headline numbers before writing any SQL.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"metric": {
					Type:     "string",
					Desc:     "Which statistic to fetch: survival_rate, passenger_count, class_distribution, average_age, or all.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *DatasetStatsInput) (*DatasetStatsOutput, error) {
			out := &DatasetStatsOutput{}

			want := func(metric string) bool {
				return in.Metric == metric || in.Metric == "all"
			}

			if want("survival_rate") {
				rate, err := insp.SurvivalRate(ctx)
				if err != nil {
					return nil, err
				}
				out.SurvivalRatePct = &rate
			}
			if want("passenger_count") {
				count, err := insp.PassengerCount(ctx)
				if err != nil {
					return nil, err
				}
				out.PassengerCount = &count
			}
			if want("class_distribution") {
				dist, err := insp.ClassDistribution(ctx)
				if err != nil {
					return nil, err
				}
				out.ClassDistribution = dist
			}
			if want("average_age") {
				avg, err := insp.AverageAge(ctx)
				if err != nil {
					return nil, err
				}
				out.AverageAge = &avg
			}

			if out.SurvivalRatePct == nil && out.PassengerCount == nil &&
				out.ClassDistribution == nil && out.AverageAge == nil {
				return nil, fmt.Errorf("unknown metric %q", in.Metric)
			}
			return out, nil
		},
	)
}
