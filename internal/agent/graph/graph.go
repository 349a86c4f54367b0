package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	logx "github.com/datacation/titanic-analyst/pkg/logger"

	"github.com/datacation/titanic-analyst/internal/agent/graph/conversations"
	"github.com/datacation/titanic-analyst/internal/agent/graph/nodes"
	"github.com/datacation/titanic-analyst/internal/agent/graph/observers"
	"github.com/datacation/titanic-analyst/internal/agent/graph/prompts"
	"github.com/datacation/titanic-analyst/internal/agent/graph/tools"
	"github.com/datacation/titanic-analyst/internal/agent/model"
	"github.com/datacation/titanic-analyst/internal/dataset"
	"github.com/datacation/titanic-analyst/internal/knowledge"
	"github.com/datacation/titanic-analyst/internal/websearch"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.AnalysisResult, error)
}

// Config holds everything needed to compose the full analyst graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// model, MessagesManager, and the dataset snapshot for the system prompt.
type Config struct {
	APIKey  string
	BaseURL string
	Analyst model.AnalystModelConfig

	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository

	Inspector *dataset.Inspector
	Knowledge *knowledge.Store
	Search    *websearch.Client

	SearchMaxResults int

	// Verbose dumps full model/tool traffic to the terminal.
	Verbose bool
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	AnalystModel    *nodes.AnalystModel
	MessagesManager *conversations.MessagesManager
	Retriever       knowledge.Retriever
	PromptData      prompts.AnalystPromptData
	Tools           tools.Deps
	ToolMaxCalls    int
}

// GraphBuilder handles the construction of the analyst graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
	verbose  bool
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.AnalysisResult, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks(r.verbose)))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return &model.AnalysisResult{}, nil
	}

	result := &model.AnalysisResult{Answer: out.Content}
	if queries, ok := out.Extra[model.ExtraExecutedQueries].([]string); ok {
		result.Queries = queries
	}
	if total, ok := out.Extra[model.ExtraUsageCostTotal].(float64); ok {
		result.TotalCostUSD = total
	}

	if r.verbose && len(out.Extra) > 0 {
		if b, err := json.MarshalIndent(out.Extra, "", "  "); err == nil {
			fmt.Printf("Extra: %s\n", string(b))
		}
	}
	return result, nil
}

// BuildAnalystGraph composes the chat model, MessagesManager, and the dataset
// prompt snapshot, builds the graph, and returns a Runner.
func BuildAnalystGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.Inspector == nil {
		return nil, fmt.Errorf("dataset inspector is nil")
	}
	if cfg.Knowledge == nil {
		return nil, fmt.Errorf("knowledge store is nil")
	}
	if cfg.Search == nil {
		cfg.Search = websearch.NewClient()
	}

	am, err := nodes.NewAnalystModel(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Analyst: &cfg.Analyst,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	promptData, err := snapshotPromptData(ctx, cfg.Inspector)
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		AnalystModel:    am,
		MessagesManager: mm,
		Retriever:       cfg.Knowledge,
		PromptData:      promptData,
		Tools: tools.Deps{
			Inspector:        cfg.Inspector,
			Knowledge:        cfg.Knowledge,
			Search:           cfg.Search,
			SearchMaxResults: cfg.SearchMaxResults,
		},
		ToolMaxCalls: cfg.Conversation.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Analyst graph built successfully")
	return &graphRunner{runnable: runnable, verbose: cfg.Verbose}, nil
}

// snapshotPromptData precomputes the dataset overview rendered into the
// analyst system prompt. Computed once at build time; the table is static.
func snapshotPromptData(ctx context.Context, insp *dataset.Inspector) (prompts.AnalystPromptData, error) {
	var data prompts.AnalystPromptData

	schemaDesc, err := insp.SchemaDescription(ctx)
	if err != nil {
		return data, fmt.Errorf("describe schema: %w", err)
	}
	count, err := insp.PassengerCount(ctx)
	if err != nil {
		return data, fmt.Errorf("count passengers: %w", err)
	}
	rate, err := insp.SurvivalRate(ctx)
	if err != nil {
		return data, fmt.Errorf("survival rate: %w", err)
	}
	avgAge, err := insp.AverageAge(ctx)
	if err != nil {
		return data, fmt.Errorf("average age: %w", err)
	}
	dist, err := insp.ClassDistribution(ctx)
	if err != nil {
		return data, fmt.Errorf("class distribution: %w", err)
	}

	data.SchemaDescription = schemaDesc
	data.PassengerCount = count
	data.SurvivalRate = fmt.Sprintf("%.2f", rate)
	data.AverageAge = fmt.Sprintf("%.2f", avgAge)
	data.ClassDistribution = dataset.ClassDistributionString(dist)
	return data, nil
}

// BuildGraph constructs and returns the compiled analyst graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.AnalystModel == nil || config.AnalystModel.Chat == nil {
		return nil, fmt.Errorf("analyst model is not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Retriever == nil {
		return nil, fmt.Errorf("knowledge retriever is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools configures the analyst tools and binds them to the chat model
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	analystTools := tools.GetQueryTools(b.config.Tools)
	toolInfos, err := tools.GetToolInfos(ctx, analystTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.AnalystModel.BindTools(ctx, toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to analyst model")
		return fmt.Errorf("failed to bind tools to analyst model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               analystTools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls (e.g., empty name)
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: func(ctx context.Context, name, arguments string) (string, error) {
			// Best-effort sanitize; never fail hard here
			var m map[string]any
			if err := json.Unmarshal([]byte(arguments), &m); err != nil {
				return arguments, nil
			}

			switch name {
			case tools.ToolRunSQL:
				if v, ok := m["query"]; ok {
					switch vv := v.(type) {
					case string:
						m["query"] = strings.TrimSpace(vv)
					default:
						m["query"] = strings.TrimSpace(fmt.Sprint(v))
					}
				}
			case tools.ToolWebSearch:
				if v, ok := m["query"]; ok {
					switch vv := v.(type) {
					case string:
						m["query"] = strings.TrimSpace(vv)
					default:
						m["query"] = strings.TrimSpace(fmt.Sprint(v))
					}
				}
				// max_results: number (optional, clamped)
				if v, ok := m["max_results"]; ok {
					switch vv := v.(type) {
					case float64:
						// JSON numbers decode as float64
						m["max_results"] = clampInt(int(vv), 1, 10)
					case string:
						if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
							m["max_results"] = clampInt(n, 1, 10)
						} else {
							delete(m, "max_results")
						}
					default:
						delete(m, "max_results")
					}
				}
			}

			out, err := json.Marshal(m)
			if err != nil {
				return arguments, nil
			}
			return string(out), nil
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)

	return nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.Retriever, b.config.PromptData),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeAnalystChatModel,
		nodes.NewAnalystChatModelNode(b.config.AnalystModel),
		compose.WithStatePreHandler(nodes.NewAnalystChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewAnalystChatModelPostHandler(b.config.MessagesManager, b.config.AnalystModel.ModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeAnalystChatModel},
		{nodes.NodeToolExecutor, nodes.NodeAnalystChatModel},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeAnalystChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries
	maxSteps := 10 + b.config.ToolMaxCalls*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
