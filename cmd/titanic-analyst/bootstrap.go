package main

import (
	"context"
	"fmt"
	"time"

	"github.com/datacation/titanic-analyst/internal/agent/graph"
	"github.com/datacation/titanic-analyst/internal/agent/model"
	"github.com/datacation/titanic-analyst/internal/agent/repo"
	"github.com/datacation/titanic-analyst/internal/dataset"
	"github.com/datacation/titanic-analyst/internal/knowledge"
	"github.com/datacation/titanic-analyst/internal/websearch"
	logx "github.com/datacation/titanic-analyst/pkg/logger"
)

// session bundles everything an analysis command needs: the compiled graph
// runner plus the shared stores so the command can record analysis steps.
type session struct {
	runner    graph.Runner
	knowledge *knowledge.Store
	inspector *dataset.Inspector
	cleanup   func()
}

// openInspector makes sure the dataset exists (running the pipeline when it
// does not) and opens an inspector over it.
func openInspector(ctx context.Context) (*dataset.Inspector, error) {
	if err := dataset.RunPipeline(ctx, cfg.Pipeline); err != nil {
		return nil, fmt.Errorf("prepare dataset: %w", err)
	}
	return dataset.NewInspector(cfg.Pipeline.DBPath())
}

// newConversationRepo returns the Redis-backed repository when a Redis URL
// is configured, falling back to process-local memory otherwise.
func newConversationRepo(ttl time.Duration) (model.ConversationRepository, func(), error) {
	if cfg.Redis.URL == "" {
		logx.Debug().Msg("No Redis URL configured; conversation history is in-memory")
		return repo.NewMemoryConversationRepository(), func() {}, nil
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Redis: %w", err)
	}
	return repo.NewRedisConversationRepository(rdb, ttl), func() { rdb.Close() }, nil
}

// newSession wires the knowledge store, dataset inspector, conversation
// repository, and graph runner together.
func newSession(ctx context.Context) (*session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	store, err := knowledge.NewStore(cfg.Knowledge.Dir)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}

	insp, err := openInspector(ctx)
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		insp.Close()
		return nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
	}

	convRepo, closeRepo, err := newConversationRepo(ttl)
	if err != nil {
		insp.Close()
		return nil, err
	}

	runner, err := graph.BuildAnalystGraph(ctx, graph.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Analyst:          cfg.Analyst,
		Conversation:     cfg.Conversation,
		ConversationRepo: convRepo,
		Inspector:        insp,
		Knowledge:        store,
		Search:           websearch.NewClient(),
		SearchMaxResults: cfg.Search.MaxResults,
		Verbose:          verbose,
	})
	if err != nil {
		closeRepo()
		insp.Close()
		return nil, fmt.Errorf("build analyst graph: %w", err)
	}

	return &session{
		runner:    runner,
		knowledge: store,
		inspector: insp,
		cleanup: func() {
			closeRepo()
			insp.Close()
		},
	}, nil
}

// recordStep persists one answered question into the knowledge store. A
// persistence failure must not eat the answer, so it only logs.
func (s *session) recordStep(question string, result *model.AnalysisResult) {
	code := ""
	for i, q := range result.Queries {
		if i > 0 {
			code += "\n"
		}
		code += q
	}
	approach := "sql_analysis"
	if len(result.Queries) == 0 {
		approach = "direct_answer"
	}

	step := knowledge.NewAnalysisStep(question, approach, code, result.Answer, nil)
	if err := s.knowledge.RecordAnalysis(step); err != nil {
		logx.Error().Err(err).Msg("Failed to record analysis step")
	}
}
