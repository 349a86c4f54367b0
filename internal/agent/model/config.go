package model

import "fmt"

// ================ Config ================

// AnalystModelConfig configures the Gemini model that reasons over the
// dataset. Defaults mirror the workshop's original tuning.
type AnalystModelConfig struct {
	Model       string  `envconfig:"ANALYST_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANALYST_MAX_TOKENS" default:"8192"`
	Temperature float32 `envconfig:"ANALYST_TEMPERATURE" default:"0.3"`
	TopP        float32 `envconfig:"ANALYST_TOP_P" default:"0.8"`
	TopK        int32   `envconfig:"ANALYST_TOP_K" default:"20"`
}

// Validate rejects parameter values outside the model's documented domain.
func (c AnalystModelConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %g", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be between 0 and 1, got %g", c.TopP)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	return nil
}

// ConversationConfig bounds conversation memory and the agent's tool budget.
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
	}
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

// KnowledgeConfig locates the JSON-backed knowledge store.
type KnowledgeConfig struct {
	Dir string `envconfig:"KNOWLEDGE_DIR" default:"knowledge"`
}

// SearchConfig bounds the web_search tool.
type SearchConfig struct {
	MaxResults int `envconfig:"SEARCH_MAX_RESULTS" default:"5"`
}
