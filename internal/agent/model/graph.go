package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Do not access AppState directly from outside handlers. For persistence,
//     use repositories/services (e.g., MessagesManager, knowledge.Store).
type AppState struct {
	ConversationID       string
	History              []*schema.Message // mutated only inside Eino state handlers
	ToolCallCount        int               // maintained in handlers (reset/increment)
	ToolCallLimitReached bool              // set when tool call limit is exceeded
	ToolCallIDSeq        int               // local sequence to synthesize tool_call_id when provider omits

	// SQL statements issued by the run_sql tool during this query, captured
	// for the knowledge store's analysis record.
	ExecutedQueries []string

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// AnalysisResult is what the runner hands back to the caller: the answer
// plus everything needed to record the analysis step.
type AnalysisResult struct {
	Answer       string
	Queries      []string // SQL issued by run_sql during the query
	TotalCostUSD float64
}

// Extra keys used to carry state out of the graph on the final message.
const (
	ExtraUsageCost       = "usage_cost"
	ExtraUsageCostTotal  = "usage_cost_total_usd"
	ExtraExecutedQueries = "executed_queries"
)
