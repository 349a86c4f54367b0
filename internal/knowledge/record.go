package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Insight categories produced by the analyst agent.
const (
	CategoryDataStructure = "data_structure"
	CategoryPattern       = "pattern"
	CategoryEdgeCase      = "edge_case"
)

// Insight sources.
const (
	SourceDirectAnalysis = "direct_analysis"
	SourceUserFeedback   = "user_feedback"
)

// Insight is a single recorded observation about the dataset or the
// analysis process.
type Insight struct {
	Timestamp   string  `json:"timestamp"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Evidence    string  `json:"evidence"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
}

// AnalysisStep is one answered question paired with the approach, code and
// result used to answer it, plus any insights derived along the way. The
// embedded insights are owned exclusively by the step.
type AnalysisStep struct {
	Timestamp string    `json:"timestamp"`
	Question  string    `json:"question"`
	Approach  string    `json:"approach"`
	Code      string    `json:"code"`
	Result    string    `json:"result"`
	Insights  []Insight `json:"insights"`
}

// NewInsight stamps an insight with the current instant in ISO-8601 form.
func NewInsight(category, description, evidence string, confidence float64, source string) Insight {
	return Insight{
		Timestamp:   time.Now().Format(time.RFC3339),
		Category:    category,
		Description: description,
		Evidence:    evidence,
		Confidence:  confidence,
		Source:      source,
	}
}

// NewAnalysisStep stamps an analysis step with the current instant.
func NewAnalysisStep(question, approach, code, result string, insights []Insight) AnalysisStep {
	return AnalysisStep{
		Timestamp: time.Now().Format(time.RFC3339),
		Question:  question,
		Approach:  approach,
		Code:      code,
		Result:    result,
		Insights:  insights,
	}
}

// Validate rejects insights outside the documented domain. Confidence is
// documented as 0.0 to 1.0 and the store enforces it.
func (i Insight) Validate() error {
	if i.Confidence < 0.0 || i.Confidence > 1.0 {
		return &ValidationError{
			Field:  "confidence",
			Reason: fmt.Sprintf("must be within [0.0, 1.0], got %g", i.Confidence),
		}
	}
	return nil
}

// Validate checks the step itself and every owned insight.
func (s AnalysisStep) Validate() error {
	for idx, ins := range s.Insights {
		if err := ins.Validate(); err != nil {
			return fmt.Errorf("insight %d: %w", idx, err)
		}
	}
	return nil
}

// Every persisted field is mandatory; a record missing one was written by a
// different schema and must not load with zero values.
var (
	insightRequiredKeys      = []string{"timestamp", "category", "description", "evidence", "confidence", "source"}
	analysisStepRequiredKeys = []string{"timestamp", "question", "approach", "code", "result", "insights"}
)

// decodeRecords parses a persisted collection with strict field checking so
// a file written by a different schema fails loudly instead of loading with
// silently defaulted fields. Unknown fields and missing required fields are
// both rejected.
func decodeRecords[T any](data []byte, required []string) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for idx, item := range raw {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(item, &keys); err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		for _, k := range required {
			if _, ok := keys[k]; !ok {
				return nil, fmt.Errorf("record %d: missing required field %q", idx, k)
			}
		}
		var rec T
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
