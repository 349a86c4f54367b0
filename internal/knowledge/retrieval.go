package knowledge

// Retriever answers "what do we already know that bears on this question".
// The store satisfies it with the placeholder contract below; a semantic
// ranking implementation can replace it without touching persistence.
type Retriever interface {
	RelevantInsights(question string) []Insight
	SimilarAnalyses(question string) []AnalysisStep
}

// RelevantInsights returns insights relevant to the question. Until
// semantic search lands this is the entire collection in insertion order.
// An empty store yields an empty slice, never an error.
//
// TODO: rank by semantic similarity to the question.
func (s *Store) RelevantInsights(question string) []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Insight, len(s.insights))
	copy(out, s.insights)
	return out
}

// SimilarAnalyses returns past analyses similar to the question. Same
// placeholder contract as RelevantInsights.
//
// TODO: rank by semantic similarity to the question.
func (s *Store) SimilarAnalyses(question string) []AnalysisStep {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AnalysisStep, len(s.history))
	copy(out, s.history)
	return out
}

var _ Retriever = (*Store)(nil)
