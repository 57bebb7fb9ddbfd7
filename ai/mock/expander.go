package mock

import (
	"context"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// MockQueryExpander is a test double for ai.QueryExpander.
// It allows custom behavior injection via function fields.
type MockQueryExpander struct {
	// ExpandQueryFunc is called by ExpandQuery if set.
	// If nil, uses default lexicon-backed behavior.
	ExpandQueryFunc func(ctx context.Context, utterance string) (*core.ExpandedQuery, error)

	callCount int
}

// NewMockQueryExpander creates a mock query expander with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExpander().
func NewMockQueryExpander() *MockQueryExpander {
	return &MockQueryExpander{}
}

// ExpandQuery expands an utterance using the static lexicon tables.
// Default behavior mirrors what the rule tier produces, so tests exercise
// realistic expansions without a live model.
func (m *MockQueryExpander) ExpandQuery(ctx context.Context, utterance string) (*core.ExpandedQuery, error) {
	m.callCount++

	if m.ExpandQueryFunc != nil {
		return m.ExpandQueryFunc(ctx, utterance)
	}

	return &core.ExpandedQuery{
		ClinicalTerms: lexicon.ClinicalConcepts(utterance),
		Species:       lexicon.SpeciesHints(utterance),
		FormFactor:    lexicon.FormHints(utterance),
		IsEmergency:   lexicon.HasEmergency(utterance),
	}, nil
}

// CallCount returns the number of times ExpandQuery was called.
func (m *MockQueryExpander) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockQueryExpander) Reset() {
	m.callCount = 0
	m.ExpandQueryFunc = nil
}
