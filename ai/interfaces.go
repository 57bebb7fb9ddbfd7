package ai

import (
	"context"

	"github.com/madvet/vetsearch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryExpander turns a raw customer utterance into a structured expansion.
// It is the slow path behind the rule-based expander: implementations are
// expected to call a language model constrained to the ExpandedQuery shape.
// Implementations must be thread-safe for concurrent use.
type QueryExpander interface {
	// ExpandQuery extracts clinical terms, species, form factors and the
	// follow-up flag from an utterance that may mix Hindi, Hinglish and
	// English. The response must be treated as untrusted: implementations
	// return an error when the model output cannot be parsed, and callers
	// degrade to an empty expansion rather than failing the search.
	ExpandQuery(ctx context.Context, utterance string) (*core.ExpandedQuery, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and QueryExpander instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QueryExpander returns the utterance expansion service.
	// The returned QueryExpander is safe for concurrent use.
	QueryExpander() QueryExpander

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
