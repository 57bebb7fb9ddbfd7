package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// Catalog supplies the products searched over. catalog.Cache satisfies it.
type Catalog interface {
	Products(ctx context.Context) ([]*core.Product, error)
}

// QueryExpander turns an utterance into a structured query.
// expand.Expander satisfies it.
type QueryExpander interface {
	Expand(ctx context.Context, utterance string) (*core.ExpandedQuery, error)
}

// Searcher retrieves catalog products for customer utterances.
type Searcher struct {
	catalog  Catalog
	expander QueryExpander
	embedder ai.Embedder
	policy   Policy
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "searcher")
		return nil
	}
}

// WithEmbedder enables the semantic layer. Without it the pipeline runs
// lexical and fuzzy layers only.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		s.embedder = embedder
		return nil
	}
}

// WithPolicy overrides the default scoring policy.
func WithPolicy(policy Policy) Option {
	return func(s *Searcher) error {
		s.policy = policy
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(catalog Catalog, expander QueryExpander, opts ...Option) (*Searcher, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}

	s := &Searcher{
		catalog:  catalog,
		expander: expander,
		policy:   DefaultPolicy(),
		logger:   slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search retrieves up to topK products for the query, using the
// conversation history to re-root follow-up messages.
func (s *Searcher) Search(ctx context.Context, query string, history []core.ConversationTurn, topK int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, history, topK, nil)
}

// SearchWithMonitor runs the full retrieval pipeline with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, history []core.ConversationTurn, topK int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	// 1. Expand the utterance. The expander memoizes; its result is shared
	// and must not be mutated, so work on a merged copy.
	expanded, err := s.expander.Expand(ctx, query)
	if err != nil {
		return nil, err
	}
	eff := &core.ExpandedQuery{}
	eff.Merge(expanded)

	// 2. Follow-up messages carry no searchable content of their own
	// ("kitna dena hai"); re-root them on the prior user turn.
	searchText := query
	if eff.IsFollowUp {
		if prior := lastUserTurn(history); prior != "" {
			searchText = prior
			monitor.FollowUpRerooted(prior)
			if priorExpanded, expandErr := s.expander.Expand(ctx, prior); expandErr == nil {
				eff.Merge(priorExpanded)
			}
		}
	}
	monitor.AfterExpansion(eff)

	// 3. Load the catalog and apply category exclusions as a hard filter.
	// Exclusion happens before any scoring: a high lexical score cannot
	// rescue a clinically wrong category.
	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.logger.Error("catalog unavailable", "err", err)
		return nil, err
	}

	eligible := make([]*core.Product, 0, len(products))
	excludedSignals := lexicon.ExcludedCategories(eff.ClinicalTerms)
	for _, p := range products {
		if signal := excludedBy(p, excludedSignals); signal != "" {
			monitor.ProductExcluded(p, signal)
			continue
		}
		eligible = append(eligible, p)
	}

	normalizedQuery := lexicon.Normalize(searchText)

	// 4. Exact name match short-circuits the pipeline, pulling in the
	// matched products' family variants.
	if results := s.exactResults(eligible, normalizedQuery, eff, topK, monitor); len(results) > 0 {
		monitor.Finish(results)
		return results, nil
	}

	// 5. Run the remaining layers concurrently over the snapshot.
	tokens := queryTokens(normalizedQuery, eff)
	fuzzyTokens := fuzzyQueryTokens(searchText)

	var (
		wg       sync.WaitGroup
		lexLayer = make(map[core.ID]*candidate)
		fuzLayer = make(map[core.ID]*candidate)
		semLayer = make(map[core.ID]*candidate)
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, p := range eligible {
			if score := lexicalScore(p, tokens, eff, s.policy); score > 0 {
				lexLayer[p.Id] = &candidate{product: p, score: score}
			}
		}
	}()
	go func() {
		defer wg.Done()
		for _, p := range eligible {
			if score := fuzzyScore(p, fuzzyTokens, s.policy); score > 0 {
				fuzLayer[p.Id] = &candidate{product: p, score: score}
			}
		}
	}()

	if s.embedder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vector, embedErr := s.embedder.EmbedText(ctx, searchText)
			if embedErr != nil {
				// Semantic layer degrades; lexical and fuzzy still answer.
				s.logger.Warn("embedding failed, skipping semantic layer", "err", embedErr)
				return
			}
			for _, p := range eligible {
				if len(p.Vector) == 0 {
					continue
				}
				if sim := dotProduct(vector, p.Vector); sim >= s.policy.SemanticThreshold {
					semLayer[p.Id] = &candidate{product: p, score: sim * s.policy.SemanticWeight}
				}
			}
		}()
	}

	wg.Wait()
	monitor.AfterLexicalLayer(len(lexLayer))
	monitor.AfterFuzzyLayer(len(fuzLayer))
	monitor.AfterSemanticLayer(len(semLayer))

	// 6. Merge, collapse and rank.
	results := finalize(mergeLayers(lexLayer, fuzLayer, semLayer), eff, s.policy, topK)
	monitor.Finish(results)

	return results, nil
}

// exactResults builds the short-circuit result set for exact name matches.
func (s *Searcher) exactResults(eligible []*core.Product, normalizedQuery string, eff *core.ExpandedQuery, topK int, monitor SearchMonitor) []*core.SearchResult {
	families := make(map[string]bool)
	candidates := make(map[core.ID]*candidate)

	for _, p := range eligible {
		if exactMatch(p, normalizedQuery) {
			monitor.ExactHit(p)
			candidates[p.Id] = &candidate{product: p, score: s.policy.ExactScore}
			families[familyKey(p)] = true
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Pull in family variants so "Wormi Stop" also offers "Wormi Stop
	// Forte" when the requested form differs.
	for _, p := range eligible {
		if _, ok := candidates[p.Id]; ok {
			continue
		}
		if families[familyKey(p)] {
			candidates[p.Id] = &candidate{product: p, score: s.policy.FamilyScore}
		}
	}

	return finalize(candidates, eff, s.policy, topK)
}

// excludedBy returns the exclusion signal the product's category matches,
// or "" when the product is eligible.
func excludedBy(p *core.Product, signals []string) string {
	for _, signal := range signals {
		if p.Category.Matches(signal) {
			return signal
		}
	}
	return ""
}

// lastUserTurn returns the text of the most recent customer turn.
func lastUserTurn(history []core.ConversationTurn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == core.TurnRoleUser && strings.TrimSpace(history[i].Text) != "" {
			return history[i].Text
		}
	}
	return ""
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
