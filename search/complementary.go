package search

import (
	"context"
	"sort"
	"strings"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// defaultComplementary bounds the adjunct suggestion list when the caller
// passes no limit. Suggestions are an upsell aid, not a second result page.
const defaultComplementary = 3

// speciesFitBonus nudges adjuncts labeled for the customer's animal ahead
// of equally relevant ones that are not.
const speciesFitBonus = 0.5

// SearchComplementary finds clinically adjunct products for a primary
// result set: probiotics after a dewormer, liver tonics after antibiotics.
// Nothing already in the primary set, its product families, or its
// categories is ever suggested. Returns an empty list when the primary set
// is empty or no adjacency applies; it never errors on "nothing to
// suggest".
func (s *Searcher) SearchComplementary(ctx context.Context, primaries []*core.SearchResult, expanded *core.ExpandedQuery, topK int) ([]*core.SearchResult, error) {
	if topK <= 0 {
		topK = defaultComplementary
	}

	seen := make(map[core.ID]bool)
	families := make(map[string]bool)
	keywordSet := make(map[string]bool)
	var categories []core.Category
	for _, r := range primaries {
		if r == nil || r.Product == nil {
			continue
		}
		p := r.Product
		seen[p.Id] = true
		families[familyKey(p)] = true
		categories = append(categories, p.Category)
		for _, kw := range lexicon.ComplementKeywords(string(p.Category), p.Indication) {
			keywordSet[kw] = true
		}
	}
	if len(keywordSet) == 0 {
		return []*core.SearchResult{}, nil
	}
	keywords := make([]string, 0, len(keywordSet))
	for kw := range keywordSet {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.logger.Error("catalog unavailable", "err", err)
		return nil, err
	}

	var results []*core.SearchResult
	for _, p := range products {
		if seen[p.Id] || families[familyKey(p)] || sharesCategory(p, categories) {
			continue
		}

		text := strings.ToLower(string(p.Category) + " " + p.Indication + " " + p.Name)
		var hits float32
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		if expanded != nil && matchesSpecies(p, expanded.Species) {
			hits += speciesFitBonus
		}
		results = append(results, &core.SearchResult{Product: p, Score: hits})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.Name < results[j].Product.Name
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// sharesCategory reports whether the product's category matches any
// primary category. More of the same is not a complement.
func sharesCategory(p *core.Product, categories []core.Category) bool {
	for _, c := range categories {
		if p.Category.Matches(string(c)) || c.Matches(string(p.Category)) {
			return true
		}
	}
	return false
}

// matchesSpecies reports whether the product's species field names any of
// the requested species.
func matchesSpecies(p *core.Product, species []string) bool {
	if len(species) == 0 {
		return false
	}
	text := strings.ToLower(p.Species)
	for _, sp := range species {
		if strings.Contains(text, sp) {
			return true
		}
	}
	return false
}
