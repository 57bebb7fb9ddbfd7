package search

import (
	"sort"

	"github.com/madvet/vetsearch/core"
)

// candidate is a scored product accumulated across pipeline layers.
type candidate struct {
	product *core.Product
	score   float32
}

// mergeLayers folds layer scores into one candidate set. Lexical and fuzzy
// scores add up; semantic contributes its scaled similarity on top, so a
// product found by several layers outranks single-layer hits.
func mergeLayers(layers ...map[core.ID]*candidate) map[core.ID]*candidate {
	merged := make(map[core.ID]*candidate)
	for _, layer := range layers {
		for id, cand := range layer {
			if existing, ok := merged[id]; ok {
				existing.score += cand.score
			} else {
				merged[id] = &candidate{product: cand.product, score: cand.score}
			}
		}
	}
	return merged
}

// finalize turns merged candidates into the ranked result list:
// injectable discounting, threshold cut, duplicate collapse, family
// collapse, ordering and topK.
func finalize(candidates map[core.ID]*candidate, expanded *core.ExpandedQuery, policy Policy, topK int) []*core.SearchResult {
	threshold := policy.threshold(len(expanded.ClinicalTerms) > 0)
	injectableOK := wantsInjectable(expanded)

	// Collapse catalog duplicates first: rows with the same dedup identity
	// keep only their best-scoring copy.
	byDedup := make(map[string]*candidate)
	for _, cand := range candidates {
		if !injectableOK && isInjectable(cand.product) {
			cand.score *= policy.InjectableFactor
		}
		if cand.score < threshold {
			continue
		}
		key := cand.product.DedupKey()
		if existing, ok := byDedup[key]; !ok || cand.score > existing.score {
			byDedup[key] = cand
		}
	}

	// Collapse product families: one variant per brand line, preferring the
	// requested form factor, then the higher score.
	byFamily := make(map[string]*candidate)
	for _, cand := range byDedup {
		key := familyKey(cand.product)
		existing, ok := byFamily[key]
		if !ok {
			byFamily[key] = cand
			continue
		}
		if preferCandidate(cand, existing, expanded) {
			byFamily[key] = cand
		}
	}

	results := make([]*core.SearchResult, 0, len(byFamily))
	for _, cand := range byFamily {
		results = append(results, &core.SearchResult{Product: cand.product, Score: cand.score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.Name < results[j].Product.Name
	})

	if topK <= 0 {
		topK = policy.MaxResults
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// preferCandidate decides whether next should displace current within a
// product family. A requested form factor outranks raw score.
func preferCandidate(next, current *candidate, expanded *core.ExpandedQuery) bool {
	nextForm := matchesForm(next.product, expanded.FormFactor)
	currentForm := matchesForm(current.product, expanded.FormFactor)
	if nextForm != currentForm {
		return nextForm
	}
	return next.score > current.score
}
