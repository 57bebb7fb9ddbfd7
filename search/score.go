package search

import (
	"strings"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// minTokenLen is the shortest query token considered as lexical evidence.
const minTokenLen = 3

// lexicalScore computes the weighted field-match score for one product.
// Each query token contributes its strongest field hit only, so a token
// appearing in both name and description counts as a name hit.
func lexicalScore(p *core.Product, queryTokens []string, expanded *core.ExpandedQuery, policy Policy) float32 {
	name := lexicon.Normalize(p.Name)
	aliases := strings.ToLower(p.Aliases)
	indication := strings.ToLower(p.Indication)
	composition := strings.ToLower(p.Composition)
	category := strings.ToLower(string(p.Category))
	fullText := p.SearchableText()

	var score float32
	for _, token := range queryTokens {
		if len(token) < minTokenLen || lexicon.IsGeneric(token) {
			continue
		}
		switch {
		case strings.Contains(name, token):
			score += policy.NameWeight
		case strings.Contains(aliases, token):
			score += policy.AliasWeight
		case strings.Contains(indication, token):
			score += policy.IndicationWeight
		case strings.Contains(composition, token):
			score += policy.CompositionWeight
		case strings.Contains(category, token):
			score += policy.CategoryWeight
		case strings.Contains(fullText, token):
			score += policy.TextWeight
		}
	}

	// Clinical terms from expansion hit category and indication, which the
	// raw query tokens usually miss ("keede" never appears in an English
	// catalog row, "anthelmintic" does).
	for _, term := range expanded.ClinicalTerms {
		if p.Category.Matches(term) || strings.Contains(indication, term) {
			score += policy.ClinicalHintBonus
		}
	}

	score += speciesScore(p, expanded, policy)

	return score
}

// speciesScore rewards species-compatible products. A product listing no
// species at all is generic and stays barely eligible; a product listing
// other species only gets nothing.
func speciesScore(p *core.Product, expanded *core.ExpandedQuery, policy Policy) float32 {
	if len(expanded.Species) == 0 {
		return 0
	}
	if strings.TrimSpace(p.Species) == "" {
		return policy.SpeciesGenericBonus
	}
	listed := strings.ToLower(p.Species)
	for _, sp := range expanded.Species {
		if strings.Contains(listed, sp) {
			return policy.SpeciesMatchBonus
		}
	}
	return 0
}

// queryTokens extracts scoring tokens from the search text plus the
// expansion's clinical terms.
func queryTokens(searchText string, expanded *core.ExpandedQuery) []string {
	tokens := lexicon.Tokenize(searchText, minTokenLen)
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens)+len(expanded.ClinicalTerms))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, term := range expanded.ClinicalTerms {
		for _, tok := range lexicon.Tokenize(term, minTokenLen) {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}
