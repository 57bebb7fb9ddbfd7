package search

import (
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
	"github.com/xrash/smetrics"
)

// minFuzzyTokenLen keeps trivially short tokens out of fuzzy matching,
// where they produce spurious high similarities.
const minFuzzyTokenLen = 4

// fuzzyScore finds the best phonetic-fuzzy similarity between the query's
// significant tokens and the product's name words and aliases. Tokens are
// collapsed to phonetic form first, so "keeda"/"kida" and "wormi"/"vormi"
// style spelling drift still lands. Returns 0 below the policy threshold.
func fuzzyScore(p *core.Product, fuzzyTokens []string, policy Policy) float32 {
	if len(fuzzyTokens) == 0 {
		return 0
	}

	targets := fuzzyTargets(p)
	if len(targets) == 0 {
		return 0
	}

	var best float32
	for _, token := range fuzzyTokens {
		for _, target := range targets {
			sim := float32(smetrics.JaroWinkler(token, target, 0.7, 4))
			if sim > best {
				best = sim
			}
		}
	}

	if best < policy.FuzzyThreshold {
		return 0
	}
	return best * policy.FuzzyWeight
}

// fuzzyTargets collects the phonetic forms a product can be recognized by:
// its significant name words and its aliases.
func fuzzyTargets(p *core.Product) []string {
	var targets []string
	for _, word := range lexicon.SignificantWords(p.Name, minFuzzyTokenLen) {
		targets = append(targets, lexicon.Phonetic(word))
	}
	for _, alias := range p.AliasList(minFuzzyTokenLen) {
		targets = append(targets, lexicon.Phonetic(alias))
	}
	return targets
}

// fuzzyQueryTokens extracts the query tokens eligible for fuzzy matching,
// already collapsed to phonetic form.
func fuzzyQueryTokens(searchText string) []string {
	var tokens []string
	for _, tok := range lexicon.Tokenize(searchText, minFuzzyTokenLen) {
		if lexicon.IsGeneric(tok) {
			continue
		}
		tokens = append(tokens, lexicon.Phonetic(tok))
	}
	return tokens
}
