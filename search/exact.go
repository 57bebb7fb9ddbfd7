package search

import (
	"strings"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// exactMatch reports whether the query names this product outright: the
// normalized query equals or phrase-contains the normalized name or its
// phonetic form, names a catalog alias, or carries every significant name
// word.
func exactMatch(p *core.Product, normalizedQuery string) bool {
	name := lexicon.Normalize(p.Name)
	if name == "" {
		return false
	}
	if normalizedQuery == name || containsPhrase(normalizedQuery, name) {
		return true
	}

	// Spelling-insensitive containment: "vormi stop" still names the
	// product outright, it does not belong to the fuzzy layer.
	if containsPhrase(lexicon.Phonetic(normalizedQuery), lexicon.Phonetic(p.Name)) {
		return true
	}

	// A catalog alias names the product as surely as the label does.
	for _, alias := range p.AliasList(minAliasLen) {
		if containsPhrase(normalizedQuery, lexicon.Normalize(alias)) {
			return true
		}
	}

	// The word-set path needs at least two distinctive words. A name with
	// one distinctive word ("Wormi Stop Forte" reduces to "wormi") must
	// appear as a full phrase, or it would claim every family variant.
	sig := lexicon.SignificantWords(p.Name, minTokenLen)
	if len(sig) < 2 {
		return false
	}
	padded := " " + normalizedQuery + " "
	longest := 0
	for _, word := range sig {
		if !strings.Contains(padded, " "+word+" ") {
			return false
		}
		if len(word) > longest {
			longest = len(word)
		}
	}
	// A set of 3-letter words is too weak to call exact.
	return longest >= minFuzzyTokenLen
}

// familyKey groups product line variants ("Wormi Stop", "Wormi Stop Forte",
// "Wormi Stop Plus") under the brand's first significant word.
func familyKey(p *core.Product) string {
	if sig := lexicon.SignificantWords(p.Name, minTokenLen); len(sig) > 0 {
		return sig[0]
	}
	tokens := lexicon.Tokenize(p.Name, 1)
	if len(tokens) > 0 {
		return tokens[0]
	}
	return lexicon.Normalize(p.Name)
}

// containsPhrase reports whether text contains phrase on word boundaries.
func containsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// matchesForm reports whether the product's name or packaging carries one
// of the requested form tokens.
func matchesForm(p *core.Product, forms []string) bool {
	if len(forms) == 0 {
		return false
	}
	text := strings.ToLower(p.Name + " " + p.Packaging)
	for _, form := range forms {
		if strings.Contains(text, form) {
			return true
		}
	}
	return false
}

// isInjectable reports whether the product is an injectable form.
func isInjectable(p *core.Product) bool {
	text := strings.ToLower(p.Name + " " + p.Packaging)
	return strings.Contains(text, "inject") || containsPhrase(lexicon.Normalize(text), "inj")
}

// wantsInjectable reports whether the expansion asked for an injectable.
func wantsInjectable(expanded *core.ExpandedQuery) bool {
	for _, form := range expanded.FormFactor {
		if form == "injectable" || form == "injection" {
			return true
		}
	}
	return false
}
