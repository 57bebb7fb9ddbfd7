package lexicon

import (
	"strings"
	"unicode"
)

// digraphVariants unifies common spelling variants in code-switched input.
// The gest/jest rule is domain-specific: it makes "projest" converge with
// "progest". Order matters; multi-letter rules run before single-letter ones.
var digraphVariants = []struct{ from, to string }{
	{"ph", "f"},
	{"gh", "g"},
	{"ck", "k"},
	{"jest", "gest"},
	{"ee", "i"},
	{"oo", "u"},
	{"q", "k"},
	{"w", "v"},
	{"z", "j"},
}

// Normalize lower-cases text, replaces punctuation with spaces and
// collapses runs of whitespace. It is deterministic and pure.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Phonetic applies Normalize plus the phonetic-collapse transform: spelling
// variant digraphs are unified and doubled letters collapsed, so that
// "Tikks", "Tiks" and "Tix" style variants converge. Both the query and the
// candidate side must go through this same transform.
func Phonetic(text string) string {
	s := Normalize(text)
	for _, v := range digraphVariants {
		s = strings.ReplaceAll(s, v.from, v.to)
	}
	return collapseDoubles(s)
}

// collapseDoubles removes consecutive repeated letters ("dewormming" ->
// "deworming"). Digits and spaces are kept as-is.
func collapseDoubles(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	for _, r := range s {
		if r == prev && unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Tokenize splits normalized text into words, dropping tokens shorter
// than minLen.
func Tokenize(text string, minLen int) []string {
	words := strings.Fields(Normalize(text))
	out := words[:0]
	for _, w := range words {
		if len(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// SignificantWords returns the non-generic words of a product name, at
// least minLen characters long, normalized. Generic filler words that occur
// across many product names never count as evidence of a match.
func SignificantWords(name string, minLen int) []string {
	words := Tokenize(name, minLen)
	out := words[:0]
	for _, w := range words {
		if !IsGeneric(w) {
			out = append(out, w)
		}
	}
	return out
}
