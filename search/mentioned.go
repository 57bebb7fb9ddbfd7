package search

import (
	"context"
	"sort"
	"strings"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

const (
	// minLoneWordLen is the shortest single significant word that counts
	// as a product mention on its own. Short brand words ("masti") appear
	// in too much ordinary chat.
	minLoneWordLen = 6

	// minAliasLen is the shortest alias that counts as a mention.
	minAliasLen = 4
)

// ExtractMentionedProducts finds catalog products explicitly named in free
// text, typically an assistant reply. Matching is strict: a product counts
// only when its full name, all of its significant words, one long
// distinctive word, or a known alias appears. Generic words alone never
// trigger a mention.
//
// Longer product names are checked first so "Wormi Stop Forte" claims its
// words before "Wormi Stop" can.
func (s *Searcher) ExtractMentionedProducts(ctx context.Context, text string) ([]*core.Product, error) {
	if strings.TrimSpace(text) == "" {
		return []*core.Product{}, nil
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.logger.Error("catalog unavailable", "err", err)
		return nil, err
	}

	ordered := make([]*core.Product, len(products))
	copy(ordered, products)
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].Name) != len(ordered[j].Name) {
			return len(ordered[i].Name) > len(ordered[j].Name)
		}
		return ordered[i].Name < ordered[j].Name
	})

	normalized := lexicon.Normalize(text)
	padded := " " + normalized + " "
	claimed := make(map[string]bool)

	var mentioned []*core.Product
	for _, p := range ordered {
		if mentionedIn(p, normalized, padded, claimed) {
			mentioned = append(mentioned, p)
			for _, word := range lexicon.SignificantWords(p.Name, minTokenLen) {
				claimed[word] = true
			}
		}
	}
	return mentioned, nil
}

// mentionedIn applies the strict mention rules for one product.
func mentionedIn(p *core.Product, normalized, padded string, claimed map[string]bool) bool {
	name := lexicon.Normalize(p.Name)
	if name == "" {
		return false
	}

	sig := lexicon.SignificantWords(p.Name, minTokenLen)
	unclaimed := make([]string, 0, len(sig))
	for _, word := range sig {
		if !claimed[word] {
			unclaimed = append(unclaimed, word)
		}
	}
	// Every distinctive word is already claimed by a longer family variant:
	// "Wormi Stop" inside "Wormi Stop Forte" is not a second mention.
	if len(sig) > 0 && len(unclaimed) == 0 {
		return false
	}

	// Full name containment on word boundaries.
	if containsPhrase(normalized, name) {
		return true
	}

	// All significant words present, or a single long distinctive word.
	all := true
	for _, word := range unclaimed {
		if !strings.Contains(padded, " "+word+" ") {
			all = false
			break
		}
	}
	if all && len(unclaimed) > 1 {
		return true
	}
	if len(unclaimed) == 1 && len(unclaimed[0]) >= minLoneWordLen &&
		strings.Contains(padded, " "+unclaimed[0]+" ") {
		return true
	}

	// Known aliases count too: replies often use the colloquial name.
	for _, alias := range p.AliasList(minAliasLen) {
		if containsPhrase(normalized, lexicon.Normalize(alias)) {
			return true
		}
	}

	return false
}
