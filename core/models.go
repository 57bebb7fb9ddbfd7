package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Category classifies a product by its clinical function.
// Catalog data may carry compound values ("Antibiotic / Anti-inflammatory"),
// so category checks are substring-based and case-insensitive.
type Category string

// Canonical product categories.
const (
	CategoryAntibiotic       Category = "antibiotic"
	CategoryAnthelmintic     Category = "anthelmintic"
	CategoryAntiparasitic    Category = "antiparasitic"
	CategoryEctoparasiticide Category = "ectoparasiticide"
	CategoryAntiInflammatory Category = "anti-inflammatory"
	CategoryAntihistamine    Category = "antihistamine"
	CategoryHormone          Category = "reproductive hormone"
	CategoryProbiotic        Category = "probiotic"
	CategoryVitamin          Category = "vitamin supplement"
	CategoryUdderCare        Category = "udder care"
	CategoryAntidiarrheal    Category = "antidiarrheal"
	CategoryDermatological   Category = "dermatological"
	CategoryAnalgesic        Category = "analgesic"
)

// Categories lists every canonical product category.
var Categories = []Category{
	CategoryAntibiotic,
	CategoryAnthelmintic,
	CategoryAntiparasitic,
	CategoryEctoparasiticide,
	CategoryAntiInflammatory,
	CategoryAntihistamine,
	CategoryHormone,
	CategoryProbiotic,
	CategoryVitamin,
	CategoryUdderCare,
	CategoryAntidiarrheal,
	CategoryDermatological,
	CategoryAnalgesic,
}

// Matches reports whether the category contains the given signal,
// case-insensitively. Compound catalog categories match any of their parts.
func (c Category) Matches(signal string) bool {
	return strings.Contains(strings.ToLower(string(c)), strings.ToLower(signal))
}

// Product is a single catalog entry.
//
// Composition and Dosage are internal fields: they feed clinical reasoning
// and safety filtering but are never surfaced to the end customer, and
// Composition is excluded from embedding text.
type Product struct {
	Id          ID
	Name        string
	Composition string // active ingredient / salt, internal only
	Packaging   string // free text, e.g. "Bolus 1x4", "Injection 100ml"
	Category    Category
	Species     string // comma list, e.g. "Cattle, Buffalo"
	Indication  string // comma list of treated conditions, bilingual
	Aliases     string // comma list of colloquial names and misspellings
	Dosage      string // internal only
	Description string
	Benefits    string
	Vector      []float32 // embedding of the product text block (populated by ingestion)
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// DedupKey returns the composite identity used to collapse near-duplicate
// catalog entries: name, composition and category, case-folded. Two rows
// with inconsistent field casing still collapse to one identity.
func (p *Product) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "||" +
		strings.ToLower(strings.TrimSpace(p.Composition)) + "||" +
		strings.ToLower(strings.TrimSpace(string(p.Category)))
}

// SearchableText joins every text field into one lowercase blob for
// term-containment checks during lexical scoring.
func (p *Product) SearchableText() string {
	parts := []string{
		p.Name,
		p.Composition,
		string(p.Category),
		p.Indication,
		p.Species,
		p.Aliases,
		p.Description,
		p.Benefits,
		p.Packaging,
	}
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// AliasList splits the free-text alias field into trimmed, lowercase
// aliases. Entries shorter than minLen are dropped to avoid trivial
// false matches.
func (p *Product) AliasList(minLen int) []string {
	if p.Aliases == "" {
		return nil
	}
	raw := strings.FieldsFunc(strings.ToLower(p.Aliases), func(r rune) bool {
		return r == ',' || r == '|'
	})
	aliases := make([]string, 0, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if len(a) >= minLen {
			aliases = append(aliases, a)
		}
	}
	return aliases
}

// ExpandedQuery is the structured form of a user utterance, derived per
// search call. Empty term sets are valid and mean "no lexical hint found".
type ExpandedQuery struct {
	ClinicalTerms []string // canonical English clinical keywords
	Species       []string // canonical species tokens
	FormFactor    []string // canonical packaging-form tokens
	IsFollowUp    bool
	IsEmergency   bool
}

// IsEmpty reports whether expansion produced no signal at all.
func (q *ExpandedQuery) IsEmpty() bool {
	return len(q.ClinicalTerms) == 0 && len(q.Species) == 0 &&
		len(q.FormFactor) == 0 && !q.IsFollowUp && !q.IsEmergency
}

// Merge unions another expansion into this one, deduplicating each term
// set and or-ing the flags.
func (q *ExpandedQuery) Merge(other *ExpandedQuery) {
	q.ClinicalTerms = dedupeTerms(q.ClinicalTerms, other.ClinicalTerms)
	q.Species = dedupeTerms(q.Species, other.Species)
	q.FormFactor = dedupeTerms(q.FormFactor, other.FormFactor)
	q.IsFollowUp = q.IsFollowUp || other.IsFollowUp
	q.IsEmergency = q.IsEmergency || other.IsEmergency
}

func dedupeTerms(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, term := range set {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" || seen[term] {
				continue
			}
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}

// TurnRole identifies the author of a conversation turn.
type TurnRole int

const (
	// TurnRoleUser represents the customer.
	TurnRoleUser TurnRole = iota + 1
	// TurnRoleAssistant represents the reply generator.
	TurnRoleAssistant
)

// ConversationTurn is one externally-owned message in the chat history.
// The retrieval core reads turns to resolve follow-ups but never mutates them.
type ConversationTurn struct {
	Role TurnRole
	Text string
}

// SimilarityMatch represents a product match from vector similarity search.
type SimilarityMatch struct {
	ProductId ID
	Score     float32
}

// SearchResult pairs a product with its relevance score.
type SearchResult struct {
	Product *Product
	Score   float32
}
