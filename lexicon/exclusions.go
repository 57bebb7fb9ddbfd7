package lexicon

import (
	"sort"
	"strings"
)

// exclusions maps a detected clinical concept to the product categories
// that must never appear in results for that concept. This is a hard
// filter, not a scoring penalty: a dewormer query surfacing an
// antidiarrheal is a clinical-safety failure, not a ranking nuisance.
var exclusions = map[string][]string{
	// Parasite queries must never return antidiarrheal products.
	"parasite":     {"antidiarrheal", "digestive", "antipyretic", "antibiotic"},
	"anthelmintic": {"antidiarrheal", "digestive", "antipyretic"},
	"worm":         {"antidiarrheal", "digestive", "antipyretic"},
	"dewormer":     {"antidiarrheal", "digestive", "antipyretic"},
	// Diarrhea queries must never return dewormers.
	"diarrhea": {"anthelmintic", "antiparasitic", "ectoparasiticide"},
	// Topical/skin queries must never return internal products.
	"topical": {"anthelmintic", "antiparasitic", "antibiotic"},
	// Fever queries must never return dewormers.
	"fever": {"anthelmintic", "antiparasitic"},
}

// complements maps a primary result's category or indication signal to the
// keywords describing clinically adjunct products. This is an enhancement
// layer: no adjacency entry means no complementary candidates.
var complements = map[string][]string{
	"anthelmintic":  {"probiotic", "liver tonic", "vitamin", "supplement"},
	"antiparasitic": {"probiotic", "liver tonic"},
	"antibiotic":    {"probiotic", "rumen"},
	"mastitis":      {"probiotic", "vitamin", "udder"},
	"udder":         {"probiotic", "vitamin"},
	"calcium":       {"vitamin", "mineral"},
	"wound":         {"antiseptic", "vitamin"},
	"weakness":      {"liver tonic", "mineral"},
}

// genericWords appear across many product names ("Tikks-Stop Injection",
// "Calci Plus Forte") and therefore carry no identifying power. They are
// excluded from word-level matching in both the exact matcher and the
// mentioned-product extractor.
var genericWords = map[string]bool{
	"injection": true,
	"inj":       true,
	"plus":      true,
	"stop":      true,
	"forte":     true,
	"vet":       true,
	"gold":      true,
	"power":     true,
	"super":     true,
	"extra":     true,
	"strong":    true,
	"care":      true,
	"bolus":     true,
	"tablet":    true,
	"powder":    true,
	"liquid":    true,
	"spray":     true,
	"gel":       true,
	"soap":      true,
	"oral":      true,
	"kit":       true,
	"pack":      true,
	"new":       true,
}

// newSymptomTokens name fresh clinical problems. Their presence overrides
// any follow-up pattern match: "bukhar hai" is a new query no matter how
// short it is.
var newSymptomTokens = []string{
	"bukhar", "bukhaar", "fever",
	"dast", "pechish", "diarrhea",
	"sujan", "dard",
	"keeda", "keede", "kide", "worm",
	"cheechad", "tick",
	"khansi", "cough",
	"khujli", "khaj",
	"zakhm", "ghav", "wound",
	"mastitis", "thaan",
	"bloat", "afara",
	"infection",
	"kamzori", "kamjori",
}

// emergencyTokens flag conditions needing immediate veterinary attention.
var emergencyTokens = []string{
	"tez bukhar", "high fever",
	"pet phula", "afara", "bloat", "tympany",
	"milk fever", "hypocalcemia",
	"maggot",
}

// IsGeneric reports whether a word is too common across product names to
// count as match evidence.
func IsGeneric(word string) bool {
	return genericWords[strings.ToLower(word)]
}

// ExclusionsFor returns the category signals excluded for one clinical
// concept, or nil when the concept carries no exclusion rule.
func ExclusionsFor(concept string) []string {
	return exclusions[strings.ToLower(strings.TrimSpace(concept))]
}

// ExcludedCategories builds the union of category exclusions for a set of
// detected clinical concepts, sorted and deduplicated.
func ExcludedCategories(concepts []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, concept := range concepts {
		for _, cat := range ExclusionsFor(concept) {
			if !seen[cat] {
				seen[cat] = true
				out = append(out, cat)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ComplementKeywords returns adjunct-product keywords for a primary
// product, derived from its category and indication text. Empty when no
// adjacency entry applies.
func ComplementKeywords(category, indication string) []string {
	text := strings.ToLower(category + " " + indication)
	seen := make(map[string]bool)
	var out []string
	for signal, keywords := range complements {
		if !strings.Contains(text, signal) {
			continue
		}
		for _, kw := range keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	sort.Strings(out)
	return out
}

// HasNewSymptom reports whether the utterance names a fresh clinical
// problem. New-symptom signals always defeat follow-up classification.
func HasNewSymptom(text string) bool {
	padded := " " + Normalize(text) + " "
	for _, token := range newSymptomTokens {
		if containsTerm(padded, token) {
			return true
		}
	}
	return false
}

// HasEmergency reports whether the utterance names an emergency condition.
func HasEmergency(text string) bool {
	padded := " " + Normalize(text) + " "
	for _, token := range emergencyTokens {
		if containsTerm(padded, token) {
			return true
		}
	}
	return false
}
