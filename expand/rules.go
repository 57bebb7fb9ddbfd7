package expand

import (
	"regexp"
	"strings"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// followUpWordLimit bounds follow-up classification. Longer messages carry
// enough content to stand as fresh queries even when they open with a
// follow-up phrase.
const followUpWordLimit = 12

// followUpPatterns match conversational continuations: dose questions,
// confirmations, price checks. Matched against the raw lowercased message
// so Devanagari and question marks survive.
var followUpPatterns = []*regexp.Regexp{
	// dose and administration questions
	regexp.MustCompile(`^(aur\s|or\s)`),
	regexp.MustCompile(`\b(kitna|kitni|kitne)\s+(dena|deni|dun|du|doon|baar|din|dino?n)\b`),
	regexp.MustCompile(`\b(khuraak|khurak|dose|dosage)\b`),
	regexp.MustCompile(`\bkab\s+(dena|deni|du|dun|doon)\b`),
	regexp.MustCompile(`\bkaise\s+(dena|deni|du|dun|doon|use|lagana|lagaye)\b`),
	// price and availability checks
	regexp.MustCompile(`\b(kitne\s+ka|kitne\s+ki|price|rate|kimat|keemat|cost)\b`),
	regexp.MustCompile(`\b(mil\s*jayega|milega|available|stock)\b`),
	// bare acknowledgments, whole-message only
	regexp.MustCompile(`^(ok|okay|okk+|theek|thik|theek\s+hai|thik\s+hai|acha|achha|accha|haan|haa|han|nahi|nahin|hmm+|done|sahi)$`),
	regexp.MustCompile(`^(batao|bata\s*do|bataiye|send\s+karo|bhej\s*do)$`),
	// Devanagari continuations
	regexp.MustCompile(`^(और|खुराक|कितना|कितनी|कब|कैसे|ठीक|हाँ|हां|नहीं|ओके|अच्छा|बताओ)`),
	// just question marks
	regexp.MustCompile(`^\?+$`),
}

// IsFollowUp reports whether a message continues a prior conversation
// rather than raising a fresh problem. A named new symptom always wins:
// "bukhar hai" is a new query no matter how short.
func IsFollowUp(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return false
	}
	if lexicon.HasNewSymptom(trimmed) {
		return false
	}
	if len(strings.Fields(trimmed)) > followUpWordLimit {
		return false
	}
	for _, pattern := range followUpPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// RuleExpand builds an expansion from the lexicon tables alone. It is pure
// and cheap, and forms the floor the model tier can only add to.
func RuleExpand(utterance string) *core.ExpandedQuery {
	return &core.ExpandedQuery{
		ClinicalTerms: lexicon.ClinicalConcepts(utterance),
		Species:       lexicon.SpeciesHints(utterance),
		FormFactor:    lexicon.FormHints(utterance),
		IsFollowUp:    IsFollowUp(utterance),
		IsEmergency:   lexicon.HasEmergency(utterance),
	}
}
