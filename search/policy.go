package search

// Policy holds the scoring weights and cut-offs for the search pipeline.
// The defaults were tuned against real shop traffic; change them together,
// not in isolation, since the dynamic threshold assumes these magnitudes.
type Policy struct {
	// Lexical field weights, strongest signal first.
	NameWeight        float32
	AliasWeight       float32
	IndicationWeight  float32
	CompositionWeight float32
	CategoryWeight    float32
	TextWeight        float32

	// ClinicalHintBonus is added once per clinical term the product's
	// category or indication covers.
	ClinicalHintBonus float32

	// SpeciesMatchBonus applies when the product lists the queried species;
	// SpeciesGenericBonus applies when the product lists no species at all
	// (generic products stay eligible, just barely).
	SpeciesMatchBonus   float32
	SpeciesGenericBonus float32

	// FuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy
	// name hit; FuzzyWeight scales the similarity into a score.
	FuzzyThreshold float32
	FuzzyWeight    float32

	// SemanticThreshold is the minimum cosine similarity for a vector hit;
	// SemanticWeight scales the similarity into a score.
	SemanticThreshold float32
	SemanticWeight    float32

	// HintedThreshold is the minimum total score when the expansion found
	// clinical terms; BaseThreshold applies when it found none. A query
	// with clinical context deserves looser matching.
	HintedThreshold float32
	BaseThreshold   float32

	// ExactScore is assigned to exact name matches, and FamilyScore to the
	// matched product's family variants.
	ExactScore  float32
	FamilyScore float32

	// InjectableFactor discounts injectable products when the customer did
	// not ask for an injectable form. Farmers default to oral forms.
	InjectableFactor float32

	// MaxResults bounds the result list when the caller passes topK <= 0.
	MaxResults int
}

// DefaultPolicy returns the production scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		NameWeight:        10,
		AliasWeight:       8,
		IndicationWeight:  6,
		CompositionWeight: 5,
		CategoryWeight:    4,
		TextWeight:        2,

		ClinicalHintBonus: 5,

		SpeciesMatchBonus:   5,
		SpeciesGenericBonus: 1,

		FuzzyThreshold: 0.82,
		FuzzyWeight:    20,

		SemanticThreshold: 0.45,
		SemanticWeight:    20,

		HintedThreshold: 8,
		BaseThreshold:   15,

		ExactScore:  100,
		FamilyScore: 60,

		InjectableFactor: 0.6,

		MaxResults: 5,
	}
}

// threshold returns the score cut-off for an expansion.
func (p Policy) threshold(hasClinicalHints bool) float32 {
	if hasClinicalHints {
		return p.HintedThreshold
	}
	return p.BaseThreshold
}
