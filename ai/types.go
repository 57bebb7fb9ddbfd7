package ai

// SpeciesTokens defines the canonical species values a query expander may
// emit. Anything outside this list is discarded when parsing model output.
var SpeciesTokens = []string{
	"buffalo",
	"cat",
	"cattle",
	"chicken",
	"cow",
	"dog",
	"goat",
	"horse",
	"pig",
	"poultry",
	"sheep",
}

// FormTokens defines the canonical packaging-form values a query expander
// may emit.
var FormTokens = []string{
	"bolus",
	"gel",
	"injectable",
	"injection",
	"liquid",
	"oral",
	"pour-on",
	"powder",
	"soap",
	"spray",
	"tablet",
	"topical",
}
