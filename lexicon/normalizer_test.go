package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Wormi Stop", want: "wormi stop"},
		{name: "strips punctuation", in: "gaay mein keede hain!!", want: "gaay mein keede hain"},
		{name: "collapses whitespace", in: "  dast   ki  dawa ", want: "dast ki dawa"},
		{name: "replaces hyphens with spaces", in: "Tikks-Stop 6ml", want: "tikks stop 6ml"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "?!.,", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestPhonetic(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "gest and jest variants converge", a: "Progest", b: "Projest"},
		{name: "doubled letters collapse", a: "Tikks", b: "Tiks"},
		{name: "ph and f converge", a: "phenyl", b: "fenyl"},
		{name: "z and j converge", a: "zakhm", b: "jakhm"},
		{name: "w and v converge", a: "wormi", b: "vormi"},
		{name: "ee and i converge", a: "keede", b: "kide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Phonetic(tt.a), Phonetic(tt.b),
				"%q and %q should share a phonetic form", tt.a, tt.b)
		})
	}
}

func TestPhonetic_Distinct(t *testing.T) {
	// Phonetic collapse must not flatten genuinely different names.
	assert.NotEqual(t, Phonetic("Wormi Stop"), Phonetic("Tikks Stop"))
	assert.NotEqual(t, Phonetic("Calci Gold"), Phonetic("Masti Care"))
}

func TestTokenize(t *testing.T) {
	got := Tokenize("gaay ko dast ki dawa do", 3)
	assert.Equal(t, []string{"gaay", "dast", "dawa"}, got)
}

func TestSignificantWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "generic words removed", in: "Tikks-Stop Injection", want: []string{"tikks"}},
		{name: "all generic yields empty", in: "Plus Forte Injection", want: []string{}},
		{name: "keeps distinguishing words", in: "Wormi Stop Bolus", want: []string{"wormi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignificantWords(tt.in, 3))
		})
	}
}
