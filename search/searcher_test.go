// Copyright 2025 Madvet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madvet/vetsearch/ai/mock"
	"github.com/madvet/vetsearch/catalog"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/expand"
)

// fixtureCatalog returns a small but representative shop catalog: two
// dewormer variants of one family, and one product per neighboring
// category that a confused match could leak from.
func fixtureCatalog() []*core.Product {
	return []*core.Product{
		{
			Id:          1,
			Name:        "Wormi Stop",
			Category:    core.CategoryAnthelmintic,
			Composition: "Albendazole 600mg",
			Packaging:   "Bolus 1x4",
			Species:     "Cattle, Buffalo",
			Indication:  "Worms, internal parasites, deworming",
			Aliases:     "wormistop",
		},
		{
			Id:          2,
			Name:        "Wormi Stop Forte",
			Category:    core.CategoryAnthelmintic,
			Composition: "Albendazole 1500mg",
			Packaging:   "Liquid 100ml",
			Species:     "Cattle, Buffalo",
			Indication:  "Severe worm infestation",
		},
		{
			Id:          3,
			Name:        "Dast Band",
			Category:    core.CategoryAntidiarrheal,
			Composition: "Kaolin, Pectin",
			Packaging:   "Bolus 1x2",
			Species:     "Cattle, Buffalo, Goat",
			Indication:  "Diarrhea, loose motions",
		},
		{
			Id:          4,
			Name:        "Calci Gold",
			Category:    "calcium supplement",
			Composition: "Calcium, Phosphorus, Vitamin D3",
			Packaging:   "Liquid 1L",
			Species:     "Cattle, Buffalo",
			Indication:  "Calcium deficiency, milk fever, weakness",
		},
		{
			Id:          5,
			Name:        "Tikks Stop",
			Category:    core.CategoryEctoparasiticide,
			Composition: "Cypermethrin",
			Packaging:   "Spray 100ml",
			Species:     "Cattle, Buffalo",
			Indication:  "Ticks, lice, mange",
			Aliases:     "tick spray",
		},
		{
			Id:          6,
			Name:        "Bukhar Go",
			Category:    "antipyretic",
			Composition: "Paracetamol",
			Packaging:   "Injection 30ml",
			Species:     "Cattle, Buffalo",
			Indication:  "Fever, high temperature",
			Dosage:      "10ml IM",
		},
		{
			Id:          7,
			Name:        "Probio Plus",
			Category:    core.CategoryProbiotic,
			Composition: "Lactobacillus",
			Packaging:   "Powder 100g",
			Species:     "Cattle, Buffalo, Goat",
			Indication:  "Digestion, rumen health, appetite",
		},
		{
			Id:         8,
			Name:       "Liver Strong",
			Category:   "liver tonic",
			Packaging:  "Liquid 500ml",
			Species:    "Cattle, Buffalo",
			Indication: "Liver health, appetite, weakness",
		},
		{
			Id:          9,
			Name:        "Masti Care",
			Category:    core.CategoryUdderCare,
			Composition: "Herbal extracts",
			Packaging:   "Gel 200g",
			Species:     "Cattle, Buffalo",
			Indication:  "Mastitis, udder swelling",
		},
	}
}

// newTestSearcher wires a searcher over a static catalog with the pure
// rule-based expander. No model, no embedder unless passed as an option.
func newTestSearcher(t *testing.T, products []*core.Product, opts ...Option) *Searcher {
	t.Helper()

	cache, err := catalog.NewCache(catalog.NewStaticSource(products))
	require.NoError(t, err)

	expander, err := expand.New()
	require.NoError(t, err)

	searcher, err := NewSearcher(cache, expander, opts...)
	require.NoError(t, err)
	return searcher
}

// recordingMonitor captures every pipeline callback for assertions.
type recordingMonitor struct {
	started    string
	expanded   *core.ExpandedQuery
	rerootedTo string
	exactHits  []string
	excluded   map[string]string
	lexHits    int
	fuzHits    int
	semHits    int
	finished   []*core.SearchResult
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{excluded: make(map[string]string)}
}

func (m *recordingMonitor) Start(query string)                       { m.started = query }
func (m *recordingMonitor) AfterExpansion(e *core.ExpandedQuery)     { m.expanded = e }
func (m *recordingMonitor) FollowUpRerooted(prior string)            { m.rerootedTo = prior }
func (m *recordingMonitor) ExactHit(p *core.Product)                 { m.exactHits = append(m.exactHits, p.Name) }
func (m *recordingMonitor) AfterLexicalLayer(hits int)               { m.lexHits = hits }
func (m *recordingMonitor) AfterFuzzyLayer(hits int)                 { m.fuzHits = hits }
func (m *recordingMonitor) AfterSemanticLayer(hits int)              { m.semHits = hits }
func (m *recordingMonitor) ProductExcluded(p *core.Product, s string) { m.excluded[p.Name] = s }
func (m *recordingMonitor) Finish(results []*core.SearchResult)      { m.finished = results }

func resultNames(results []*core.SearchResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Product.Name)
	}
	return names
}

func TestNewSearcher_Validation(t *testing.T) {
	cache, err := catalog.NewCache(catalog.NewStaticSource(nil))
	require.NoError(t, err)
	expander, err := expand.New()
	require.NoError(t, err)

	_, err = NewSearcher(nil, expander)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewSearcher(cache, nil)
	assert.ErrorIs(t, err, ErrExpanderRequired)

	searcher, err := NewSearcher(cache, expander)
	require.NoError(t, err)
	assert.NotNil(t, searcher)
}

func TestSearch_EmptyQuery(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	_, err := searcher.Search(context.Background(), "   ", nil, 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_SymptomQuery(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	results, err := searcher.SearchWithMonitor(context.Background(), "gaay ko keede hain", nil, 5, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
	assert.Equal(t, "gaay ko keede hain", monitor.started)
	require.NotNil(t, monitor.expanded)
	assert.Contains(t, monitor.expanded.ClinicalTerms, "anthelmintic")
	assert.Contains(t, monitor.expanded.Species, "cattle")
}

func TestSearch_ExclusionIsHardFilter(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	// A worm query must never surface antidiarrheals or antipyretics,
	// whatever their scores would have been.
	results, err := searcher.SearchWithMonitor(context.Background(), "gaay ko keede hain", nil, 5, monitor)
	require.NoError(t, err)

	for _, r := range results {
		assert.False(t, r.Product.Category.Matches("antidiarrheal"),
			"excluded category leaked: %s", r.Product.Name)
		assert.False(t, r.Product.Category.Matches("antipyretic"),
			"excluded category leaked: %s", r.Product.Name)
	}
	assert.Contains(t, monitor.excluded, "Dast Band")
	assert.Contains(t, monitor.excluded, "Bukhar Go")
}

func TestSearch_ExclusionReversed(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	// The reverse direction: a diarrhea query must never surface dewormers.
	results, err := searcher.Search(context.Background(), "dast aa rahe hain", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Dast Band", results[0].Product.Name)
	for _, r := range results {
		assert.False(t, r.Product.Category.Matches("anthelmintic"),
			"excluded category leaked: %s", r.Product.Name)
	}
}

func TestSearch_ExactNameShortCircuits(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	results, err := searcher.SearchWithMonitor(context.Background(), "Wormi Stop", nil, 5, monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
	assert.Equal(t, float32(100), results[0].Score)
	assert.Equal(t, []string{"Wormi Stop"}, monitor.exactHits)
	// Short-circuit: the concurrent layers never ran.
	assert.Zero(t, monitor.lexHits)
	assert.Zero(t, monitor.fuzHits)
}

func TestSearch_RequestedFormPrefersFamilyVariant(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	// The exact hit is the bolus, but the customer asked for a liquid.
	// The family variant in the requested form wins the collapse.
	results, err := searcher.Search(context.Background(), "Wormi Stop liquid me dena", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Wormi Stop Forte", results[0].Product.Name)
}

func TestSearch_FollowUpRerootsOnPriorTurn(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	history := []core.ConversationTurn{
		{Role: core.TurnRoleUser, Text: "bhains ko keede ho gaye hain"},
		{Role: core.TurnRoleAssistant, Text: "Wormi Stop dijiye, subah khali pet"},
	}

	results, err := searcher.SearchWithMonitor(context.Background(), "khuraak kitni hai", history, 5, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "bhains ko keede ho gaye hain", monitor.rerootedTo)
	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
}

func TestSearch_FollowUpWithoutHistoryStaysPut(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	results, err := searcher.SearchWithMonitor(context.Background(), "khuraak kitni hai", nil, 5, monitor)
	require.NoError(t, err)

	assert.Empty(t, monitor.rerootedTo)
	assert.Empty(t, results)
}

func TestSearch_NewSymptomDefeatsFollowUp(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	history := []core.ConversationTurn{
		{Role: core.TurnRoleUser, Text: "bhains ko keede ho gaye hain"},
		{Role: core.TurnRoleAssistant, Text: "Wormi Stop dijiye"},
	}

	// "bukhar hai" is short and mid-conversation, but it names a fresh
	// symptom: treat it as a new query, not a continuation.
	results, err := searcher.SearchWithMonitor(context.Background(), "bukhar hai", history, 5, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Empty(t, monitor.rerootedTo)
	assert.Equal(t, "Bukhar Go", results[0].Product.Name)
	for _, r := range results {
		assert.False(t, r.Product.Category.Matches("anthelmintic"),
			"fever query surfaced a dewormer: %s", r.Product.Name)
	}
}

func TestSearch_GenericWordsAlone(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	// "injection chahiye" names no product and no condition. Returning
	// a random injectable would be worse than returning nothing.
	results, err := searcher.Search(context.Background(), "injection chahiye", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_AliasShortCircuits(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	// "wormistop" is not the label name, but it is the catalog alias.
	results, err := searcher.SearchWithMonitor(context.Background(), "wormistop ke baare mein batao", nil, 5, monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
	assert.Equal(t, float32(100), results[0].Score)
	assert.Equal(t, []string{"Wormi Stop"}, monitor.exactHits)
	assert.Zero(t, monitor.lexHits)
	assert.Zero(t, monitor.fuzHits)
}

func TestSearch_PhoneticSpellingShortCircuits(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	monitor := newRecordingMonitor()

	// "vormi stop" collapses to the same phonetic form as "Wormi Stop":
	// that is a named product, not a fuzzy candidate.
	results, err := searcher.SearchWithMonitor(context.Background(), "vormi stop chahiye", nil, 5, monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
	assert.Equal(t, float32(100), results[0].Score)
	assert.Equal(t, []string{"Wormi Stop"}, monitor.exactHits)
}

func TestSearch_FuzzyMisspelling(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	// "stap" is a typo, not a spelling variant, so no exact path fires
	// and the fuzzy layer has to carry the query.
	results, err := searcher.Search(context.Background(), "wormi stap chahiye", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, strings.HasPrefix(results[0].Product.Name, "Wormi Stop"),
		"fuzzy match missed the misspelled brand, got %s", results[0].Product.Name)
}

func TestSearch_DuplicateRowsCollapse(t *testing.T) {
	products := fixtureCatalog()
	products = append(products, &core.Product{
		Id:          30,
		Name:        "DAST BAND",
		Category:    "Antidiarrheal",
		Composition: "Kaolin, Pectin",
		Packaging:   "Bolus 1x2",
		Species:     "Cattle, Buffalo, Goat",
		Indication:  "Diarrhea, loose motions",
	})
	searcher := newTestSearcher(t, products)

	results, err := searcher.Search(context.Background(), "dast aa rahe hain", nil, 5)
	require.NoError(t, err)

	count := 0
	for _, r := range results {
		if strings.EqualFold(r.Product.Name, "dast band") {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate catalog rows must collapse to one result")
}

func TestSearch_InjectableDiscountedWithoutRequest(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	// Fever query, no form requested: the injectable still wins on
	// relevance, but its score carries the oral-preference discount.
	results, err := searcher.Search(context.Background(), "bukhar hai", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	require.Equal(t, "Bukhar Go", results[0].Product.Name)
	assert.InDelta(t, 18.0, float64(results[0].Score), 0.01)
}

func TestSearch_TopKBoundsResults(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	results, err := searcher.Search(context.Background(), "bukhar hai", nil, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bukhar Go", results[0].Product.Name)
}

func TestSearch_SemanticLayer(t *testing.T) {
	products := []*core.Product{
		{Id: 21, Name: "Derma Shine", Category: core.CategoryDermatological, Vector: []float32{1, 0, 0}},
		{Id: 22, Name: "Hoof Fix", Category: core.CategoryAnalgesic, Vector: []float32{0, 1, 0}},
	}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	searcher := newTestSearcher(t, products, WithEmbedder(embedder))

	// No lexical or fuzzy evidence at all; only the vector layer can
	// place this query.
	results, err := searcher.Search(context.Background(), "abc ka ilaaj do", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Derma Shine", results[0].Product.Name)
	assert.InDelta(t, 20.0, float64(results[0].Score), 0.01)
}

func TestSearch_DegradesWhenEmbedderFails(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model host unreachable")
	}

	searcher := newTestSearcher(t, fixtureCatalog(), WithEmbedder(embedder))

	results, err := searcher.Search(context.Background(), "gaay ko keede hain", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
}

func TestSearch_Idempotent(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	first, err := searcher.Search(context.Background(), "gaay ko keede hain", nil, 5)
	require.NoError(t, err)
	second, err := searcher.Search(context.Background(), "gaay ko keede hain", nil, 5)
	require.NoError(t, err)

	require.Equal(t, resultNames(first), resultNames(second))
	for i := range first {
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestSearch_CatalogError(t *testing.T) {
	wantErr := errors.New("catalog backend down")
	cache, err := catalog.NewCache(catalog.SourceFunc(func(ctx context.Context) ([]*core.Product, error) {
		return nil, wantErr
	}))
	require.NoError(t, err)

	expander, err := expand.New()
	require.NoError(t, err)

	searcher, err := NewSearcher(cache, expander)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "gaay ko keede hain", nil, 5)
	assert.ErrorIs(t, err, wantErr)
}
