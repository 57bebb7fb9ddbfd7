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

package vetsearch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madvet/vetsearch/ai/mock"
	"github.com/madvet/vetsearch/core"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	service, err := NewService(filepath.Join(t.TempDir(), "catalog"),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, service.Close())
	})
	return service
}

func seedTestCatalog(t *testing.T, service *Service) {
	t.Helper()

	pipeline, err := service.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	products := []*core.Product{
		{
			Name:        "Wormi Stop",
			Category:    core.CategoryAnthelmintic,
			Composition: "Albendazole 600mg",
			Packaging:   "Bolus 1x4",
			Species:     "Cattle, Buffalo",
			Indication:  "Worms, internal parasites, deworming",
		},
		{
			Name:       "Dast Band",
			Category:   core.CategoryAntidiarrheal,
			Packaging:  "Bolus 1x2",
			Species:    "Cattle, Buffalo, Goat",
			Indication: "Diarrhea, loose motions",
		},
		{
			Name:       "Probio Plus",
			Category:   core.CategoryProbiotic,
			Packaging:  "Powder 100g",
			Indication: "Digestion, rumen health, appetite",
		},
	}

	report, err := pipeline.Seed(context.Background(), products...)
	require.NoError(t, err)
	require.Equal(t, len(products), report.Added)

	embedded, err := pipeline.EmbedMissing(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(products), embedded)
}

func TestService_EndToEnd(t *testing.T) {
	service := newTestService(t)
	seedTestCatalog(t, service)
	ctx := context.Background()

	// Symptom query lands on the dewormer and never on the antidiarrheal.
	results, err := service.Search(ctx, "gaay ko keede hain", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Wormi Stop", results[0].Product.Name)
	for _, r := range results {
		assert.False(t, r.Product.Category.Matches("antidiarrheal"))
	}

	// Complementary suggestions for the dewormer include the probiotic.
	comp, err := service.SearchComplementary(ctx, results[:1], nil, 3)
	require.NoError(t, err)
	require.NotEmpty(t, comp)
	assert.Equal(t, "Probio Plus", comp[0].Product.Name)

	// The context block surfaces customer-facing fields only.
	block := service.BuildContext(results)
	assert.Contains(t, block, "Product: Wormi Stop")
	assert.NotContains(t, block, "Albendazole")
}

func TestService_FollowUpClassification(t *testing.T) {
	service := newTestService(t)

	assert.True(t, service.IsFollowUpMessage("khuraak kitni hai"))
	assert.True(t, service.IsFollowUpMessage("theek hai"))
	assert.False(t, service.IsFollowUpMessage("bukhar hai"))
	assert.False(t, service.IsFollowUpMessage("bakri ko dast lag gaye"))
}

func TestService_ExtractMentionedProducts(t *testing.T) {
	service := newTestService(t)
	seedTestCatalog(t, service)

	mentioned, err := service.ExtractMentionedProducts(context.Background(),
		"Wormi Stop dijiye, saath me Probio Plus bhi")
	require.NoError(t, err)

	names := make([]string, 0, len(mentioned))
	for _, p := range mentioned {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Wormi Stop", "Probio Plus"}, names)
}

func TestService_CacheSeesIngestionWrites(t *testing.T) {
	service := newTestService(t)

	products, err := service.Catalog().Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	// Ingestion invalidates the snapshot, so the cache picks up the new
	// rows immediately instead of waiting out the TTL.
	seedTestCatalog(t, service)

	products, err = service.Catalog().Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
