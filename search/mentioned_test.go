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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madvet/vetsearch/core"
)

func mentionedNames(products []*core.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestExtractMentionedProducts(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "full name",
			text: "Aap Wormi Stop do goli subah dena",
			want: []string{"Wormi Stop"},
		},
		{
			name: "longer variant claims its words",
			text: "Wormi Stop Forte 100ml de sakte hain",
			want: []string{"Wormi Stop Forte"},
		},
		{
			name: "alias counts as mention",
			text: "wormistop bhej dena shaam tak",
			want: []string{"Wormi Stop"},
		},
		{
			name: "lone distinctive word",
			text: "saath me probio bhi de dena",
			want: []string{"Probio Plus"},
		},
		{
			name: "multiple products",
			text: "Dast Band aur Calci Gold dono rakh lo",
			want: []string{"Calci Gold", "Dast Band"},
		},
		{
			name: "generic words never trigger",
			text: "koi achha injection bhej do",
			want: nil,
		},
		{
			name: "ordinary chat",
			text: "theek hai bhaiya kal aata hun",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := searcher.ExtractMentionedProducts(ctx, tc.text)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, mentionedNames(got))
		})
	}
}

func TestExtractMentionedProducts_EmptyText(t *testing.T) {
	searcher := newTestSearcher(t, fixtureCatalog())

	got, err := searcher.ExtractMentionedProducts(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
