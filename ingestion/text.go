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

package ingestion

import (
	"strings"

	"github.com/madvet/vetsearch/core"
)

// EmbedText builds the text block embedded for one product. Composition
// and dosage are deliberately absent: customers describe ailments and
// brands, and the active salt drags the vector toward chemistry instead
// of usage.
func EmbedText(p *core.Product) string {
	var b strings.Builder
	b.WriteString("Product: ")
	b.WriteString(p.Name)
	writePart(&b, "Category", string(p.Category))
	writePart(&b, "For animals", p.Species)
	writePart(&b, "Used for", p.Indication)
	writePart(&b, "Also called", p.Aliases)
	writePart(&b, "Description", p.Description)
	writePart(&b, "Benefits", p.Benefits)
	return b.String()
}

func writePart(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(". ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
}
