package search

import (
	"strings"

	"github.com/madvet/vetsearch/core"
)

// BuildContext renders search results as a text block for a reply
// generator prompt. Internal fields (composition, dosage) are withheld:
// the customer sees what to buy, not what to self-prescribe.
func BuildContext(results []*core.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	for i, res := range results {
		p := res.Product
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Product: ")
		b.WriteString(p.Name)
		b.WriteString("\n")
		writeField(&b, "Category", string(p.Category))
		writeField(&b, "Packaging", p.Packaging)
		writeField(&b, "For animals", p.Species)
		writeField(&b, "Used for", p.Indication)
		writeField(&b, "Description", p.Description)
		writeField(&b, "Benefits", p.Benefits)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
