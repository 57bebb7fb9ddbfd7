package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/madvet/vetsearch/core"
)

// Row is one catalog record as exported by the shop backend. The export
// format drifted over time: older dumps use salt/packing/usp_benefits,
// newer ones salt_ingredient/packaging/benefits. Both spellings are
// accepted and coalesced.
type Row struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Salt           string `json:"salt"`
	SaltIngredient string `json:"salt_ingredient"`
	Packing        string `json:"packing"`
	Packaging      string `json:"packaging"`
	Category       string `json:"category"`
	Animal         string `json:"animal"`
	Species        string `json:"species"`
	Indication     string `json:"indication"`
	Aliases        string `json:"aliases"`
	Dosage         string `json:"dosage"`
	Description    string `json:"description"`
	Benefits       string `json:"benefits"`
	USPBenefits    string `json:"usp_benefits"`
}

// Product converts a row into the domain type. Legacy aliases coalesce
// newer-name-first. Rows without a backend ID get a content-derived one so
// re-imports stay stable.
func (r Row) Product() *core.Product {
	now := time.Now()
	p := &core.Product{
		Id:          core.ID(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Composition: coalesce(r.SaltIngredient, r.Salt),
		Packaging:   coalesce(r.Packaging, r.Packing),
		Category:    core.Category(strings.TrimSpace(r.Category)),
		Species:     coalesce(r.Species, r.Animal),
		Indication:  strings.TrimSpace(r.Indication),
		Aliases:     strings.TrimSpace(r.Aliases),
		Dosage:      strings.TrimSpace(r.Dosage),
		Description: strings.TrimSpace(r.Description),
		Benefits:    coalesce(r.Benefits, r.USPBenefits),
		InsertedAt:  now,
		UpdatedAt:   now,
	}
	if p.Id == 0 {
		p.Id = core.IDFromContent(p.DedupKey())
	}
	return p
}

// ParseRows decodes a JSON catalog export into products. Rows without a
// name are dropped.
func ParseRows(data []byte) ([]*core.Product, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	products := make([]*core.Product, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			continue
		}
		products = append(products, row.Product())
	}
	return products, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
