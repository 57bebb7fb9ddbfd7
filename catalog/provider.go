package catalog

import (
	"context"

	"github.com/madvet/vetsearch/core"
)

// Source produces the full product catalog. Implementations may read from
// a repository, a remote API, or a static fixture.
type Source interface {
	// Catalog returns every product. The returned slice and its products
	// are treated as immutable by callers.
	Catalog(ctx context.Context) ([]*core.Product, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) ([]*core.Product, error)

// Catalog calls the wrapped function.
func (f SourceFunc) Catalog(ctx context.Context) ([]*core.Product, error) {
	return f(ctx)
}

// StaticSource serves a fixed product slice. Useful for tests and seeding.
type StaticSource struct {
	products []*core.Product
}

// NewStaticSource creates a Source over a fixed slice.
func NewStaticSource(products []*core.Product) *StaticSource {
	return &StaticSource{products: products}
}

// Catalog returns the fixed slice.
func (s *StaticSource) Catalog(ctx context.Context) ([]*core.Product, error) {
	return s.products, nil
}
