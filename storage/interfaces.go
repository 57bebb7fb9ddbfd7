package storage

import (
	"context"

	"github.com/madvet/vetsearch/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds products similar to the given vector.
	// Returns products with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CatalogRepository provides operations for managing catalog products.
type CatalogRepository interface {
	Repository
	// AddProducts adds one or more products to storage.
	// For products with ID=0, generates new IDs from sequence.
	// Sets InsertedAt and UpdatedAt timestamps.
	// Returns the products with generated IDs and timestamps populated.
	AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// UpdateProducts updates existing products.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any product doesn't exist.
	UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// DeleteProducts removes products by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any product doesn't exist.
	DeleteProducts(ctx context.Context, ids ...core.ID) error

	// GetProduct retrieves a single product by ID.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// GetProducts retrieves multiple products by their IDs.
	// Returns only the products that exist (no error for missing products).
	GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error)

	// ListProducts retrieves the full catalog.
	// The catalog is bounded (hundreds of rows), so a full scan is cheap.
	ListProducts(ctx context.Context) ([]*core.Product, error)

	// FindProductByName finds a product by its normalized name.
	// Returns ErrNotFound if no matching product exists.
	FindProductByName(ctx context.Context, name string) (*core.Product, error)
}
