// Package ingestion loads and enriches the product catalog.
//
// The Pipeline type manages the catalog write path:
//   - Seeding products into storage, collapsing duplicate rows
//   - Generating embeddings for products that have none
//   - Invalidating the catalog cache after writes
//
// Embedding is performed concurrently using a worker pool. Batch failures
// are logged and reported but never leave the catalog half-written: each
// batch commits independently.
package ingestion
