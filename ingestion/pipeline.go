package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/storage"
)

// defaultBatchSize is how many products go to the embedder per request.
const defaultBatchSize = 16

// CacheInvalidator drops derived catalog snapshots after writes.
// catalog.Cache satisfies it.
type CacheInvalidator interface {
	Invalidate()
}

// Pipeline orchestrates the catalog write path: seeding product rows and
// generating embeddings for products that have none.
type Pipeline struct {
	repository  storage.CatalogRepository
	embedder    ai.Embedder
	pool        *ants.Pool
	batchSize   int
	invalidator CacheInvalidator
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many products are embedded per model request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithCacheInvalidator wires a catalog cache to be invalidated after
// writes. Without it, readers see changes only when their snapshot expires.
func WithCacheInvalidator(invalidator CacheInvalidator) Option {
	return func(p *Pipeline) error {
		p.invalidator = invalidator
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates a new catalog ingestion pipeline.
func NewPipeline(repository storage.CatalogRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// SeedReport summarizes one Seed call.
type SeedReport struct {
	Added   int // new products inserted
	Updated int // existing products refreshed in place
	Skipped int // nameless rows and in-batch duplicates
}

// Seed upserts product rows into the catalog. Rows are collapsed by their
// dedup identity: a row matching an existing product refreshes it in place,
// keeping its ID and its embedding when the incoming row carries none.
// Nameless rows and duplicates within the batch are skipped.
func (p *Pipeline) Seed(ctx context.Context, products ...*core.Product) (*SeedReport, error) {
	existing, err := p.repository.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*core.Product, len(existing))
	for _, prod := range existing {
		byKey[prod.DedupKey()] = prod
	}

	report := &SeedReport{}
	seen := make(map[string]bool, len(products))
	var adds, updates []*core.Product

	for _, prod := range products {
		if strings.TrimSpace(prod.Name) == "" {
			report.Skipped++
			continue
		}
		key := prod.DedupKey()
		if seen[key] {
			report.Skipped++
			continue
		}
		seen[key] = true

		if current, ok := byKey[key]; ok {
			prod.Id = current.Id
			if len(prod.Vector) == 0 {
				prod.Vector = current.Vector
			}
			updates = append(updates, prod)
			continue
		}
		adds = append(adds, prod)
	}

	if len(adds) > 0 {
		added, addErr := p.repository.AddProducts(ctx, adds...)
		if addErr != nil {
			return nil, addErr
		}
		report.Added = len(added)
	}
	if len(updates) > 0 {
		updated, updateErr := p.repository.UpdateProducts(ctx, updates...)
		if updateErr != nil {
			return nil, updateErr
		}
		report.Updated = len(updated)
	}

	if report.Added+report.Updated > 0 {
		p.invalidate()
	}

	p.logger.Info("catalog seeded",
		"added", report.Added,
		"updated", report.Updated,
		"skipped", report.Skipped)
	return report, nil
}

// EmbedMissing generates embeddings for every product without one.
// Batches run concurrently on the worker pool and commit independently;
// a failed batch is reported but does not undo the others. Returns how
// many products were embedded.
func (p *Pipeline) EmbedMissing(ctx context.Context) (int, error) {
	products, err := p.repository.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	var pending []*core.Product
	for _, prod := range products {
		if len(prod.Vector) == 0 {
			pending = append(pending, prod)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	p.logger.Info("embedding products", "pending", len(pending), "batch_size", p.batchSize)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		embedded int
		errs     []error
	)

	fail := func(batchErr error) {
		mu.Lock()
		errs = append(errs, batchErr)
		mu.Unlock()
	}

	for start := 0; start < len(pending); start += p.batchSize {
		end := start + p.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if batchErr := p.embedBatch(ctx, batch); batchErr != nil {
				p.logger.Error("error embedding batch", "products", len(batch), "err", batchErr)
				fail(batchErr)
				return
			}
			mu.Lock()
			embedded += len(batch)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
		}
	}
	wg.Wait()

	if embedded > 0 {
		p.invalidate()
	}
	return embedded, errors.Join(errs...)
}

// embedBatch embeds one batch of products and stores the vectors.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Product) error {
	texts := make([]string, len(batch))
	for i, prod := range batch {
		texts[i] = EmbedText(prod)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(vectors))
	}

	for i := range vectors {
		batch[i].Vector = vectors[i]
	}

	_, err = p.repository.UpdateProducts(ctx, batch...)
	return err
}

func (p *Pipeline) invalidate() {
	if p.invalidator != nil {
		p.invalidator.Invalidate()
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
