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


package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/madvet/vetsearch/core"
)

// DefaultTTL is how long a catalog snapshot stays fresh.
const DefaultTTL = 5 * time.Minute

// snapshot is an immutable catalog capture. A nil fetchedAt-zero snapshot
// means the cache has never been filled.
type snapshot struct {
	products  []*core.Product
	fetchedAt time.Time
}

// Cache wraps a Source with a TTL snapshot and stampede protection.
// All methods are safe for concurrent use.
type Cache struct {
	source Source
	ttl    time.Duration
	group  singleflight.Group
	snap   atomic.Pointer[snapshot]
	logger *slog.Logger
}

// CacheOption is a functional option for configuring a Cache.
type CacheOption func(*Cache) error

// WithTTL sets the snapshot freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) error {
		if ttl <= 0 {
			return ErrInvalidTTL
		}
		c.ttl = ttl
		return nil
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) error {
		if logger != nil {
			c.logger = logger.With("component", "catalog-cache")
		}
		return nil
	}
}

// NewCache creates a Cache over the given source.
func NewCache(source Source, opts ...CacheOption) (*Cache, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	c := &Cache{
		source: source,
		ttl:    DefaultTTL,
		logger: slog.Default().With("component", "catalog-cache"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Products returns the catalog, refreshing from the source when the
// snapshot is stale. Concurrent refreshes collapse into a single upstream
// fetch. When a refresh fails and a previous snapshot exists, the stale
// snapshot is served and the error logged.
func (c *Cache) Products(ctx context.Context) ([]*core.Product, error) {
	if snap := c.snap.Load(); snap != nil && time.Since(snap.fetchedAt) < c.ttl {
		return snap.products, nil
	}

	result, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// Another caller may have refreshed while this one waited.
		if snap := c.snap.Load(); snap != nil && time.Since(snap.fetchedAt) < c.ttl {
			return snap.products, nil
		}

		products, err := c.source.Catalog(ctx)
		if err != nil {
			if snap := c.snap.Load(); snap != nil {
				c.logger.Warn("catalog refresh failed, serving stale snapshot",
					"age", time.Since(snap.fetchedAt).String(),
					"products", len(snap.products),
					"err", err)
				return snap.products, nil
			}
			c.logger.Error("catalog refresh failed with no snapshot to fall back on", "err", err)
			return nil, err
		}

		c.snap.Store(&snapshot{products: products, fetchedAt: time.Now()})
		c.logger.Debug("catalog refreshed", "products", len(products))
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*core.Product), nil
}

// Invalidate drops the current snapshot. The next Products call refreshes
// from the source.
func (c *Cache) Invalidate() {
	c.snap.Store(nil)
	c.logger.Debug("catalog snapshot invalidated")
}

// Len returns the size of the current snapshot, or 0 when empty.
func (c *Cache) Len() int {
	if snap := c.snap.Load(); snap != nil {
		return len(snap.products)
	}
	return 0
}
