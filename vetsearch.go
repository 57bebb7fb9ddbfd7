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

// Package vetsearch recommends veterinary products for colloquial
// Hindi/Hinglish customer messages. The Service type wires storage, the
// catalog cache, query expansion and the layered searcher into one
// embeddable retrieval core.
package vetsearch

import (
	"context"
	"log/slog"
	"time"

	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/ai/openai"
	"github.com/madvet/vetsearch/catalog"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/expand"
	"github.com/madvet/vetsearch/ingestion"
	"github.com/madvet/vetsearch/search"
	"github.com/madvet/vetsearch/storage"
	"github.com/madvet/vetsearch/storage/badger"
)

// Service is the assembled retrieval core.
type Service struct {
	repo     storage.CatalogRepository
	provider ai.AIProvider
	cache    *catalog.Cache
	expander *expand.Expander
	searcher *search.Searcher
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig       *ai.Config
	provider       ai.AIProvider
	policy         *search.Policy
	catalogTTL     time.Duration
	semanticSearch bool
	modelExpansion bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Used with mocks in tests and by callers that
// manage provider lifecycle themselves.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithPolicy overrides the default search scoring policy.
func WithPolicy(policy search.Policy) ServiceOption {
	return func(o *serviceOptions) {
		o.policy = &policy
	}
}

// WithCatalogTTL sets the catalog cache freshness window.
func WithCatalogTTL(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.catalogTTL = ttl
	}
}

// WithoutSemanticSearch disables the embedding layer. Search runs on the
// lexical and fuzzy layers only.
func WithoutSemanticSearch() ServiceOption {
	return func(o *serviceOptions) {
		o.semanticSearch = false
	}
}

// WithoutModelExpansion disables the model tier of query expansion,
// leaving the rule tier.
func WithoutModelExpansion() ServiceOption {
	return func(o *serviceOptions) {
		o.modelExpansion = false
	}
}

// NewService opens the catalog store at filePath and assembles the
// retrieval core around it.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:       ai.DefaultConfig(),
		catalogTTL:     catalog.DefaultTTL,
		semanticSearch: true,
		modelExpansion: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	repo, err := badger.NewRepository(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			return nil, err
		}
	}

	cache, err := catalog.NewCache(catalog.SourceFunc(repo.ListProducts), catalog.WithTTL(options.catalogTTL))
	if err != nil {
		provider.Close()
		repo.Close()
		return nil, err
	}

	expandOpts := []expand.Option{}
	if options.modelExpansion {
		expandOpts = append(expandOpts, expand.WithModel(provider.QueryExpander()))
	}
	expander, err := expand.New(expandOpts...)
	if err != nil {
		provider.Close()
		repo.Close()
		return nil, err
	}

	searchOpts := []search.Option{}
	if options.semanticSearch {
		searchOpts = append(searchOpts, search.WithEmbedder(provider.Embedder()))
	}
	if options.policy != nil {
		searchOpts = append(searchOpts, search.WithPolicy(*options.policy))
	}
	searcher, err := search.NewSearcher(cache, expander, searchOpts...)
	if err != nil {
		provider.Close()
		repo.Close()
		return nil, err
	}

	return &Service{
		repo:     repo,
		provider: provider,
		cache:    cache,
		expander: expander,
		searcher: searcher,
		logger:   slog.Default(),
	}, nil
}

// Search retrieves up to topK products for a customer message.
func (s *Service) Search(ctx context.Context, query string, history []core.ConversationTurn, topK int) ([]*core.SearchResult, error) {
	return s.searcher.Search(ctx, query, history, topK)
}

// SearchComplementary finds clinically adjunct products for a primary
// result set. Empty when the set is empty or no adjacency applies.
func (s *Service) SearchComplementary(ctx context.Context, primaries []*core.SearchResult, expanded *core.ExpandedQuery, topK int) ([]*core.SearchResult, error) {
	return s.searcher.SearchComplementary(ctx, primaries, expanded, topK)
}

// IsFollowUpMessage reports whether a message continues a prior
// conversation rather than raising a fresh problem.
func (s *Service) IsFollowUpMessage(text string) bool {
	return expand.IsFollowUp(text)
}

// ExtractMentionedProducts finds catalog products explicitly named in text.
func (s *Service) ExtractMentionedProducts(ctx context.Context, text string) ([]*core.Product, error) {
	return s.searcher.ExtractMentionedProducts(ctx, text)
}

// BuildContext renders results as a text block for a reply generator.
func (s *Service) BuildContext(results []*core.SearchResult) string {
	return search.BuildContext(results)
}

// CatalogRepository returns the underlying catalog repository.
func (s *Service) CatalogRepository() storage.CatalogRepository {
	return s.repo
}

// Catalog returns the TTL catalog cache the searcher reads from.
func (s *Service) Catalog() *catalog.Cache {
	return s.cache
}

// Searcher returns the assembled searcher for callers needing monitor
// hooks or direct access.
func (s *Service) Searcher() *search.Searcher {
	return s.searcher
}

// NewIngestionPipeline creates an ingestion pipeline over the service's
// repository, wired to invalidate the catalog cache after writes.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithCacheInvalidator(s.cache)}, opts...)
	return ingestion.NewPipeline(s.repo, s.provider, opts...)
}

// Close releases the AI provider and the catalog store.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing catalog repository", "err", err)
		return err
	}
	return nil
}
