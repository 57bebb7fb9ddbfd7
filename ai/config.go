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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ExpanderHost is the base URL for the query expansion service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	ExpanderHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ExpanderModel is the model identifier to use for query expansion.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExpanderModel string

	// MaxInputChars is the maximum utterance length sent to the expansion
	// model. Longer utterances are truncated before the prompt is built.
	// Default: 500
	MaxInputChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithExpanderHost sets the query expansion service host URL.
func WithExpanderHost(host string) ConfigOption {
	return func(c *Config) {
		c.ExpanderHost = host
	}
}

// WithHost sets both embedding and expander hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ExpanderHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExpanderModel sets the query expansion model identifier.
func WithExpanderModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExpanderModel = model
	}
}

// WithMaxInputChars sets the utterance truncation limit for query expansion.
func WithMaxInputChars(max int) ConfigOption {
	return func(c *Config) {
		c.MaxInputChars = max
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and expander use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		ExpanderHost:   defaultHost,
		EmbeddingModel: "embeddinggemma",
		ExpanderModel:  "qwen2.5:3b",
		MaxInputChars:  500,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
//
// Example with different hosts:
//   cfg := NewConfig(
//       WithEmbeddingHost("http://localhost:11434/v1"),
//       WithExpanderHost("http://localhost:9100/v1"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	// Ensure EmbeddingHost ends with /v1 for OpenAI-compatible APIs
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	// Ensure ExpanderHost ends with /v1 for OpenAI-compatible APIs
	if c.ExpanderHost != "" && !strings.HasSuffix(c.ExpanderHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.ExpanderHost = strings.TrimSuffix(c.ExpanderHost, "/")
		c.ExpanderHost = c.ExpanderHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ExpanderHost == "" {
		return errors.New("ai config: ExpanderHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ExpanderModel == "" {
		return errors.New("ai config: ExpanderModel is required")
	}
	if c.MaxInputChars < 1 {
		return errors.New("ai config: MaxInputChars must be positive")
	}
	return nil
}
