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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryExpander implements ai.QueryExpander using OpenAI-compatible chat APIs.
type QueryExpander struct {
	client        llms.Model
	maxInputChars int
	logger        *slog.Logger
}

// expansion is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type expansion struct {
	ClinicalTerms []string `json:"clinical_terms"`
	Species       []string `json:"species"`
	FormFactor    []string `json:"form_factor"`
	IsFollowUp    bool     `json:"is_follow_up"`
	IsEmergency   bool     `json:"is_emergency"`
}

// newQueryExpander is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryExpander(config *ai.Config) (*QueryExpander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/expansion
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExpanderHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExpanderModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryExpander{
		client:        client,
		maxInputChars: config.MaxInputChars,
		logger:        slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewQueryExpander creates a new query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewQueryExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newQueryExpander(config)
}

// ExpandQuery extracts clinical terms, species, form factors and follow-up
// signals from a customer utterance using an LLM constrained to JSON output.
func (e *QueryExpander) ExpandQuery(ctx context.Context, utterance string) (*core.ExpandedQuery, error) {
	// Scrub and bound the input before it reaches the prompt
	utterance = scrubString(utterance)
	if len(utterance) > e.maxInputChars {
		utterance = utterance[:e.maxInputChars]
	}

	// Build the system and user prompts
	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(utterance),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result expansion
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &core.ExpandedQuery{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing expander response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse expander response after retries", "err", lastErr)
		return nil, lastErr
	}

	expanded := &core.ExpandedQuery{
		ClinicalTerms: sanitizeTerms(result.ClinicalTerms),
		Species:       filterTokens(result.Species, ai.SpeciesTokens),
		FormFactor:    filterTokens(result.FormFactor, ai.FormTokens),
		IsFollowUp:    result.IsFollowUp,
		IsEmergency:   result.IsEmergency,
	}

	e.logger.Debug("expanded query",
		"terms", len(expanded.ClinicalTerms),
		"species", len(expanded.Species),
		"forms", len(expanded.FormFactor),
		"follow_up", expanded.IsFollowUp)

	return expanded, nil
}

// sanitizeTerms lowercases, trims and deduplicates model-produced clinical
// terms, dropping empties and anything implausibly long.
func sanitizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || len(term) > 50 || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

// filterTokens keeps only values from a canonical token list. The model
// output is untrusted; anything off-list is discarded.
func filterTokens(values, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, v := range allowed {
		allowedSet[v] = true
	}
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if !allowedSet[v] || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
