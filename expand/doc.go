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


// Package expand turns raw customer utterances into structured queries.
//
// Expansion runs in two tiers. The rule tier is synchronous and pure: it
// scans the utterance against the lexicon tables for clinical concepts,
// species hints, packaging forms, follow-up patterns and emergency signals.
// The optional model tier sends the utterance to an ai.QueryExpander and
// merges its output into the rule result.
//
// The rule tier always runs and its safety signals always win: a detected
// new symptom defeats any follow-up classification regardless of what the
// model says. Model failures degrade to the rule result, never to an error,
// so a search is never blocked by an unavailable model.
//
// Results are memoized per normalized utterance, so repeated messages
// (common in shop chat: "ok", "gaay ko bukhar hai" re-sent) skip both tiers.
package expand
