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


// Package search implements product retrieval over the catalog.
//
// The Searcher runs a multi-stage pipeline:
//
//   - Query expansion turns the utterance into clinical terms, species and
//     form hints; follow-up messages are re-rooted on the prior user turn.
//   - An exact name match short-circuits the pipeline, pulling in the
//     product's family variants.
//   - Otherwise three layers run concurrently: weighted lexical scoring,
//     phonetic-fuzzy name matching, and vector similarity.
//   - Category exclusions are applied as a hard filter before scoring:
//     a dewormer query can never surface an antidiarrheal.
//   - Merged results are deduplicated, collapsed per product family, and
//     cut at a dynamic score threshold.
//
// The package also extracts product mentions from free text and finds
// clinically adjunct products for a primary result.
package search
