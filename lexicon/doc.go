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


// Package lexicon holds the curated veterinary domain vocabulary and the
// text normalization used across the retrieval pipeline.
//
// It maps colloquial Hindi/Hinglish/English terms to canonical clinical
// concepts, detects species and packaging-form hints, and owns two safety
// tables: category exclusions (hard filters preventing wrong-category
// recommendations) and the complementary-product adjacency table.
//
// Everything in this package is pure data plus deterministic string
// transforms; there are no side effects and no I/O.
package lexicon
