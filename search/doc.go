// Copyright 2025 Poiesic Systems
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

// Package search resolves free-text queries against the settings catalog.
//
// A Searcher asks its Strategy to turn the text into a core.Query, scores
// every catalog entry, and returns the candidates ranked by:
//   - descending score
//   - entry ID, ascending, between equal scores
//
// The ranking depends only on the query and the catalog snapshot, so
// identical inputs always give identical results.
//
// KeywordStrategy is the default strategy. It stems query and entry text,
// applies an intent table of everyday phrases ("speed up", "dark mode"), and
// weights token overlap, whole-phrase hits and intent hits. ExpandingStrategy
// wraps any strategy with model-suggested keywords from an ai.QueryExpander.
package search
