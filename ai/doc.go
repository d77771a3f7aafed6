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


// Package ai provides model-backed helpers for settings search.
//
// The only service is query expansion: an LLM suggests keywords related to a
// free-text query ("my screen is too yellow at night" → "night light",
// "color temperature"), which the search layer adds to the query before
// matching. Expansion is optional and always has a plain keyword fallback.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat APIs via langchaingo
//   - ai/mock: Test doubles for unit testing without a model server
//
// Public constructors (openai.NewExpander) return the ai.QueryExpander
// interface. Test constructors (mock.NewMockQueryExpander) return concrete
// types so tests can inject behavior and assert call counts.
package ai
