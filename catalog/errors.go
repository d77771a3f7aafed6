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


package catalog

import "errors"

var (
	// ErrCatalogUnavailable indicates the catalog could not be read.
	ErrCatalogUnavailable = errors.New("catalog unreachable")

	// ErrEntryNotFound indicates no entry has the requested ID.
	ErrEntryNotFound = errors.New("setting entry not found")

	// ErrActionNotFound indicates the entry has no action with the requested ID.
	ErrActionNotFound = errors.New("action not found")

	// ErrUnknownCategory indicates an entry references a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateEntry indicates two entries or categories share an ID.
	ErrDuplicateEntry = errors.New("duplicate catalog id")

	// ErrInvalidDocument indicates a catalog document failed to parse or validate.
	ErrInvalidDocument = errors.New("invalid catalog document")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
