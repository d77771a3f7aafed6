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


package badger

import "github.com/poiesic/winregi/storage"

// Repositories bundles the preference repositories opened on one backend.
type Repositories struct {
	Profiles storage.ProfileRepository
	History  storage.HistoryRepository
	Applied  storage.AppliedRepository
	Backend  *Backend
}

// OpenRepositories opens a backend at path and creates all preference
// repositories on it. Close releases everything.
func OpenRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	history, err := NewHistoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	applied, err := NewAppliedRepository(backend)
	if err != nil {
		history.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Profiles: NewProfileRepository(backend),
		History:  history,
		Applied:  applied,
		Backend:  backend,
	}, nil
}

// NewMemoryRepositories creates in-memory preference repositories for testing.
// Caller must call Close when done.
func NewMemoryRepositories() (*Repositories, error) {
	return OpenRepositories("", true)
}

// Close releases the repositories and then the backend.
func (r *Repositories) Close() error {
	if err := r.Applied.Close(); err != nil {
		return err
	}
	if err := r.History.Close(); err != nil {
		return err
	}
	if err := r.Profiles.Close(); err != nil {
		return err
	}
	return r.Backend.Close()
}
