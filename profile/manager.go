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

// Package profile manages user profiles: the auto-apply flag, favorites,
// search history and the log of applied actions.
//
// A Profile is an explicit context object handed to search and apply calls.
// All writes to one profile are serialized on that profile's mutex, so a
// background history write cannot race a favorite or auto-apply update.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/storage"
)

// Manager opens profiles and runs their background writes.
type Manager struct {
	profiles storage.ProfileRepository
	history  storage.HistoryRepository
	applied  storage.AppliedRepository
	pool     *ants.Pool
	pending  sync.WaitGroup
	logger   *slog.Logger

	mu       sync.Mutex
	open     map[core.ID]*Profile
	released bool
}

// Option configures a Manager.
type Option func(*Manager) error

// WithPoolSize sets the worker pool size for background writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a profile manager over the given repositories.
func NewManager(
	profiles storage.ProfileRepository,
	history storage.HistoryRepository,
	applied storage.AppliedRepository,
	opts ...Option,
) (*Manager, error) {
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	if history == nil {
		return nil, ErrHistoryRepositoryRequired
	}
	if applied == nil {
		return nil, ErrAppliedRepositoryRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		profiles: profiles,
		history:  history,
		applied:  applied,
		pool:     pool,
		logger:   slog.Default(),
		open:     make(map[core.ID]*Profile),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.pool.Release()
			return nil, optErr
		}
	}
	m.logger = m.logger.With("component", "profile")

	return m, nil
}

// Open loads the named profile, creating it if it does not exist yet.
// Names are matched case-insensitively. Repeated calls for the same name
// return the same *Profile.
func (m *Manager) Open(ctx context.Context, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateProfile(&core.Profile{Name: name}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, ErrManagerReleased
	}

	id := core.ProfileID(name)
	if p, ok := m.open[id]; ok {
		return p, nil
	}

	stored, err := m.profiles.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		stored, err = m.profiles.SaveProfile(ctx, &core.Profile{Id: id, Name: name})
		if err == nil {
			m.logger.Info("profile created", "name", name)
		}
	}
	if err != nil {
		return nil, err
	}

	p := &Profile{manager: m, data: *stored}
	m.open[id] = p
	return p, nil
}

// List returns every stored profile ordered by name.
func (m *Manager) List(ctx context.Context) ([]*core.Profile, error) {
	return m.profiles.ListProfiles(ctx)
}

// Delete removes the named profile with its history and applied-action log.
// Returns storage.ErrNotFound if no such profile exists.
func (m *Manager) Delete(ctx context.Context, name string) error {
	id := core.ProfileID(name)

	m.mu.Lock()
	p := m.open[id]
	delete(m.open, id)
	m.mu.Unlock()

	// Let queued writes for this profile land before removing it.
	m.Flush()
	if p != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
	}

	if err := m.profiles.DeleteProfile(ctx, id); err != nil {
		return err
	}
	m.logger.Info("profile deleted", "name", name)
	return nil
}

// Flush blocks until all queued background writes have completed.
func (m *Manager) Flush() {
	m.pending.Wait()
}

// Release waits for queued writes and stops the worker pool.
// The manager and its profiles should not be used after calling Release.
func (m *Manager) Release() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	m.mu.Unlock()

	m.Flush()
	m.pool.Release()
}

// submit queues fn on the worker pool. Release waits for every fn counted
// before it flipped released, so the count is taken under m.mu.
func (m *Manager) submit(fn func()) error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return ErrManagerReleased
	}
	m.pending.Add(1)
	m.mu.Unlock()

	err := m.pool.Submit(func() {
		defer m.pending.Done()
		fn()
	})
	if err != nil {
		m.pending.Done()
	}
	return err
}
