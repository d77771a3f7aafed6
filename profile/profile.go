package profile

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/winregi/core"
)

// Profile is the per-user context passed into search and apply calls.
// It is safe for concurrent use.
type Profile struct {
	manager *Manager
	mu      sync.Mutex
	data    core.Profile
}

// Id returns the profile's ID.
func (p *Profile) Id() core.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Id
}

// Name returns the profile's name.
func (p *Profile) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Name
}

// AutoApply reports whether auto-apply mode is on.
func (p *Profile) AutoApply() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.AutoApply
}

// Favorites returns the favorite entry IDs in the order they were added.
func (p *Profile) Favorites() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.data.Favorites)
}

// Snapshot returns a copy of the stored profile.
func (p *Profile) Snapshot() core.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := p.data
	cp.Favorites = slices.Clone(p.data.Favorites)
	return cp
}

// SetAutoApply turns auto-apply mode on or off.
func (p *Profile) SetAutoApply(ctx context.Context, on bool) error {
	return p.update(ctx, func(d *core.Profile) bool {
		if d.AutoApply == on {
			return false
		}
		d.AutoApply = on
		return true
	})
}

// AddFavorite appends entryID to the favorites. Adding an existing favorite is a no-op.
func (p *Profile) AddFavorite(ctx context.Context, entryID string) error {
	return p.update(ctx, func(d *core.Profile) bool {
		if slices.Contains(d.Favorites, entryID) {
			return false
		}
		d.Favorites = append(d.Favorites, entryID)
		return true
	})
}

// RemoveFavorite removes entryID from the favorites. Removing an unknown entry is a no-op.
func (p *Profile) RemoveFavorite(ctx context.Context, entryID string) error {
	return p.update(ctx, func(d *core.Profile) bool {
		idx := slices.Index(d.Favorites, entryID)
		if idx < 0 {
			return false
		}
		d.Favorites = slices.Delete(d.Favorites, idx, idx+1)
		return true
	})
}

// update applies fn to a copy of the profile and stores it if fn reports a change.
func (p *Profile) update(ctx context.Context, fn func(d *core.Profile) bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.data
	next.Favorites = slices.Clone(p.data.Favorites)
	if !fn(&next) {
		return nil
	}

	saved, err := p.manager.profiles.SaveProfile(ctx, &next)
	if err != nil {
		return err
	}
	p.data = *saved
	return nil
}

// History returns the most recent searches, newest first.
// A limit <= 0 returns the whole history.
func (p *Profile) History(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	return p.manager.history.GetRecentHistory(ctx, p.Id(), limit)
}

// ClearHistory removes the profile's search history.
func (p *Profile) ClearHistory(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.history.ClearHistory(ctx, p.data.Id)
}

// Applied returns the most recent apply outcomes, newest first.
// A limit <= 0 returns the whole log.
func (p *Profile) Applied(ctx context.Context, limit int) ([]*core.AppliedAction, error) {
	return p.manager.applied.GetRecentApplied(ctx, p.Id(), limit)
}

// RecordSearch queues a history entry for the query on the worker pool.
// Write failures are logged and do not reach the caller.
func (p *Profile) RecordSearch(query string, resultCount int) {
	entry := &core.HistoryEntry{
		ProfileId:   p.Id(),
		Query:       query,
		ResultCount: resultCount,
		Timestamp:   time.Now().UTC(),
	}

	err := p.manager.submit(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, err := p.manager.history.AddHistory(context.Background(), entry); err != nil {
			p.manager.logger.Error("error recording search history", "profile", entry.ProfileId, "err", err)
		}
	})
	if err != nil {
		p.manager.logger.Warn("search history dropped", "profile", entry.ProfileId, "err", err)
	}
}

// RecordApplied appends an apply outcome to the profile's log.
func (p *Profile) RecordApplied(ctx context.Context, record *core.AppliedAction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	record.ProfileId = p.data.Id
	_, err := p.manager.applied.AddApplied(ctx, record)
	return err
}
