package storage

import (
	"context"

	"github.com/poiesic/winregi/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// ProfileRepository provides operations for managing user profiles.
type ProfileRepository interface {
	Repository
	// SaveProfile creates or replaces a profile.
	// A profile with ID=0 gets a content-based ID derived from its name.
	// Sets CreatedAt on first save and UpdatedAt on every save.
	// Returns the profile with ID and timestamps populated.
	SaveProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error)

	// GetProfile retrieves a profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProfile(ctx context.Context, id core.ID) (*core.Profile, error)

	// FindProfileByName retrieves a profile by its name.
	// Returns ErrNotFound if no profile has that name.
	FindProfileByName(ctx context.Context, name string) (*core.Profile, error)

	// ListProfiles returns all profiles ordered by name.
	ListProfiles(ctx context.Context) ([]*core.Profile, error)

	// DeleteProfile removes a profile together with its history and applied-action log.
	// Returns ErrNotFound if the profile doesn't exist.
	DeleteProfile(ctx context.Context, id core.ID) error
}

// HistoryRepository provides operations for the per-profile search history.
type HistoryRepository interface {
	Repository
	// AddHistory appends history entries.
	// Generates IDs from a sequence and sets Timestamp if not already set.
	AddHistory(ctx context.Context, entries ...*core.HistoryEntry) ([]*core.HistoryEntry, error)

	// GetRecentHistory retrieves the most recent entries of a profile, newest first.
	// A limit <= 0 returns the whole history.
	GetRecentHistory(ctx context.Context, profileID core.ID, limit int) ([]*core.HistoryEntry, error)

	// ClearHistory removes every history entry of a profile.
	ClearHistory(ctx context.Context, profileID core.ID) error
}

// AppliedRepository provides operations for the per-profile applied-action log.
type AppliedRepository interface {
	Repository
	// AddApplied appends applied-action records.
	// Generates IDs from a sequence and sets Timestamp if not already set.
	AddApplied(ctx context.Context, records ...*core.AppliedAction) ([]*core.AppliedAction, error)

	// GetRecentApplied retrieves the most recent records of a profile, newest first.
	// A limit <= 0 returns the whole log.
	GetRecentApplied(ctx context.Context, profileID core.ID, limit int) ([]*core.AppliedAction, error)
}
