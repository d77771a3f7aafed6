package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) *ProfileRepository {
	return &ProfileRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is owned by the caller.
func (r *ProfileRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveProfile creates or replaces a profile.
func (r *ProfileRepository) SaveProfile(ctx context.Context, profile *core.Profile) (*core.Profile, error) {
	if err := core.ValidateProfile(profile); err != nil {
		return nil, err
	}
	if profile.Id == 0 {
		profile.Id = core.ProfileID(profile.Name)
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(profile.Id)
		old, err := readProfile(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			profile.CreatedAt = old.CreatedAt
		} else if profile.CreatedAt.IsZero() {
			profile.CreatedAt = now
		}
		profile.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile retrieves a profile by ID.
func (r *ProfileRepository) GetProfile(ctx context.Context, id core.ID) (*core.Profile, error) {
	var result *core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProfile(tx, makeProfileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindProfileByName retrieves a profile by its name.
// Profile IDs are derived from the name, so this is a point lookup.
func (r *ProfileRepository) FindProfileByName(ctx context.Context, name string) (*core.Profile, error) {
	return r.GetProfile(ctx, core.ProfileID(name))
}

// ListProfiles returns all profiles ordered by name.
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]*core.Profile, error) {
	var results []*core.Profile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				profile, err := storage.UnmarshalProfile(val)
				if err != nil {
					return err
				}
				results = append(results, profile)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Profile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return results, nil
}

// DeleteProfile removes a profile together with its history and applied-action log.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(id)
		profile, err := readProfile(tx, key)
		if err != nil {
			return err
		}
		if profile == nil {
			return storage.ErrNotFound
		}

		if err := deletePrefix(tx, makePartialLogKey(historyPrefix, id)); err != nil {
			return err
		}
		if err := deletePrefix(tx, makePartialLogKey(appliedPrefix, id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readProfile reads a profile within a transaction.
// Returns nil, nil if the key doesn't exist.
func readProfile(tx *badger.Txn, key []byte) (*core.Profile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Profile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		profile, unmarshalErr = storage.UnmarshalProfile(val)
		return unmarshalErr
	})
	return profile, err
}
