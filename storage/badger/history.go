package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *HistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddHistory appends history entries.
func (r *HistoryRepository) AddHistory(ctx context.Context, entries ...*core.HistoryEntry) ([]*core.HistoryEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			id, err := nextID(r.idSeq)
			if err != nil {
				return err
			}
			entry.Id = id
			entry.Timestamp = stampNow(entry.Timestamp)

			key := makeLogKey(historyPrefix, entry.ProfileId, entry.Timestamp, entry.Id)
			if err := tx.Set(key, storage.MarshalHistoryEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// GetRecentHistory retrieves the most recent entries of a profile, newest first.
func (r *HistoryRepository) GetRecentHistory(ctx context.Context, profileID core.ID, limit int) ([]*core.HistoryEntry, error) {
	var results []*core.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = scanRecent(tx, historyPrefix, profileID, limit, storage.UnmarshalHistoryEntry)
		return err
	}, false)
	return results, err
}

// ClearHistory removes every history entry of a profile.
func (r *HistoryRepository) ClearHistory(ctx context.Context, profileID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makePartialLogKey(historyPrefix, profileID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
