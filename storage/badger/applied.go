package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/storage"
)

// AppliedRepository implements storage.AppliedRepository for BadgerDB.
type AppliedRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AppliedRepository = (*AppliedRepository)(nil)

// NewAppliedRepository creates a new AppliedRepository.
func NewAppliedRepository(backend *Backend) (*AppliedRepository, error) {
	idSeq, err := backend.GetSequence(appliedIDSeq)
	if err != nil {
		return nil, err
	}

	return &AppliedRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AppliedRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *AppliedRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddApplied appends applied-action records.
func (r *AppliedRepository) AddApplied(ctx context.Context, records ...*core.AppliedAction) ([]*core.AppliedAction, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			id, err := nextID(r.idSeq)
			if err != nil {
				return err
			}
			record.Id = id
			record.Timestamp = stampNow(record.Timestamp)

			key := makeLogKey(appliedPrefix, record.ProfileId, record.Timestamp, record.Id)
			if err := tx.Set(key, storage.MarshalAppliedAction(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetRecentApplied retrieves the most recent records of a profile, newest first.
func (r *AppliedRepository) GetRecentApplied(ctx context.Context, profileID core.ID, limit int) ([]*core.AppliedAction, error) {
	var results []*core.AppliedAction
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = scanRecent(tx, appliedPrefix, profileID, limit, storage.UnmarshalAppliedAction)
		return err
	}, false)
	return results, err
}
