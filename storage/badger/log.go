package badger

import (
	"bytes"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/winregi/core"
)

// nextID returns the next non-zero value of a sequence.
func nextID(seq *badger.Sequence) (core.ID, error) {
	id, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if id == 0 {
		id, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(id), nil
}

// stampNow returns ts, or the current UTC time if ts is zero.
func stampNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts
}

// scanRecent walks the log of one profile from newest to oldest, decoding at
// most limit records. A limit <= 0 walks the whole log.
func scanRecent[T any](tx *badger.Txn, prefix string, profileID core.ID, limit int, decode func([]byte) (*T, error)) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	iter := tx.NewIterator(opts)
	defer iter.Close()

	keyPrefix := makePartialLogKey(prefix, profileID)
	var results []*T
	for iter.Seek(makeLogSeekKey(prefix, profileID)); iter.Valid(); iter.Next() {
		if limit > 0 && len(results) >= limit {
			break
		}
		if !bytes.HasPrefix(iter.Item().Key(), keyPrefix) {
			break
		}
		err := iter.Item().Value(func(val []byte) error {
			record, err := decode(val)
			if err != nil {
				return err
			}
			results = append(results, record)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
