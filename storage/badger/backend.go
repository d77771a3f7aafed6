package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/winregi/storage"
)

const (
	sequenceBandwidth = 100
	// Preference records are tiny; the default 64MB memtable is wasted here.
	memTableSize = 16 << 20
)

// Backend is the BadgerDB instance shared by the preference repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = slogAdapter{}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.logger.Warn(fmt.Sprintf(format, args...))
}

// Badger is chatty at info level during open and compaction.
func (a slogAdapter) Infof(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBackend opens the preference store in dir, creating the directory if
// needed. With inMemory set dir is ignored and nothing touches the disk.
func OpenBackend(dir string, inMemory bool) (*Backend, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("preference store %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}

	logger := slog.Default().With("component", "badger")
	opts = opts.
		WithLogger(slogAdapter{logger: logger}).
		WithCompression(options.None).
		WithMemTableSize(memTableSize)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("preference store opened", "dir", dir, "in_memory", inMemory)
	return &Backend{db: db, logger: logger}, nil
}

// Close closes the database. Closing twice is a no-op.
func (b *Backend) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn in a transaction that is discarded afterwards. Write
// transactions must be committed by fn.
// Returns storage.ErrStorageClosed once the backend is closed.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns the named ID sequence.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), sequenceBandwidth)
}

// WithTransaction runs fn and commits a write transaction if it succeeds.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// deletePrefix removes every key starting with prefix inside tx.
// Keys are collected first because badger forbids mutation during iteration.
func deletePrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
