package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/winregi/core"
)

const defaultReloadDebounce = 250 * time.Millisecond

// FileSource serves a catalog from a YAML document on disk.
// The current snapshot is swapped atomically on reload, so queries already in
// flight keep the snapshot they started with.
type FileSource struct {
	path     string
	current  atomic.Pointer[Snapshot]
	debounce time.Duration
	onReload func(*Snapshot)
	onError  func(error)
	logger   *slog.Logger
	reloadMu sync.Mutex
}

var _ Source = (*FileSource)(nil)

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithFileLogger sets a custom logger.
// Default is slog.Default().
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(f *FileSource) {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
	}
}

// WithReloadDebounce sets the quiet period after the last file event before reloading.
func WithReloadDebounce(d time.Duration) FileOption {
	return func(f *FileSource) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithOnReload registers a callback invoked after each successful reload.
func WithOnReload(fn func(*Snapshot)) FileOption {
	return func(f *FileSource) {
		f.onReload = fn
	}
}

// WithOnReloadError registers a callback invoked when a watched reload fails.
func WithOnReloadError(fn func(error)) FileOption {
	return func(f *FileSource) {
		f.onError = fn
	}
}

// OpenFile loads the catalog document at path.
// Returns an error wrapping ErrCatalogUnavailable if the file cannot be read
// and ErrInvalidDocument if it does not parse.
func OpenFile(path string, opts ...FileOption) (*FileSource, error) {
	f := &FileSource{
		path:     path,
		debounce: defaultReloadDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "catalog-file", "path", path)

	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the document path.
func (f *FileSource) Path() string {
	return f.path
}

// Reload re-reads the document. On failure the previous snapshot is kept.
func (f *FileSource) Reload() error {
	f.reloadMu.Lock()
	defer f.reloadMu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	s, err := Parse(data)
	if err != nil {
		return err
	}
	f.current.Store(s)
	f.logger.Debug("catalog loaded", "entries", s.Len())
	if f.onReload != nil {
		f.onReload(s)
	}
	return nil
}

// Snapshot returns the current snapshot.
func (f *FileSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	s := f.current.Load()
	if s == nil {
		return nil, fmt.Errorf("%w: %s not loaded", ErrCatalogUnavailable, f.path)
	}
	return s, nil
}

// LoadEntries returns the entries of the current snapshot.
func (f *FileSource) LoadEntries(ctx context.Context) ([]*core.SettingEntry, error) {
	s, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Entries(), nil
}

// LoadCategories returns the categories of the current snapshot.
func (f *FileSource) LoadCategories(ctx context.Context) ([]*core.Category, error) {
	s, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Categories(), nil
}

// Watch reloads the document whenever it changes on disk until ctx is done.
// The parent directory is watched so editors that save by rename are seen.
// Reload failures are logged and the previous snapshot stays active.
func (f *FileSource) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("catalog: resolve path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(f.debounce, func() {
			if err := f.Reload(); err != nil {
				f.logger.Warn("catalog reload failed, keeping previous snapshot", "err", err)
				if f.onError != nil {
					f.onError(err)
				}
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				schedule()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("catalog watcher error", "err", err)
		}
	}
}
