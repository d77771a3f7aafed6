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

// Package sqlite stores a settings catalog in a SQLite database.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrStoreClosed = errors.New("catalog store closed")

// Store is a catalog backed by SQLite. It implements catalog.Source.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ catalog.Source = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// Open opens (creating if needed) the catalog database at path and migrates
// its schema.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "catalog-sqlite")

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)

	gormLogger := logger.New(
		slogWriter{s.logger},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", catalog.ErrCatalogUnavailable, err)
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&categoryRow{}, &entryRow{}, &actionRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	s.db = db
	s.logger.Debug("catalog database opened", "path", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

// Import replaces the stored catalog with snapshot in one transaction.
// progress may be nil.
func (s *Store) Import(ctx context.Context, snapshot *catalog.Snapshot, progress *ProgressTracker) error {
	if s.db == nil {
		return ErrStoreClosed
	}

	if progress != nil {
		progress.Start()
		defer progress.Finish()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&actionRow{}, &entryRow{}, &categoryRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
		}

		for i, c := range snapshot.Categories() {
			row := categoryRow{ID: c.Id, Position: i, Name: c.Name, Description: c.Description}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert category %s: %w", c.Id, err)
			}
		}

		for i, e := range snapshot.Entries() {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := newEntryRow(i, e)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert entry %s: %w", e.Id, err)
			}
			if progress != nil {
				progress.Increment(1)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("catalog imported", "entries", snapshot.Len(), "categories", len(snapshot.Categories()))
	return nil
}

// Snapshot reads the whole stored catalog into a validated snapshot.
func (s *Store) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	categories, err := s.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.LoadEntries(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewSnapshot(categories, entries)
}

// LoadEntries returns every stored entry in import order.
func (s *Store) LoadEntries(ctx context.Context) ([]*core.SettingEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, ErrStoreClosed)
	}

	var rows []entryRow
	err := s.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load entries: %w", catalog.ErrCatalogUnavailable, err)
	}

	entries := make([]*core.SettingEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", row.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadCategories returns every stored category in import order.
func (s *Store) LoadCategories(ctx context.Context) ([]*core.Category, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, ErrStoreClosed)
	}

	var rows []categoryRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: load categories: %w", catalog.ErrCatalogUnavailable, err)
	}

	categories := make([]*core.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &core.Category{Id: row.ID, Name: row.Name, Description: row.Description})
	}
	return categories, nil
}

// slogWriter routes gorm's logger through slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(fmt.Sprintf(format, args...))
}
