package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/poiesic/winregi/core"
)

// Snapshot is an immutable, validated view of a catalog.
// It is safe for concurrent use and implements Source.
type Snapshot struct {
	categories []*core.Category
	entries    []*core.SettingEntry
	byEntry    map[string]*core.SettingEntry
	byCategory map[string]*core.Category
}

var _ Source = (*Snapshot)(nil)

// NewSnapshot validates categories and entries and builds a snapshot.
//
// Validation rules:
//   - every category and entry passes core validation
//   - category IDs and entry IDs are unique
//   - every entry references a known category
//
// The inputs are deep-copied; later changes by the caller do not leak in.
func NewSnapshot(categories []*core.Category, entries []*core.SettingEntry) (*Snapshot, error) {
	s := &Snapshot{
		categories: make([]*core.Category, 0, len(categories)),
		entries:    make([]*core.SettingEntry, 0, len(entries)),
		byEntry:    make(map[string]*core.SettingEntry, len(entries)),
		byCategory: make(map[string]*core.Category, len(categories)),
	}

	for _, c := range categories {
		if err := core.ValidateCategory(c); err != nil {
			return nil, err
		}
		if _, dup := s.byCategory[c.Id]; dup {
			return nil, fmt.Errorf("%w: category %s", ErrDuplicateEntry, c.Id)
		}
		cp := *c
		s.categories = append(s.categories, &cp)
		s.byCategory[cp.Id] = &cp
	}

	for _, e := range entries {
		if err := core.ValidateSettingEntry(e); err != nil {
			return nil, err
		}
		if _, dup := s.byEntry[e.Id]; dup {
			return nil, fmt.Errorf("%w: entry %s", ErrDuplicateEntry, e.Id)
		}
		if _, ok := s.byCategory[e.CategoryId]; !ok {
			return nil, fmt.Errorf("%w: entry %s references %q", ErrUnknownCategory, e.Id, e.CategoryId)
		}
		cp := cloneEntry(e)
		s.entries = append(s.entries, cp)
		s.byEntry[cp.Id] = cp
	}

	return s, nil
}

// LoadEntries returns the entries in catalog order.
func (s *Snapshot) LoadEntries(ctx context.Context) ([]*core.SettingEntry, error) {
	return s.Entries(), nil
}

// LoadCategories returns the categories in catalog order.
func (s *Snapshot) LoadCategories(ctx context.Context) ([]*core.Category, error) {
	return s.Categories(), nil
}

// Snapshot returns s.
func (s *Snapshot) Snapshot(ctx context.Context) (*Snapshot, error) {
	return s, nil
}

// Entries returns the entries in catalog order.
// The slice is a copy; the entries themselves must not be modified.
func (s *Snapshot) Entries() []*core.SettingEntry {
	return slices.Clone(s.entries)
}

// Categories returns the categories in catalog order.
func (s *Snapshot) Categories() []*core.Category {
	return slices.Clone(s.categories)
}

// Entry returns the entry with the given ID.
func (s *Snapshot) Entry(id string) (*core.SettingEntry, error) {
	entry, ok := s.byEntry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, nil
}

// Category returns the category with the given ID, or nil.
func (s *Snapshot) Category(id string) *core.Category {
	return s.byCategory[id]
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// FindAction resolves an entry and one of its actions.
func FindAction(ctx context.Context, c Catalog, entryID, actionID string) (*core.SettingEntry, *core.Action, error) {
	entries, err := c.LoadEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	idx := slices.IndexFunc(entries, func(e *core.SettingEntry) bool { return e.Id == entryID })
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	entry := entries[idx]
	action := entry.Action(actionID)
	if action == nil {
		return nil, nil, fmt.Errorf("%w: %s/%s", ErrActionNotFound, entryID, actionID)
	}
	return entry, action, nil
}

func cloneEntry(e *core.SettingEntry) *core.SettingEntry {
	cp := *e
	cp.Keywords = slices.Clone(e.Keywords)
	cp.Tags = slices.Clone(e.Tags)
	cp.Actions = make([]core.Action, len(e.Actions))
	for i, a := range e.Actions {
		a.Registry = slices.Clone(a.Registry)
		cp.Actions[i] = a
	}
	return &cp
}
