package catalog

import (
	"context"

	"github.com/poiesic/winregi/core"
)

// Catalog supplies the setting entries searched by the resolver.
// Implementations must be safe for concurrent use. The returned entries are
// treated as immutable and must stay stable for the duration of a query.
type Catalog interface {
	// LoadEntries returns every entry in catalog order.
	// Returns an error wrapping ErrCatalogUnavailable if the catalog cannot be read.
	LoadEntries(ctx context.Context) ([]*core.SettingEntry, error)
}

// CategoryLister is implemented by catalogs that also expose their categories.
type CategoryLister interface {
	// LoadCategories returns every category in catalog order.
	LoadCategories(ctx context.Context) ([]*core.Category, error)
}

// Source is a catalog that can produce a full snapshot of itself.
type Source interface {
	Catalog
	CategoryLister
	// Snapshot returns the current immutable view of the catalog.
	Snapshot(ctx context.Context) (*Snapshot, error)
}
