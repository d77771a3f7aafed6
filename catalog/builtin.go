package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
)

//go:embed defaults.yaml
var defaultCatalogYAML []byte

var (
	cachedBuiltin *Snapshot
	builtinOnce   sync.Once
	builtinErr    error
)

// Builtin returns the catalog shipped with the module.
// It is parsed once and cached; the snapshot is shared and immutable.
func Builtin() (*Snapshot, error) {
	builtinOnce.Do(func() {
		s, err := Parse(defaultCatalogYAML)
		if err != nil {
			builtinErr = fmt.Errorf("parsing defaults.yaml: %w", err)
			return
		}
		cachedBuiltin = s
		slog.Debug("builtin catalog loaded", "entries", s.Len(), "categories", len(s.categories))
	})
	return cachedBuiltin, builtinErr
}

// DefaultDocument returns the raw YAML of the built-in catalog.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultCatalogYAML))
	copy(out, defaultCatalogYAML)
	return out
}
