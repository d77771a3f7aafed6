package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestImportAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	builtin, err := catalog.Builtin()
	require.NoError(t, err)

	var out bytes.Buffer
	progress := NewProgressTracker(&out, builtin.Len(), 5)
	require.NoError(t, s.Import(ctx, builtin, progress))
	assert.Equal(t, builtin.Len(), progress.Current())
	assert.Contains(t, out.String(), "Imported:")

	loaded, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, builtin.Categories(), loaded.Categories())
	assert.Equal(t, builtin.Entries(), loaded.Entries())
}

func TestImportReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	builtin, err := catalog.Builtin()
	require.NoError(t, err)
	require.NoError(t, s.Import(ctx, builtin, nil))

	small, err := catalog.NewSnapshot(
		[]*core.Category{{Id: "display", Name: "Display"}},
		[]*core.SettingEntry{{
			Id:         "night-light",
			Name:       "Night Light",
			CategoryId: "display",
			Risk:       core.RiskSafe,
			Actions:    []core.Action{{Id: "open", Kind: core.ActionKindSettingsURI, URI: "ms-settings:nightlight"}},
		}},
	)
	require.NoError(t, err)
	require.NoError(t, s.Import(ctx, small, nil))

	entries, err := s.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "night-light", entries[0].Id)
}

func TestEmptyStore(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.LoadEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClosedStore(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.LoadEntries(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
	_, err = s.LoadCategories(context.Background())
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
	assert.ErrorIs(t, s.Import(context.Background(), &catalog.Snapshot{}, nil), ErrStoreClosed)
}

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 10, 4)

	p.Increment(3)
	assert.Empty(t, out.String(), "no output before Start")

	p.Start()
	p.Increment(3)
	assert.Empty(t, out.String())
	p.Increment(1)
	assert.Contains(t, out.String(), "4/10")
	p.Increment(100)
	assert.Equal(t, 10, p.Current())

	p.Finish()
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}
