package catalog

import (
	"testing"

	"github.com/poiesic/winregi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Greater(t, s.Len(), 10)

	again, err := Builtin()
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestBuiltinEntries(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)

	night, err := s.Entry("night-light")
	require.NoError(t, err)
	assert.Equal(t, "display", night.CategoryId)
	assert.Contains(t, night.Keywords, "dark")

	dark, err := s.Entry("dark-mode")
	require.NoError(t, err)
	enable := dark.Action("enable")
	require.NotNil(t, enable)
	assert.Equal(t, core.EffectEnable, enable.Effect)
	assert.Len(t, enable.Registry, 2)

	for _, entry := range s.Entries() {
		assert.NotNil(t, entry.DefaultAction(), entry.Id)
		assert.NotNil(t, s.Category(entry.CategoryId), entry.Id)
	}
}

func TestDefaultDocumentIsCopy(t *testing.T) {
	doc := DefaultDocument()
	require.NotEmpty(t, doc)
	doc[0] = '#'
	assert.NotEqual(t, doc[0], DefaultDocument()[0])
}
