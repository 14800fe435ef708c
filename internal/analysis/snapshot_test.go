package analysis

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/buildgrid/internal/label"
)

func TestSnapshot_RoundTripStripsActions(t *testing.T) {
	gen := mustLabel(t, "//lib:gen")
	files := mustLabel(t, "//lib:files")

	store := NewStore()
	store.Put(New(gen, sampleActions(gen)))
	store.Put(New(files, nil))

	var buf bytes.Buffer
	require.NoError(t, store.EncodeSnapshot(&buf))

	restored, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, restored.Len())
	assert.Equal(t, store.Labels(), restored.Labels())

	// The original value had two actions; the restored one has none at all.
	v, ok := restored.Get(gen)
	require.True(t, ok)
	assert.Equal(t, 0, v.NumActions())
	_, err = v.Actions()
	assert.ErrorIs(t, err, ErrActionsUnavailable)
}

func TestSnapshot_File(t *testing.T) {
	gen := mustLabel(t, "//lib:gen")
	store := NewStore()
	store.Put(New(gen, sampleActions(gen)))

	path := filepath.Join(t.TempDir(), "analysis.snap")
	require.NoError(t, store.SaveFile(path))

	restored, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())

	_, ok := restored.Get(gen)
	assert.True(t, ok)
}

func TestSnapshot_DecodeErrors(t *testing.T) {
	t.Run("garbage input", func(t *testing.T) {
		_, err := DecodeSnapshot(bytes.NewReader([]byte("not msgpack")))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.snap"))
		assert.Error(t, err)
	})
}

func TestStore_Basics(t *testing.T) {
	store := NewStore()
	assert.Equal(t, 0, store.Len())

	b := mustLabel(t, "//b:b")
	a := mustLabel(t, "//a:a")
	store.Put(New(b, nil))
	store.Put(New(a, nil))

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"//a:a", "//b:b"}, labelStrings(store.Labels()))

	_, ok := store.Get(mustLabel(t, "//c:c"))
	assert.False(t, ok)
}

func labelStrings(labels []label.Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}
