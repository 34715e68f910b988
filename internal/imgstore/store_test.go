package imgstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdchart/internal/imgstore"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := imgstore.New(memoryfs.New())

	ok, err := store.Exists("img/123.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write("img/123.png", []byte("png")))

	ok, err = store.Exists("img/123.png")
	require.NoError(t, err)
	assert.True(t, ok)

	size, err := store.Size("img/123.png")
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestMemoryStoreEmptyFileIsNotCached(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	require.NoError(t, fsys.WriteFile("456.png", nil, 0o644))

	ok, err := imgstore.New(fsys).Exists("456.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDirectory(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	require.NoError(t, fsys.MkdirAll("img/789.png", 0o755))

	_, err := imgstore.New(fsys).Exists("img/789.png")
	assert.ErrorIs(t, err, imgstore.ErrIsDir)
}

func TestOSStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := filepath.Join(dir, "nested", "img", "42.svg")
	store := imgstore.OS()

	require.NoError(t, store.Write(name, []byte("<svg/>")))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	ok, err := store.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := os.ReadDir(filepath.Dir(name))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are renamed away")

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestOSStoreMissing(t *testing.T) {
	t.Parallel()

	ok, err := imgstore.OS().Exists(filepath.Join(t.TempDir(), "none.png"))
	require.NoError(t, err)
	assert.False(t, ok)
}
