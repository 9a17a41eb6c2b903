package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPackAndRead(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "index.json"), `{"categories":["Tafsir"]}`)
	write(t, filepath.Join(root, "video", "v1.json"), `{"id":"v1"}`)
	write(t, filepath.Join(root, "categories", "Fiqh & Usul", "date", "page-1.json"), `{"items":[]}`)
	write(t, filepath.Join(root, "README.md"), "not a fragment")

	out := filepath.Join(t.TempDir(), "bundle", "content.db")
	n, err := Pack(root, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, err := OpenBundle(out)
	require.NoError(t, err)
	defer b.Close()

	data, ok := b.Get("/video/v1.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"v1"}`, string(data))

	_, ok = b.Get("/README.md")
	assert.False(t, ok)

	_, ok = b.Get("/categories/Fiqh & Usul/date/page-1.json")
	assert.True(t, ok)

	assert.Equal(t, []string{"/video/v1.json"}, b.Keys("/video/"))

	_, ok = b.PackedAt()
	assert.True(t, ok)
	assert.Equal(t, out, b.Path())
}

func TestPackRejectsInvalidJSON(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "index.json"), `{broken`)

	_, err := Pack(root, filepath.Join(t.TempDir(), "content.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestPackReplacesExistingBundle(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "content.db")

	write(t, filepath.Join(root, "a.json"), `1`)
	_, err := Pack(root, out)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "a.json")))
	write(t, filepath.Join(root, "b.json"), `2`)
	n, err := Pack(root, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, err := OpenBundle(out)
	require.NoError(t, err)
	defer b.Close()
	_, ok := b.Get("/a.json")
	assert.False(t, ok)
}

func TestOpenBundleMissing(t *testing.T) {
	_, err := OpenBundle(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}
