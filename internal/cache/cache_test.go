package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/minidoc/internal/model"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, path
}

func sampleEntry() model.Entry {
	var tags model.Tags
	tags.Add("param", "{number} a - - first")
	tags.Add("returns", "{number} - sum")
	tags.Add("param", "{number} b - - second")
	decl := model.Declaration{Kind: model.MethodDefinition, Name: "add", Start: 80, End: 120}
	return model.NewEntry("src/calc.js", decl, model.Jsdoc{Description: "Adds.", Tags: tags})
}

func TestGetPut(t *testing.T) {
	t.Parallel()
	c, _ := openTemp(t)

	key := Key("src/calc.js", "fp", []byte("code"))
	_, ok := c.Get(key)
	assert.False(t, ok)

	want := []model.Entry{sampleEntry()}
	require.NoError(t, c.Put(key, want))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"param", "returns"}, got[0].Doc.Tags.Names())
	assert.Equal(t, 1, c.Len())
}

func TestEmptyResultIsCached(t *testing.T) {
	t.Parallel()
	c, _ := openTemp(t)

	key := Key("a.js", "", nil)
	require.NoError(t, c.Put(key, nil))
	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := Key("a.js", "fp", []byte("x"))
	assert.Equal(t, base, Key("a.js", "fp", []byte("x")))
	assert.NotEqual(t, base, Key("b.js", "fp", []byte("x")))
	assert.NotEqual(t, base, Key("a.js", "other", []byte("x")))
	assert.NotEqual(t, base, Key("a.js", "fp", []byte("y")))
}

func TestPrune(t *testing.T) {
	t.Parallel()
	c, _ := openTemp(t)

	require.NoError(t, c.Put("keep", nil))
	require.NoError(t, c.Put("drop1", nil))
	require.NoError(t, c.Put("drop2", nil))

	n, err := c.Prune(map[string]struct{}{"keep": {}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("keep")
	assert.True(t, ok)
}

func TestReopen(t *testing.T) {
	t.Parallel()
	c, path := openTemp(t)

	want := []model.Entry{sampleEntry()}
	require.NoError(t, c.Put("k", want))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()
	got, ok := c2.Get("k")
	require.True(t, ok)
	assert.Equal(t, want, got)
}
