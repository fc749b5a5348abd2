package cache

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"uno/internal/project"
)

func TestPutGet(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	require.NoError(t, err)

	key := Key(sha256.Sum256([]byte("<p class=\"a\">")), project.Default().Fingerprint(), "diag")
	var got Payload
	found, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(key, &Payload{Path: "a.html", Sites: 1, Clean: true}))
	found, err = c.Get(key, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Payload{Schema: schemaVersion, Path: "a.html", Sites: 1, Clean: true}, got)

	// временные файлы не остаются рядом с записью
	entries, err := os.ReadDir(filepath.Dir(c.pathFor(key)))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestKeyDependsOnEveryPart(t *testing.T) {
	content := sha256.Sum256([]byte("x"))
	fp := project.Default().Fingerprint()
	base := Key(content, fp, "fmt")
	assert.NotEqual(t, base, Key(content, fp, "diag"))
	assert.NotEqual(t, base, Key(sha256.Sum256([]byte("y")), fp, "fmt"))
	merged := project.Default()
	merged.Output.Merge = true
	assert.NotEqual(t, base, Key(content, merged.Fingerprint(), "fmt"))
	assert.Equal(t, base, Key(content, fp, "fmt"))
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	require.NoError(t, err)
	key := Key(sha256.Sum256([]byte("z")), project.Digest{}, "fmt")
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))

	// запись старой схемы
	data, err := msgpack.Marshal(&Payload{Schema: schemaVersion + 1, Path: "z.go", Clean: true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, data, 0o600))

	var got Payload
	found, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCorruptEntry(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	require.NoError(t, err)
	key := Key(sha256.Sum256([]byte("c")), project.Digest{}, "fmt")
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o600))

	var got Payload
	_, err = c.Get(key, &got)
	assert.Error(t, err)
}

func TestDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uno")
	c, err := OpenDir(dir)
	require.NoError(t, err)
	key := Key(sha256.Sum256([]byte("d")), project.Digest{}, "fmt")
	require.NoError(t, c.Put(key, &Payload{Clean: true}))
	require.NoError(t, c.DropAll())

	var got Payload
	found, err := c.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.DirExists(t, dir)
}

func TestNilCache(t *testing.T) {
	var c *Disk
	assert.NoError(t, c.Put(project.Digest{}, &Payload{}))
	found, err := c.Get(project.Digest{}, &Payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.DropAll())
	assert.Equal(t, "", c.Dir())
}

func TestOpenUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c, err := Open("uno")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "uno"), c.Dir())
}
