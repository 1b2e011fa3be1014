package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/findfile/internal/finder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenManager_BuildsAndSaves(t *testing.T) {
	f, dir := newTestFinder(t)
	makeTree(t, dir, "a.txt")
	store := NewYAMLStore(0)

	m, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)
	assert.Equal(t, dir, m.WorkDir())

	saved, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Cache().Snapshot().ID, saved.ID)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), dir}, saved.Paths)
}

func TestOpenManager_ReusesSnapshot(t *testing.T) {
	f, dir := newTestFinder(t)
	makeTree(t, dir, "a.txt")
	store := NewYAMLStore(0)

	first, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)

	makeTree(t, dir, "b.txt")
	second, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)

	assert.Equal(t, first.Cache().Snapshot().ID, second.Cache().Snapshot().ID)
	assert.NotContains(t, second.Cache().Paths(), filepath.Join(dir, "b.txt"))

	// A different depth invalidates the stored snapshot
	third, err := OpenManager(f, store, dir, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.Cache().Snapshot().ID, third.Cache().Snapshot().ID)
	assert.Contains(t, third.Cache().Paths(), filepath.Join(dir, "b.txt"))
}

func TestOpenManager_SnapshotFileNotCached(t *testing.T) {
	f, dir := newTestFinder(t)
	makeTree(t, dir, "a.txt")
	store := NewYAMLStore(0)

	m, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)
	require.NoError(t, m.Recache())

	for _, p := range m.Cache().Paths() {
		assert.NotContains(t, filepath.Base(p), ".findfile_disk_cache")
	}
}

func TestManager_Recache(t *testing.T) {
	f, dir := newTestFinder(t)
	makeTree(t, dir, "a.txt")
	store, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	m, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)

	makeTree(t, dir, "b.txt")
	require.NoError(t, m.Recache())

	saved, err := store.Load(dir)
	require.NoError(t, err)
	assert.Contains(t, saved.Paths, filepath.Join(dir, "b.txt"))
	assert.Equal(t, m.Cache().Snapshot().ID, saved.ID)
}

func TestManager_ReadLines(t *testing.T) {
	f, dir := newTestFinder(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.TXT"), []byte("three"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.md"), []byte("# heading\n"), 0644))

	m, err := OpenManager(f, NewYAMLStore(0), dir, DefaultMaxDepth)
	require.NoError(t, err)

	lines, err := m.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)

	lines, err = m.ReadLines(".MD")
	require.NoError(t, err)
	assert.Equal(t, []string{"# heading"}, lines)

	lines, err = m.ReadLines("go")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestManager_ReadSkipsVanishedFiles(t *testing.T) {
	f, dir := newTestFinder(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("two\n"), 0644))

	m, err := OpenManager(f, NewYAMLStore(0), dir, DefaultMaxDepth)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))

	content, err := m.Read("txt")
	require.NoError(t, err)
	assert.Equal(t, "two\n", content)
}

func TestManager_WriteLines(t *testing.T) {
	f, dir := newTestFinder(t)
	makeTree(t, dir, "a.txt", "sub/b.txt", "c.md")

	m, err := OpenManager(f, NewYAMLStore(0), dir, DefaultMaxDepth)
	require.NoError(t, err)

	written, err := m.WriteLines("fresh\n", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "sub", "b.txt")}, written)

	written, err = m.WriteLines("more\n", true, "txt")
	require.NoError(t, err)
	assert.Len(t, written, 2)

	data, err := os.ReadFile(filepath.Join(dir, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fresh\nmore\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "c.md"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

func TestOpenManager_CustomIgnoreStillSkipsSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	f := finder.New(finder.WithWorkingDir(dir), finder.WithIgnoreList([]string{"node_modules"}))
	makeTree(t, dir, "a.txt", "node_modules/dep.js")
	store := NewYAMLStore(0)

	m, err := OpenManager(f, store, dir, DefaultMaxDepth)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, SnapshotFileName))
	require.NoError(t, m.Recache())

	want := []string{filepath.Join(dir, "a.txt"), dir}
	assert.Equal(t, want, m.Cache().Paths())

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	assert.NotContains(t, loaded.Paths, filepath.Join(dir, SnapshotFileName))
	assert.NotContains(t, loaded.Paths, filepath.Join(dir, SnapshotFileName+".lock"))
}
