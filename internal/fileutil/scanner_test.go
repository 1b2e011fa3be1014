package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates files (and their parent directories) under root.
func buildTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))
	}
}

func relPaths(t *testing.T, root string, entries []Entry) []string {
	t.Helper()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestScan(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   a.txt
	//   sub/
	//     b.txt
	//     deep/
	//       c.txt
	//       deeper/
	//         d.txt
	buildTree(t, tmpDir,
		"a.txt",
		"sub/b.txt",
		"sub/deep/c.txt",
		"sub/deep/deeper/d.txt",
	)

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "depth 0 inspects root only",
			opts: ScanOptions{MaxDepth: 0},
			want: []string{"."},
		},
		{
			name: "depth 1",
			opts: ScanOptions{MaxDepth: 1},
			want: []string{".", "a.txt", "sub"},
		},
		{
			name: "depth 2",
			opts: ScanOptions{MaxDepth: 2},
			want: []string{".", "a.txt", "sub", "sub/b.txt", "sub/deep"},
		},
		{
			name: "unbounded",
			opts: ScanOptions{MaxDepth: Unbounded},
			want: []string{
				".", "a.txt", "sub", "sub/b.txt", "sub/deep", "sub/deep/c.txt",
				"sub/deep/deeper", "sub/deep/deeper/d.txt",
			},
		},
		{
			name: "files only",
			opts: ScanOptions{MaxDepth: Unbounded, Only: KindFile},
			want: []string{"a.txt", "sub/b.txt", "sub/deep/c.txt", "sub/deep/deeper/d.txt"},
		},
		{
			name: "dirs only",
			opts: ScanOptions{MaxDepth: Unbounded, Only: KindDir},
			want: []string{".", "sub", "sub/deep", "sub/deep/deeper"},
		},
		{
			name: "parallel workers give the same set",
			opts: ScanOptions{MaxDepth: Unbounded, Workers: 4},
			want: []string{
				".", "a.txt", "sub", "sub/b.txt", "sub/deep", "sub/deep/c.txt",
				"sub/deep/deeper", "sub/deep/deeper/d.txt",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Scan(tmpDir, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, tmpDir, result.Entries))
			assert.Empty(t, result.Errors)
		})
	}
}

func TestScan_DepthAndKind(t *testing.T) {
	tmpDir := t.TempDir()
	buildTree(t, tmpDir, "sub/file.txt")

	result, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded})
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)

	assert.Equal(t, Entry{Path: tmpDir, Depth: 0, Kind: KindDir}, result.Entries[0])
	assert.Equal(t, Entry{Path: filepath.Join(tmpDir, "sub"), Depth: 1, Kind: KindDir}, result.Entries[1])
	assert.Equal(t, Entry{Path: filepath.Join(tmpDir, "sub", "file.txt"), Depth: 2, Kind: KindFile}, result.Entries[2])
}

func TestScan_VisitsEachEntryOnce(t *testing.T) {
	tmpDir := t.TempDir()
	var files []string
	for _, d := range []string{"a", "b", "c", "a/x", "b/y", "c/z"} {
		files = append(files, d+"/f1.txt", d+"/f2.txt")
	}
	buildTree(t, tmpDir, files...)

	for _, workers := range []int{0, 1, 3, 16} {
		result, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded, Workers: workers})
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, e := range result.Entries {
			seen[e.Path]++
		}
		for path, n := range seen {
			assert.Equal(t, 1, n, "workers=%d visited %s %d times", workers, path, n)
		}
		// root + 6 dirs + 12 files
		assert.Len(t, result.Entries, 19, "workers=%d", workers)
	}
}

func TestScan_OrderIndependentOfWorkers(t *testing.T) {
	tmpDir := t.TempDir()
	buildTree(t, tmpDir, "b/1.txt", "a/2.txt", "c/d/3.txt", "c/e/4.txt", "top.txt")

	sequential, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded})
	require.NoError(t, err)
	parallel, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, sequential.Paths(), parallel.Paths())
}

func TestScan_FileRoot(t *testing.T) {
	tmpDir := t.TempDir()
	buildTree(t, tmpDir, "only.txt")
	root := filepath.Join(tmpDir, "only.txt")

	result, err := Scan(root, ScanOptions{MaxDepth: 5})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: root, Depth: 0, Kind: KindFile}}, result.Entries)

	result, err = Scan(root, ScanOptions{MaxDepth: 5, Only: KindDir})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestScan_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tmpDir := t.TempDir()
	buildTree(t, tmpDir, "real/file.txt")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real"), filepath.Join(tmpDir, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real", "file.txt"), filepath.Join(tmpDir, "linkfile.txt")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "missing"), filepath.Join(tmpDir, "broken")))

	result, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "real", "real/file.txt"}, relPaths(t, tmpDir, result.Entries))
}

func TestScan_UnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	tmpDir := t.TempDir()
	buildTree(t, tmpDir, "open/a.txt", "locked/b.txt")
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result, err := Scan(tmpDir, ScanOptions{MaxDepth: Unbounded})
	require.NoError(t, err)

	assert.Equal(t, []string{".", "locked", "open", "open/a.txt"}, relPaths(t, tmpDir, result.Entries))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "locked")
}

func TestScan_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := Scan(filepath.Join(t.TempDir(), "nope"), ScanOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid depth", func(t *testing.T) {
		_, err := Scan(t.TempDir(), ScanOptions{MaxDepth: -2})
		assert.Error(t, err)
	})
}

func TestEntryKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "dir", KindDir.String())
	assert.Equal(t, "any", KindAny.String())
}
