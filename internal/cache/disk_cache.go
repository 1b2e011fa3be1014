package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/findfile/internal/finder"
)

// DefaultMaxDepth is the traversal depth used for snapshots when none is
// configured.
const DefaultMaxDepth = 30

// DiskCache holds the absolute paths of every file and directory of a work
// directory, as found by one traversal. Recache replaces the list wholesale.
type DiskCache struct {
	finder   *finder.Finder
	workDir  string
	maxDepth int
	snap     *Snapshot
}

// NewDiskCache builds a cache for workDir. When workDir is not a directory it
// is used as a key to locate one under the finder's working directory; if
// that fails too a *finder.ConfigurationError is returned.
func NewDiskCache(f *finder.Finder, workDir string, maxDepth int) (*DiskCache, error) {
	dir, err := resolveWorkDir(f, workDir, maxDepth)
	if err != nil {
		return nil, err
	}

	c := &DiskCache{finder: f, workDir: dir, maxDepth: maxDepth}
	if err := c.Recache(); err != nil {
		return nil, err
	}
	return c, nil
}

// diskCacheFromSnapshot wraps a stored snapshot without traversing.
func diskCacheFromSnapshot(f *finder.Finder, s *Snapshot) *DiskCache {
	return &DiskCache{
		finder:   f,
		workDir:  s.WorkDir,
		maxDepth: s.MaxDepth,
		snap:     s.clone(),
	}
}

// resolveWorkDir returns the absolute work directory. An empty workDir is
// the finder's working directory.
func resolveWorkDir(f *finder.Finder, workDir string, maxDepth int) (string, error) {
	wd, err := f.WorkingDir()
	if err != nil {
		return "", &finder.ConfigurationError{
			Field:   "work_dir",
			Message: fmt.Sprintf("cannot determine working directory: %v", err),
		}
	}

	candidate := workDir
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(wd, candidate)
	}
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return filepath.Clean(candidate), nil
	}

	opts := finder.DefaultOptions()
	opts.Keys = []string{workDir}
	opts.MaxDepth = maxDepth
	opts.ReturnRelative = false
	opts.DisableAlert = true

	located, err := f.FindCwdDir(opts)
	if err != nil {
		return "", err
	}
	if located == "" {
		return "", &finder.ConfigurationError{
			Field:   "work_dir",
			Message: fmt.Sprintf("work directory %q not found", workDir),
		}
	}
	return located, nil
}

// Recache traverses the work directory again and replaces the cached paths.
// Files come first, then directories, each group sorted. The store's own
// files are left out even when the finder's ignore list does not name them.
func (c *DiskCache) Recache() error {
	opts := finder.DefaultOptions()
	opts.Root = c.workDir
	opts.MaxDepth = c.maxDepth
	opts.ReturnRelative = false
	opts.ReturnLeafOnly = false
	opts.DisableAlert = true

	files, err := c.finder.FindFiles(opts)
	if err != nil {
		return fmt.Errorf("failed to list files of %s: %w", c.workDir, err)
	}
	dirs, err := c.finder.FindDirs(opts)
	if err != nil {
		return fmt.Errorf("failed to list directories of %s: %w", c.workDir, err)
	}

	paths := make([]string, 0, len(files)+len(dirs))
	for _, p := range files {
		if !isStoreFile(filepath.Base(p)) {
			paths = append(paths, p)
		}
	}
	paths = append(paths, dirs...)
	c.snap = newSnapshot(c.workDir, c.maxDepth, paths)
	return nil
}

// WorkDir returns the absolute work directory.
func (c *DiskCache) WorkDir() string {
	return c.workDir
}

// MaxDepth returns the traversal depth of the cache.
func (c *DiskCache) MaxDepth() int {
	return c.maxDepth
}

// Len returns the number of cached paths.
func (c *DiskCache) Len() int {
	return len(c.snap.Paths)
}

// At returns the i-th cached path. It panics when i is out of range, like
// slice indexing.
func (c *DiskCache) At(i int) string {
	return c.snap.Paths[i]
}

// Paths returns a copy of the cached paths.
func (c *DiskCache) Paths() []string {
	return append([]string(nil), c.snap.Paths...)
}

// Snapshot returns a copy of the current snapshot.
func (c *DiskCache) Snapshot() *Snapshot {
	return c.snap.clone()
}
