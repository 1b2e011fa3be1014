package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Unbounded disables the depth limit of a scan.
const Unbounded = -1

// EntryKind distinguishes files from directories.
type EntryKind int

const (
	// KindAny is only meaningful as a filter: emit both files and directories
	KindAny EntryKind = iota
	// KindFile is a regular (non-directory, non-symlink) entry
	KindFile
	// KindDir is a directory
	KindDir
)

// String returns the string representation of EntryKind.
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "any"
	}
}

// Entry is one filesystem entry visited during a scan.
type Entry struct {
	// Path is the root joined with the entry's relative location
	Path string
	// Depth is the number of hops from the root (root = 0)
	Depth int
	// Kind is KindFile or KindDir
	Kind EntryKind
}

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// MaxDepth limits hops from the root (0 = root only, Unbounded = no limit)
	MaxDepth int
	// Only restricts emitted entries to one kind (KindAny = both)
	Only EntryKind
	// Workers lists the directories of one level concurrently when > 1
	Workers int
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Entries contains every emitted entry in breadth-first, name-sorted order
	Entries []Entry
	// Errors contains directories that could not be listed
	Errors []error
}

// Paths returns the entry paths in scan order.
func (r *ScanResult) Paths() []string {
	paths := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// pending is a directory waiting to be listed.
type pending struct {
	path  string
	depth int
}

// listing is the outcome of listing one pending directory.
type listing struct {
	entries []Entry
	dirs    []pending
	err     error
}

// Scan walks root breadth-first up to opts.MaxDepth and returns every file
// and directory it reaches. The root itself is the depth-0 entry.
//
// Symbolic links found below the root are neither emitted nor followed, and
// entries that vanish before they can be inspected are skipped. A directory
// that cannot be listed is recorded in ScanResult.Errors and the scan
// continues with its siblings. Only a root that cannot be stat-ed is fatal.
func Scan(root string, opts ScanOptions) (*ScanResult, error) {
	if opts.MaxDepth < Unbounded {
		return nil, fmt.Errorf("invalid max depth %d", opts.MaxDepth)
	}

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}

	result := &ScanResult{
		Entries: make([]Entry, 0),
		Errors:  make([]error, 0),
	}

	if !info.IsDir() {
		if opts.Only != KindDir {
			result.Entries = append(result.Entries, Entry{Path: root, Depth: 0, Kind: KindFile})
		}
		return result, nil
	}

	if opts.Only != KindFile {
		result.Entries = append(result.Entries, Entry{Path: root, Depth: 0, Kind: KindDir})
	}

	level := []pending{{path: root, depth: 0}}
	for len(level) > 0 {
		if !withinDepth(level[0].depth, opts.MaxDepth) {
			break
		}

		listings := listLevel(level, opts)

		var next []pending
		for _, l := range listings {
			if l.err != nil {
				result.Errors = append(result.Errors, l.err)
				continue
			}
			result.Entries = append(result.Entries, l.entries...)
			next = append(next, l.dirs...)
		}
		level = next
	}

	return result, nil
}

// withinDepth reports whether a directory at depth may be listed, i.e.
// whether its children (depth+1) are still within maxDepth.
func withinDepth(depth, maxDepth int) bool {
	return maxDepth == Unbounded || depth < maxDepth
}

// listLevel lists every directory of one level. Results are indexed by
// position so the output order does not depend on the number of workers.
func listLevel(level []pending, opts ScanOptions) []listing {
	out := make([]listing, len(level))

	if opts.Workers <= 1 || len(level) == 1 {
		for i, p := range level {
			out[i] = listDir(p, opts.Only)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, p := range level {
		g.Go(func() error {
			out[i] = listDir(p, opts.Only)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// listDir reads one directory and classifies its children.
func listDir(p pending, only EntryKind) listing {
	dirEntries, err := os.ReadDir(p.path)
	if err != nil {
		return listing{err: fmt.Errorf("error accessing %s: %w", p.path, err)}
	}

	var l listing
	childDepth := p.depth + 1
	for _, d := range dirEntries {
		if d.Type()&fs.ModeSymlink != 0 {
			continue
		}

		// Info lstat-s the entry; failure means it vanished after listing
		info, err := d.Info()
		if err != nil || info.Mode()&fs.ModeSymlink != 0 {
			continue
		}

		path := filepath.Join(p.path, d.Name())
		if info.IsDir() {
			l.dirs = append(l.dirs, pending{path: path, depth: childDepth})
			if only != KindFile {
				l.entries = append(l.entries, Entry{Path: path, Depth: childDepth, Kind: KindDir})
			}
			continue
		}

		if only != KindDir {
			l.entries = append(l.entries, Entry{Path: path, Depth: childDepth, Kind: KindFile})
		}
	}

	return l
}
