package finder

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/harrison/findfile/internal/fileutil"
)

// RmFile removes the single file matching opts. When more than one file
// matches, nothing is removed and a *DeleteConflictError is returned.
// No match is not an error. The removed path is returned in the form
// selected by opts.ReturnRelative.
func (f *Finder) RmFile(opts Options) ([]string, error) {
	return f.remove(opts, fileutil.KindFile, true, nil)
}

// RmFiles removes every file matching opts.
func (f *Finder) RmFiles(opts Options) ([]string, error) {
	return f.remove(opts, fileutil.KindFile, false, nil)
}

// RmDir removes the single directory tree matching opts. Matches nested in
// another match count as one target. When more than one target remains,
// nothing is removed and a *DeleteConflictError is returned.
func (f *Finder) RmDir(opts Options) ([]string, error) {
	return f.remove(opts, fileutil.KindDir, true, nil)
}

// RmDirs removes every directory tree matching opts.
func (f *Finder) RmDirs(opts Options) ([]string, error) {
	return f.remove(opts, fileutil.KindDir, false, nil)
}

// RmCwdFiles is RmFiles rooted at the working directory.
func (f *Finder) RmCwdFiles(opts Options) ([]string, error) {
	opts.Root = ""
	return f.RmFiles(opts)
}

// RmCwdDirs is RmDirs rooted at the working directory.
func (f *Finder) RmCwdDirs(opts Options) ([]string, error) {
	opts.Root = ""
	return f.RmDirs(opts)
}

// RemovalTargets returns what the corresponding Rm call would delete, in the
// form selected by opts.ReturnRelative, without deleting anything. kind must
// be fileutil.KindFile or fileutil.KindDir; single selects RmFile/RmDir
// semantics, including the *DeleteConflictError.
func (f *Finder) RemovalTargets(opts Options, kind fileutil.EntryKind, single bool) ([]string, error) {
	if kind != fileutil.KindFile && kind != fileutil.KindDir {
		return nil, configError("kind", "removal needs file or dir, got %s", kind)
	}
	targets, err := f.targets(opts, kind, single)
	if err != nil {
		return nil, err
	}
	return f.present(opts, targets)
}

// targets resolves the absolute deletion targets of a remove call.
func (f *Finder) targets(opts Options, kind fileutil.EntryKind, single bool) ([]string, error) {
	if err := opts.validate(!single); err != nil {
		return nil, err
	}

	root, err := f.resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	matches, err := f.search(opts, kind)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		// The search root itself is never a deletion target
		if m == root {
			continue
		}
		targets = append(targets, m)
	}
	if kind == fileutil.KindDir {
		targets = topMost(targets)
	}
	sort.Strings(targets)

	if single && len(targets) > 1 {
		shown, perr := f.present(opts, targets)
		if perr != nil {
			shown = targets
		}
		return nil, &DeleteConflictError{Kind: kind.String(), Matches: shown}
	}
	return targets, nil
}

// RmConfirmed removes the targets of the corresponding Rm call that appear
// in confirmed, a list previously returned by RemovalTargets with the same
// opts. The search runs again: targets missing from confirmed are skipped
// with a warning, and confirmed paths that no longer match are left alone.
func (f *Finder) RmConfirmed(opts Options, kind fileutil.EntryKind, single bool, confirmed []string) ([]string, error) {
	if kind != fileutil.KindFile && kind != fileutil.KindDir {
		return nil, configError("kind", "removal needs file or dir, got %s", kind)
	}
	allowed := make(map[string]bool, len(confirmed))
	for _, p := range confirmed {
		allowed[p] = true
	}
	return f.remove(opts, kind, single, allowed)
}

// remove deletes the targets of opts. A nil allowed map deletes every
// target; otherwise only targets whose presented form is in allowed go.
func (f *Finder) remove(opts Options, kind fileutil.EntryKind, single bool, allowed map[string]bool) ([]string, error) {
	targets, err := f.targets(opts, kind, single)
	if err != nil {
		return nil, err
	}
	// Presented before deleting so a failure leaves the tree untouched
	shown, err := f.present(opts, targets)
	if err != nil {
		return nil, err
	}

	var (
		removed []string
		errs    []error
	)
	for i, target := range targets {
		if allowed != nil && !allowed[shown[i]] {
			f.logger.Warnf("skipped unconfirmed %s %s", kind, shown[i])
			continue
		}

		var rmErr error
		if kind == fileutil.KindDir {
			rmErr = os.RemoveAll(target)
		} else {
			rmErr = os.Remove(target)
		}
		if rmErr != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", target, rmErr))
			continue
		}
		f.logger.Infof("removed %s %s", kind, target)
		removed = append(removed, shown[i])
	}
	return removed, errors.Join(errs...)
}
