package finder

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/harrison/findfile/internal/fileutil"
	"github.com/harrison/findfile/internal/matcher"
)

// Logger receives the non-fatal notices a search produces: ambiguous
// single-result matches, regex keys that fell back to literal matching, and
// directories that could not be listed.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warnf(format string, args ...interface{})  {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Debugf(format string, args ...interface{}) {}

// DefaultIgnoreList returns the sentinel names that are excluded from every
// search: the ignore marker and the disk cache snapshot files.
func DefaultIgnoreList() []string {
	return []string{".findfile_ignore", ".findfile_disk_cache"}
}

// Alert describes a single-result search that matched several paths.
type Alert struct {
	Kind    string   // "file" or "dir"
	Policy  string   // "shortest" or "deepest"
	Chosen  string   // The returned match
	Matches []string // Every match, in encounter order
}

// Finder runs searches. Its ignore list, logger and worker count are fixed at
// construction; a Finder holds no per-search state and is safe for
// concurrent use.
type Finder struct {
	ignore  []string
	logger  Logger
	workers int
	workDir string
	alert   func(Alert)
}

// Option configures a Finder.
type Option func(*Finder)

// WithIgnoreList replaces the default ignore list.
func WithIgnoreList(names []string) Option {
	return func(f *Finder) {
		f.ignore = append([]string(nil), names...)
	}
}

// WithLogger sets the logger that receives warnings. A nil logger discards them.
func WithLogger(l Logger) Option {
	return func(f *Finder) {
		if l == nil {
			l = noopLogger{}
		}
		f.logger = l
	}
}

// WithAlertHandler replaces the default ambiguity warning, a Warnf on the
// logger, with h.
func WithAlertHandler(h func(Alert)) Option {
	return func(f *Finder) {
		f.alert = h
	}
}

// WithWorkers lists up to n directories of the same level concurrently.
func WithWorkers(n int) Option {
	return func(f *Finder) {
		f.workers = n
	}
}

// WithWorkingDir pins the directory used for empty roots, relative roots
// and relative results. By default the process working directory is used.
func WithWorkingDir(dir string) Option {
	return func(f *Finder) {
		f.workDir = dir
	}
}

// New creates a Finder.
func New(opts ...Option) *Finder {
	f := &Finder{
		ignore: DefaultIgnoreList(),
		logger: noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// IgnoreList returns a copy of the sentinel names excluded from every search.
func (f *Finder) IgnoreList() []string {
	return append([]string(nil), f.ignore...)
}

// WorkingDir returns the directory searches resolve relative paths against.
func (f *Finder) WorkingDir() (string, error) {
	if f.workDir != "" {
		return filepath.Abs(f.workDir)
	}
	return os.Getwd()
}

// FindFiles returns every file under opts.Root matching the keys, sorted.
func (f *Finder) FindFiles(opts Options) ([]string, error) {
	return f.findMany(opts, fileutil.KindFile)
}

// FindDirs returns every directory under opts.Root matching the keys, sorted.
// With ReturnLeafOnly, matches that are ancestors of other matches are dropped.
func (f *Finder) FindDirs(opts Options) ([]string, error) {
	return f.findMany(opts, fileutil.KindDir)
}

// FindFile returns the single best file match, or "" when nothing matches.
func (f *Finder) FindFile(opts Options) (string, error) {
	return f.findOne(opts, fileutil.KindFile)
}

// FindDir returns the single best directory match, or "" when nothing matches.
func (f *Finder) FindDir(opts Options) (string, error) {
	return f.findOne(opts, fileutil.KindDir)
}

// FindCwdFiles is FindFiles rooted at the working directory.
func (f *Finder) FindCwdFiles(opts Options) ([]string, error) {
	opts.Root = ""
	return f.FindFiles(opts)
}

// FindCwdFile is FindFile rooted at the working directory.
func (f *Finder) FindCwdFile(opts Options) (string, error) {
	opts.Root = ""
	return f.FindFile(opts)
}

// FindCwdDirs is FindDirs rooted at the working directory.
func (f *Finder) FindCwdDirs(opts Options) ([]string, error) {
	opts.Root = ""
	return f.FindDirs(opts)
}

// FindCwdDir is FindDir rooted at the working directory.
func (f *Finder) FindCwdDir(opts Options) (string, error) {
	opts.Root = ""
	return f.FindDir(opts)
}

func (f *Finder) findMany(opts Options, kind fileutil.EntryKind) ([]string, error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}

	matches, err := f.search(opts, kind)
	if err != nil {
		return nil, err
	}

	if kind == fileutil.KindDir && opts.ReturnLeafOnly {
		matches = leafOnly(matches)
	}
	sort.Strings(matches)

	return f.present(opts, matches)
}

func (f *Finder) findOne(opts Options, kind fileutil.EntryKind) (string, error) {
	if err := opts.validate(false); err != nil {
		return "", err
	}

	matches, err := f.search(opts, kind)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}

	chosen := resolveSingle(matches, opts.ReturnDeepest)
	if len(matches) > 1 && !opts.DisableAlert {
		policy := "shortest"
		if opts.ReturnDeepest {
			policy = "deepest"
		}
		f.raise(Alert{Kind: kind.String(), Policy: policy, Chosen: chosen, Matches: matches})
	}

	out, err := f.present(opts, []string{chosen})
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (f *Finder) raise(a Alert) {
	if f.alert != nil {
		f.alert(a)
		return
	}
	f.logger.Warnf("multiple %ss matched (%d), returning the %s: %s; matches: %v",
		a.Kind, len(a.Matches), a.Policy, a.Chosen, a.Matches)
}

// search walks the root and returns the absolute paths of the matching
// entries in the order they were first encountered, without duplicates.
// Options must already be validated.
func (f *Finder) search(opts Options, kind fileutil.EntryKind) ([]string, error) {
	root, err := f.resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	m, problems := matcher.CompileGroups(opts.groups(), opts.ExcludeKeys, matcher.CompileOptions{
		UseRegex:    opts.UseRegex,
		ExcludeMode: opts.ExcludeMode,
		Always:      f.ignore,
	})
	if !opts.DisableAlert {
		for _, p := range problems {
			f.logger.Warnf("%v", p)
		}
	}

	result, err := fileutil.Scan(root, fileutil.ScanOptions{
		MaxDepth: opts.MaxDepth,
		Only:     kind,
		Workers:  f.workers,
	})
	if err != nil {
		// An unreadable root yields an empty result, not an error
		f.logger.Debugf("skipping search root %s: %v", root, err)
		return []string{}, nil
	}
	for _, scanErr := range result.Errors {
		f.logger.Debugf("skipped: %v", scanErr)
	}

	seen := make(map[string]bool)
	matches := make([]string, 0)
	for _, e := range result.Entries {
		if seen[e.Path] || !m.Matches(e.Path) {
			continue
		}
		seen[e.Path] = true
		matches = append(matches, e.Path)
	}

	return matches, nil
}

// resolveRoot returns the absolute, cleaned traversal root.
func (f *Finder) resolveRoot(root string) (string, error) {
	if filepath.IsAbs(root) {
		return filepath.Clean(root), nil
	}
	wd, err := f.WorkingDir()
	if err != nil {
		return "", configError("root", "cannot determine working directory: %v", err)
	}
	return filepath.Join(wd, root), nil
}

// present rewrites absolute paths relative to the working directory when
// opts.ReturnRelative is set.
func (f *Finder) present(opts Options, paths []string) ([]string, error) {
	if !opts.ReturnRelative {
		return paths, nil
	}

	wd, err := f.WorkingDir()
	if err != nil {
		return nil, configError("return_relative_path", "cannot determine working directory: %v", err)
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(wd, p)
		if err != nil {
			// Different volume: keep the absolute form
			rel = p
		}
		out = append(out, rel)
	}
	return out, nil
}
