package finder

import (
	"strconv"
	"strings"

	"github.com/harrison/findfile/internal/fileutil"
	"github.com/harrison/findfile/internal/matcher"
)

const (
	// Unbounded disables the depth limit.
	Unbounded = fileutil.Unbounded

	// DefaultMaxDepth is the depth used when none is given. It is also the
	// depth the legacy boolean alias "true" stands for.
	DefaultMaxDepth = 5
)

// Options is one search request. It is passed by value and never modified
// by the Finder.
type Options struct {
	// Root is the traversal root; empty means the working directory
	Root string

	// Keys are conjunctive include keys; every key must occur in the path
	Keys []string

	// OrKeys is a disjunction of conjunctive key groups; mutually exclusive with Keys
	OrKeys [][]string

	// ExcludeKeys veto a path (OR semantics unless ExcludeMode is ExcludeAll)
	ExcludeKeys []string

	// ExcludeMode selects OR (default) or legacy AND exclusion
	ExcludeMode matcher.ExcludeMode

	// UseRegex treats keys as case-insensitive regular expressions
	UseRegex bool

	// MaxDepth limits hops from Root (0 = root only, Unbounded = no limit)
	MaxDepth int

	// ReturnRelative rewrites results relative to the working directory
	ReturnRelative bool

	// ReturnDeepest makes single-result searches pick the longest match
	ReturnDeepest bool

	// DisableAlert suppresses ambiguity and pattern warnings
	DisableAlert bool

	// ReturnLeafOnly drops ancestor directories from FindDirs results
	ReturnLeafOnly bool
}

// DefaultOptions returns Options with the documented defaults: working
// directory root, depth 5, relative paths, leaf-only directory results and
// OR exclusion.
func DefaultOptions() Options {
	return Options{
		MaxDepth:       DefaultMaxDepth,
		ReturnRelative: true,
		ReturnLeafOnly: true,
		ExcludeMode:    matcher.ExcludeAny,
	}
}

// DepthFromBool converts the legacy boolean depth alias: true means
// DefaultMaxDepth, false means root only.
func DepthFromBool(recursive bool) int {
	if recursive {
		return DefaultMaxDepth
	}
	return 0
}

// ParseDepth parses a depth given as an integer, a boolean alias
// ("true"/"false") or "unbounded".
func ParseDepth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true":
		return DepthFromBool(true), nil
	case "false":
		return DepthFromBool(false), nil
	case "unbounded", "inf", "-1":
		return Unbounded, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, configError("max_depth", "invalid depth %q, want a non-negative integer, true, false or unbounded", s)
	}
	return n, nil
}

// validate checks the options without touching the filesystem. multi is
// true for the multi-result operations.
func (o Options) validate(multi bool) error {
	if nonEmpty(o.Keys) && len(o.OrKeys) > 0 {
		return configError("or_key", "cannot be combined with key/and_key")
	}
	if multi && o.ReturnDeepest {
		return configError("return_deepest_path", "only valid for single-result searches (FindFile, FindDir)")
	}
	if o.MaxDepth < Unbounded {
		return configError("max_depth", "must be >= 0 or Unbounded, got %d", o.MaxDepth)
	}
	if o.ExcludeMode != matcher.ExcludeAny && o.ExcludeMode != matcher.ExcludeAll {
		return configError("exclude_mode", "unknown mode %d", o.ExcludeMode)
	}
	return nil
}

// groups returns the include key groups as a disjunction.
func (o Options) groups() [][]string {
	if len(o.OrKeys) > 0 {
		return o.OrKeys
	}
	return [][]string{o.Keys}
}

func nonEmpty(keys []string) bool {
	for _, k := range keys {
		if k != "" {
			return true
		}
	}
	return false
}
