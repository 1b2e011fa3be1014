// Package matcher decides whether a single path satisfies a set of include
// keys and is not vetoed by a set of exclude keys.
//
// Keys are either literal substrings or regular expressions. All comparisons
// are case-insensitive. Include keys are conjunctive: every key must occur in
// the path. Exclude keys are disjunctive by default (any key vetoes the path);
// the legacy conjunctive mode (veto only when every key occurs) is available
// through ExcludeAll.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// Verdict is the outcome of matching one path.
type Verdict int

const (
	// Excluded means the path failed the include keys or was vetoed by an exclude key.
	Excluded Verdict = iota
	// Included means the path satisfied the include keys and no exclude key vetoed it.
	Included
)

// String returns the string representation of Verdict.
func (v Verdict) String() string {
	switch v {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// ExcludeMode selects how multiple exclude keys combine.
type ExcludeMode int

const (
	// ExcludeAny vetoes a path when any exclude key is found in it.
	ExcludeAny ExcludeMode = iota
	// ExcludeAll vetoes a path only when every exclude key is found in it.
	ExcludeAll
)

// String returns the string representation of ExcludeMode.
func (m ExcludeMode) String() string {
	switch m {
	case ExcludeAny:
		return "any"
	case ExcludeAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseExcludeMode converts "any"/"or" and "all"/"and" to an ExcludeMode.
// An empty string yields ExcludeAny.
func ParseExcludeMode(s string) (ExcludeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "or":
		return ExcludeAny, nil
	case "all", "and":
		return ExcludeAll, nil
	default:
		return ExcludeAny, fmt.Errorf("invalid exclude mode %q, must be one of: any, all", s)
	}
}

// PatternError reports a key that could not be compiled as a regular
// expression. The key is matched as a literal substring instead.
type PatternError struct {
	Key string
	Err error
}

// Error implements the error interface for PatternError.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex key %q, matching it literally: %v", e.Key, e.Err)
}

// Unwrap returns the underlying regexp error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// CompileOptions configures how keys are interpreted.
type CompileOptions struct {
	// UseRegex treats keys as regular expressions instead of literal substrings
	UseRegex bool
	// ExcludeMode selects OR (default) or legacy AND semantics for exclude keys
	ExcludeMode ExcludeMode
	// Always lists literal keys that veto a path regardless of ExcludeMode
	Always []string
}

// key is a single compiled key.
type key struct {
	raw     string
	literal string
	re      *regexp.Regexp
}

func (k key) foundIn(path, lowered string) bool {
	if k.re != nil {
		return k.re.MatchString(path)
	}
	return strings.Contains(lowered, k.literal)
}

// Matcher evaluates paths against compiled include groups and exclude keys.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	groups  [][]key
	exclude []key
	always  []key
	mode    ExcludeMode
}

// Compile builds a Matcher with a single conjunctive include group.
// Regex keys that fail to compile fall back to literal matching and are
// reported in the returned slice; they never cause Compile to fail.
func Compile(include, exclude []string, opts CompileOptions) (*Matcher, []*PatternError) {
	return CompileGroups([][]string{include}, exclude, opts)
}

// CompileGroups builds a Matcher from a disjunction of include groups.
// A path is included when every key of at least one group is found in it.
// An empty group list, or any empty group, matches every path.
func CompileGroups(groups [][]string, exclude []string, opts CompileOptions) (*Matcher, []*PatternError) {
	var problems []*PatternError
	compileAll := func(raw []string, regex bool) []key {
		keys := make([]key, 0, len(raw))
		for _, r := range raw {
			if r == "" {
				continue
			}
			k, perr := compileKey(r, regex)
			if perr != nil {
				problems = append(problems, perr)
			}
			keys = append(keys, k)
		}
		return keys
	}

	m := &Matcher{mode: opts.ExcludeMode}
	if len(groups) == 0 {
		groups = [][]string{nil}
	}
	for _, g := range groups {
		m.groups = append(m.groups, compileAll(g, opts.UseRegex))
	}
	m.exclude = compileAll(exclude, opts.UseRegex)
	m.always = compileAll(opts.Always, false)

	return m, problems
}

// compileKey compiles one key. On regex failure the literal key is returned
// together with a PatternError.
func compileKey(raw string, regex bool) (key, *PatternError) {
	k := key{raw: raw, literal: strings.ToLower(raw)}
	if !regex {
		return k, nil
	}
	re, err := regexp.Compile("(?i)" + raw)
	if err != nil {
		return k, &PatternError{Key: raw, Err: err}
	}
	k.re = re
	return k, nil
}

// Match returns Included when path satisfies the include groups and is not
// vetoed by an exclude key. Exclusion always wins.
func (m *Matcher) Match(path string) Verdict {
	lowered := strings.ToLower(path)

	for _, k := range m.always {
		if k.foundIn(path, lowered) {
			return Excluded
		}
	}

	if m.excluded(path, lowered) {
		return Excluded
	}

	for _, group := range m.groups {
		if allFound(group, path, lowered) {
			return Included
		}
	}
	return Excluded
}

// Matches reports whether Match(path) is Included.
func (m *Matcher) Matches(path string) bool {
	return m.Match(path) == Included
}

func (m *Matcher) excluded(path, lowered string) bool {
	if len(m.exclude) == 0 {
		return false
	}
	if m.mode == ExcludeAll {
		return allFound(m.exclude, path, lowered)
	}
	for _, k := range m.exclude {
		if k.foundIn(path, lowered) {
			return true
		}
	}
	return false
}

// allFound reports whether every key occurs in the path. An empty key set
// is trivially satisfied.
func allFound(keys []key, path, lowered string) bool {
	for _, k := range keys {
		if !k.foundIn(path, lowered) {
			return false
		}
	}
	return true
}
