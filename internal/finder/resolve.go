package finder

import "path/filepath"

// resolveSingle picks one path out of several matches: the shortest path
// string, or the longest when deepest is set. Ties go to the match that was
// encountered first.
func resolveSingle(matches []string, deepest bool) string {
	chosen := matches[0]
	for _, m := range matches[1:] {
		if deepest && len(m) > len(chosen) {
			chosen = m
		}
		if !deepest && len(m) < len(chosen) {
			chosen = m
		}
	}
	return chosen
}

// leafOnly drops every directory that is a strict ancestor of another
// directory in dirs. Order of the survivors is preserved.
func leafOnly(dirs []string) []string {
	set := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		set[filepath.Clean(d)] = true
	}

	ancestors := make(map[string]bool)
	for _, d := range dirs {
		for _, parent := range parents(filepath.Clean(d)) {
			if set[parent] {
				ancestors[parent] = true
			}
		}
	}

	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !ancestors[filepath.Clean(d)] {
			out = append(out, d)
		}
	}
	return out
}

// topMost drops every path that has an ancestor in paths. It is the
// inverse of leafOnly and is used before recursive deletion.
func topMost(paths []string) []string {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = true
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		covered := false
		for _, parent := range parents(filepath.Clean(p)) {
			if set[parent] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
		}
	}
	return out
}

// parents returns the strict ancestors of a cleaned path, nearest first.
func parents(path string) []string {
	var out []string
	for {
		parent := filepath.Dir(path)
		if parent == path || parent == "." {
			return out
		}
		out = append(out, parent)
		path = parent
	}
}
