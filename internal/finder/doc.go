// Package finder is the path-matching traversal engine behind findfile.
//
// A Finder walks a root with fileutil.Scan, matches every visited entry
// against the include and exclude keys of an Options value, and shapes the
// matches into a result:
//
//   - FindFiles and FindDirs return every match, sorted. FindDirs drops
//     ancestors of other matches when ReturnLeafOnly is set.
//   - FindFile and FindDir resolve several matches to one: the shortest path,
//     or the longest with ReturnDeepest. A warning lists the alternatives
//     unless DisableAlert is set.
//   - The Rm* helpers remove what the corresponding search finds. Singular
//     forms refuse to delete anything when more than one target matches.
//
// Keys are matched against the absolute path of each entry. Contradictory
// options are rejected with a *ConfigurationError before the filesystem is
// touched.
package finder
