// Package fileutil provides the depth-bounded directory walker used by every
// search in findfile.
//
// # Purpose
//
// Scan enumerates the entries below a root up to a maximum number of hops and
// returns them as Entry values carrying their depth and kind. It performs no
// matching: callers filter the entries themselves.
//
// # Traversal
//
// The walk is an explicit breadth-first worklist of (path, depth) items
// processed one level at a time. The root is depth 0, its children depth 1,
// and so on. With MaxDepth 0 only the root is inspected; with Unbounded the
// whole tree is walked.
//
//	result, err := fileutil.Scan("/path/to/project", fileutil.ScanOptions{
//	    MaxDepth: 3,
//	    Only:     fileutil.KindFile,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range result.Entries {
//	    fmt.Println(e.Depth, e.Path)
//	}
//
// # Error Tolerance
//
// Directories that cannot be listed (permission denied, removed mid-walk) are
// collected in ScanResult.Errors and skipped. Entries that vanish between
// listing and inspection are dropped silently. Only an inaccessible root
// fails the scan.
//
// # Symlinks
//
// Symbolic links below the root are never emitted and never followed, which
// also rules out link cycles. The root itself is resolved with os.Stat.
//
// # Concurrency
//
// With Workers > 1 the directories of one level are listed concurrently
// through an errgroup with a concurrency limit. Listings are stored by index
// and merged in order, so the output is identical to a sequential scan.
package fileutil
