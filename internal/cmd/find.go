package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/findfile/internal/fileutil"
	"github.com/harrison/findfile/internal/finder"
	"github.com/harrison/findfile/internal/logger"
)

// searchKind describes one of the file/files/dir/dirs command variants.
type searchKind struct {
	name  string
	kind  fileutil.EntryKind
	multi bool
}

var searchKinds = []searchKind{
	{name: "file", kind: fileutil.KindFile},
	{name: "files", kind: fileutil.KindFile, multi: true},
	{name: "dir", kind: fileutil.KindDir},
	{name: "dirs", kind: fileutil.KindDir, multi: true},
}

func (k searchKind) short() string {
	if k.multi {
		return fmt.Sprintf("Print every %s whose path matches the keys", k.kind)
	}
	return fmt.Sprintf("Print the single best %s whose path matches the keys", k.kind)
}

func newFindCommand(k searchKind) *cobra.Command {
	var sf *searchFlags
	cmd := &cobra.Command{
		Use:   k.name + " [key...]",
		Short: k.short(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args, k, sf)
		},
	}
	sf = addSearchFlags(cmd)
	return cmd
}

func runFind(cmd *cobra.Command, args []string, k searchKind, sf *searchFlags) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}()

	opts, err := sf.options(e.cfg, args)
	if err != nil {
		return err
	}

	start := time.Now()
	paths, err := find(e.finder, k, opts)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintln(e.out, p)
	}

	e.log.LogSummary(logger.Summary{
		Operation: k.name,
		Root:      e.root(opts),
		MaxDepth:  opts.MaxDepth,
		Matches:   len(paths),
		Duration:  time.Since(start),
	})
	return nil
}

// find runs the Finder operation matching k. Single-result searches yield
// at most one path.
func find(f *finder.Finder, k searchKind, opts finder.Options) ([]string, error) {
	if k.multi {
		if k.kind == fileutil.KindDir {
			return f.FindDirs(opts)
		}
		return f.FindFiles(opts)
	}

	var (
		p   string
		err error
	)
	if k.kind == fileutil.KindDir {
		p, err = f.FindDir(opts)
	} else {
		p, err = f.FindFile(opts)
	}
	if err != nil || p == "" {
		return nil, err
	}
	return []string{p}, nil
}
