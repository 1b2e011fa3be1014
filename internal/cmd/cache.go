package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/findfile/internal/cache"
	"github.com/harrison/findfile/internal/config"
	"github.com/harrison/findfile/internal/display"
	"github.com/harrison/findfile/internal/logger"
)

// NewCacheCommand creates the cache command and its subcommands
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Build and use disk cache snapshots",
		Long: `Build and use disk cache snapshots.

A snapshot lists every file and directory of a work directory down to the
cache depth. Snapshots are kept in .findfile_disk_cache.yaml inside the work
directory, or in a SQLite database with --store sqlite.

A work directory argument that is not a directory is used as a key to locate
one under the working directory.`,
	}

	cmd.PersistentFlags().String("store", "", "Snapshot store: yaml or sqlite (default from config)")
	cmd.PersistentFlags().String("cache-depth", "", "Snapshot depth: a number or unbounded (default from config)")

	cmd.AddCommand(newCacheBuildCommand())
	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCacheReadCommand())
	cmd.AddCommand(newCacheWriteCommand())
	cmd.AddCommand(newCacheWatchCommand())
	return cmd
}

// openStore opens the snapshot store selected by the configuration. The
// returned close function is never nil.
func openStore(cfg *config.Config) (cache.Store, func() error, error) {
	if cfg.Cache.Store != config.StoreSQLite {
		return cache.NewYAMLStore(cfg.Cache.LockTimeout), func() error { return nil }, nil
	}

	dbPath, err := cfg.GetCacheDBPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := cache.OpenSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// withStore runs fn with the runtime and the configured store, then
// releases both.
func withStore(cmd *cobra.Command, fn func(e *env, store cache.Store) error) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(e.cfg)
	if err != nil {
		e.close()
		return err
	}
	defer func() {
		if cerr := closeStore(); err == nil {
			err = cerr
		}
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}()
	return fn(e, store)
}

// openManager opens the cache of the work directory named by args, or of
// the working directory.
func openManager(e *env, store cache.Store, args []string) (*cache.Manager, error) {
	workDir := "."
	if len(args) > 0 {
		workDir = args[0]
	}
	return cache.OpenManager(e.finder, store, workDir, e.cfg.Cache.MaxDepth)
}

func newCacheBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build [work-dir...]",
		Short: "Traverse work directories and store fresh snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(e *env, store cache.Store) error {
				return buildSnapshots(e, store, args)
			})
		},
	}
}

func buildSnapshots(e *env, store cache.Store, dirs []string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var progress *display.ProgressIndicator
	if len(dirs) > 1 {
		progress = display.NewProgressIndicator(e.errOut, "Building snapshots", "snapshot", len(dirs), e.colored)
		progress.Start()
	}

	for _, dir := range dirs {
		start := time.Now()
		dc, err := cache.NewDiskCache(e.finder, dir, e.cfg.Cache.MaxDepth)
		if err != nil {
			return err
		}
		if err := store.Save(dc.Snapshot()); err != nil {
			return fmt.Errorf("failed to save snapshot of %s: %w", dc.WorkDir(), err)
		}
		if progress != nil {
			progress.Step(dc.WorkDir())
		}

		fmt.Fprintf(e.out, "%s\t%d paths\n", dc.WorkDir(), dc.Len())
		e.log.LogSummary(logger.Summary{
			Operation: "cache build",
			Root:      dc.WorkDir(),
			MaxDepth:  dc.MaxDepth(),
			Matches:   dc.Len(),
			Duration:  time.Since(start),
		})
	}

	if progress != nil {
		progress.Complete("Built")
	}
	return nil
}

func newCacheListCommand() *cobra.Command {
	var workDirs bool
	cmd := &cobra.Command{
		Use:   "list [work-dir]",
		Short: "Print the cached paths of a work directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(e *env, store cache.Store) error {
				if workDirs {
					return listWorkDirs(e, store)
				}
				mgr, err := openManager(e, store, args)
				if err != nil {
					return err
				}
				for _, p := range mgr.Cache().Paths() {
					fmt.Fprintln(e.out, p)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&workDirs, "work-dirs", false, "Print the work directories with a stored snapshot (sqlite store)")
	return cmd
}

func listWorkDirs(e *env, store cache.Store) error {
	sq, ok := store.(*cache.SQLiteStore)
	if !ok {
		return fmt.Errorf("--work-dirs needs the %s store", config.StoreSQLite)
	}
	dirs, err := sq.WorkDirs()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		fmt.Fprintln(e.out, d)
	}
	return nil
}

func newCacheReadCommand() *cobra.Command {
	var exts []string
	cmd := &cobra.Command{
		Use:   "read [work-dir]",
		Short: "Print the contents of the cached files with the given extensions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(e *env, store cache.Store) error {
				mgr, err := openManager(e, store, args)
				if err != nil {
					return err
				}
				content, err := mgr.Read(exts...)
				if err != nil {
					return err
				}
				_, err = io.WriteString(e.out, content)
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", []string{cache.DefaultExtension}, "File extensions to read")
	return cmd
}

func newCacheWriteCommand() *cobra.Command {
	var (
		exts       []string
		appendMode bool
		content    string
	)
	cmd := &cobra.Command{
		Use:   "write [work-dir]",
		Short: "Write content to every cached file with the given extensions",
		Long: `Write content to every cached file with the given extensions.

The content comes from --content, or from stdin when --content is not given.
Files are truncated unless --append is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("content") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				content = string(data)
			}
			return withStore(cmd, func(e *env, store cache.Store) error {
				mgr, err := openManager(e, store, args)
				if err != nil {
					return err
				}
				written, err := mgr.WriteLines(content, appendMode, exts...)
				for _, p := range written {
					fmt.Fprintln(e.out, p)
				}
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&exts, "ext", []string{cache.DefaultExtension}, "File extensions to write")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append instead of truncating")
	cmd.Flags().StringVar(&content, "content", "", "Content to write (default: read stdin)")
	return cmd
}

func newCacheWatchCommand() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [work-dir]",
		Short: "Keep the snapshot of a work directory up to date until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(e *env, store cache.Store) error {
				mgr, err := openManager(e, store, args)
				if err != nil {
					return err
				}

				w, err := cache.NewWatcher(mgr.WorkDir(), mgr, e.cfg.Ignore, e.log)
				if err != nil {
					return err
				}
				w.SetDebounceDelay(debounce)

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				fmt.Fprintf(e.errOut, "Watching %s (%d cached paths), press Ctrl-C to stop\n",
					mgr.WorkDir(), mgr.Cache().Len())
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", cache.DefaultDebounceDelay, "Quiet period before a change triggers a rebuild")
	return cmd
}
