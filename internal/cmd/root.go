package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for findfile
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "findfile",
		Short: "Keyword-based file and directory search",
		Long: `findfile locates files and directories whose paths contain a set of keys.

Keys are case-insensitive substrings (or regular expressions with --regex)
matched against the absolute path of every candidate. All keys given with
-k/--key must match; --or-key groups are alternatives; -e/--exclude keys veto
a path. The search is breadth-first and bounded by --depth.

Configuration is loaded from .findfile/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  findfile files -k src -k .go            # every Go file under a src directory
  findfile file config .yaml --deepest    # the deepest matching YAML file
  findfile dirs -k test -e vendor         # leaf test directories outside vendor
  findfile rm dirs __pycache__ --yes      # remove every __pycache__ tree
  findfile cache build                    # snapshot the working directory`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .findfile/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (default from config)")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run logs")
	cmd.PersistentFlags().Int("workers", 0, "Directories listed concurrently (default from config)")

	for _, k := range searchKinds {
		cmd.AddCommand(newFindCommand(k))
	}
	cmd.AddCommand(NewRmCommand())
	cmd.AddCommand(NewCacheCommand())

	return cmd
}
