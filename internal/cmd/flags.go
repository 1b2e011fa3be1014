package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/findfile/internal/config"
	"github.com/harrison/findfile/internal/finder"
	"github.com/harrison/findfile/internal/matcher"
)

// searchFlags holds the key and result-shape flags shared by the search
// and rm commands. --depth, --regex and --exclude-mode are registered here
// but read through applyFlags, since they override configuration.
type searchFlags struct {
	root     string
	keys     []string
	orKeys   []string
	exclude  []string
	absolute bool
	deepest  bool
	noAlert  bool
	allDirs  bool
	cwd      bool
}

func addSearchFlags(cmd *cobra.Command) *searchFlags {
	sf := &searchFlags{}
	f := cmd.Flags()
	f.StringVar(&sf.root, "root", "", "Directory to search (default: working directory)")
	f.StringArrayVarP(&sf.keys, "key", "k", nil, "Include key, repeat for AND; positional args are keys too")
	f.StringArrayVar(&sf.orKeys, "or-key", nil, "Comma-separated key group, repeat for OR of groups")
	f.StringArrayVarP(&sf.exclude, "exclude", "e", nil, "Exclude key, repeat to add more")
	f.String("exclude-mode", "", "How exclude keys combine: any (OR) or all (AND) (default from config)")
	f.Bool("regex", false, "Treat keys as case-insensitive regular expressions")
	f.String("depth", "", "Max depth: a number, true (5), false (0) or unbounded (default from config)")
	f.BoolVar(&sf.absolute, "absolute", false, "Print absolute paths")
	f.BoolVar(&sf.deepest, "deepest", false, "Pick the deepest match instead of the shortest (file, dir)")
	f.BoolVar(&sf.noAlert, "no-alert", false, "Do not warn when several paths match")
	f.BoolVar(&sf.allDirs, "all-dirs", false, "Keep directories that contain another match (dirs)")
	f.BoolVar(&sf.cwd, "cwd", false, "Search the working directory, ignoring --root")
	return sf
}

// options builds the search request from the flags, the positional keys and
// the merged configuration.
func (sf *searchFlags) options(cfg *config.Config, args []string) (finder.Options, error) {
	opts := finder.DefaultOptions()

	if !sf.cwd {
		opts.Root = sf.root
	}
	opts.Keys = append(append([]string(nil), sf.keys...), args...)
	for _, raw := range sf.orKeys {
		if group := splitKeys(raw); len(group) > 0 {
			opts.OrKeys = append(opts.OrKeys, group)
		}
	}
	opts.ExcludeKeys = append([]string(nil), sf.exclude...)

	mode, err := matcher.ParseExcludeMode(cfg.ExcludeMode)
	if err != nil {
		return opts, fmt.Errorf("invalid exclude mode: %w", err)
	}
	opts.ExcludeMode = mode
	opts.UseRegex = cfg.UseRegex
	opts.MaxDepth = cfg.MaxDepth
	opts.ReturnRelative = !sf.absolute
	opts.ReturnDeepest = sf.deepest
	opts.DisableAlert = sf.noAlert
	opts.ReturnLeafOnly = !sf.allDirs

	return opts, nil
}

// splitKeys splits a comma-separated key group, dropping blanks.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
