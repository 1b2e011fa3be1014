package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/findfile/internal/display"
	"github.com/harrison/findfile/internal/logger"
)

// NewRmCommand creates the rm command and its file/files/dir/dirs variants
func NewRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove files or directories whose paths match the keys",
		Long: `Remove files or directories whose paths match the keys.

The singular forms refuse to delete anything when more than one target
matches. Directory matches nested inside another match are removed with it.
The search root itself is never removed.

Without --yes the targets are listed and confirmation is asked on the
terminal.`,
	}

	for _, k := range searchKinds {
		cmd.AddCommand(newRmKindCommand(k))
	}
	return cmd
}

func newRmKindCommand(k searchKind) *cobra.Command {
	var (
		sf  *searchFlags
		yes bool
	)
	cmd := &cobra.Command{
		Use:   k.name + " [key...]",
		Short: rmShort(k),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd, args, k, sf, yes)
		},
	}
	sf = addSearchFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking for confirmation")
	return cmd
}

func rmShort(k searchKind) string {
	if k.multi {
		return fmt.Sprintf("Remove every matching %s", k.kind)
	}
	return fmt.Sprintf("Remove the single matching %s", k.kind)
}

func runRm(cmd *cobra.Command, args []string, k searchKind, sf *searchFlags, yes bool) (err error) {
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
	targets, err := e.finder.RemovalTargets(opts, k.kind, !k.multi)
	if err != nil {
		return e.explain(err)
	}
	if len(targets) == 0 {
		fmt.Fprintf(e.errOut, "No matching %s found\n", k.kind)
		return nil
	}

	if !yes {
		display.WarnRemoval(k.kind.String(), targets).Display(e.errOut, e.colored)
		if !canPrompt(cmd.InOrStdin()) {
			return fmt.Errorf("refusing to remove without confirmation, pass --yes")
		}
		ok, err := display.Confirm(cmd.InOrStdin(), e.errOut, "Proceed?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(e.errOut, "Aborted, nothing was removed")
			return nil
		}
	}

	// Only what was listed goes, even if the tree changed meanwhile
	removed, rmErr := e.finder.RmConfirmed(opts, k.kind, !k.multi, targets)
	for _, p := range removed {
		fmt.Fprintln(e.out, p)
	}

	e.log.LogSummary(logger.Summary{
		Operation: "rm " + k.name,
		Root:      e.root(opts),
		MaxDepth:  opts.MaxDepth,
		Matches:   len(targets),
		Removed:   len(removed),
		Duration:  time.Since(start),
	})
	return e.explain(rmErr)
}
