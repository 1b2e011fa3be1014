// Package display renders findfile's user-facing terminal output: warning
// blocks for ambiguous matches and refused removals, removal confirmations,
// and step-by-step progress for multi-directory cache builds.
//
// Warnings list the affected paths and highlight the selected one:
//
//	w := display.WarnAmbiguous("file", "shortest", chosen, matches)
//	w.Display(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
//
// Every function takes an io.Writer and an explicit color switch, so output
// is identical whether or not the process owns a terminal.
package display
