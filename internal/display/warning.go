package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Paths      []string // Related paths (optional)
	Chosen     string   // Path highlighted in the list (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning as a yellow block. colored=false writes plain
// text, for pipes and log files.
func (w Warning) Display(out io.Writer, colored bool) {
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen, color.Bold)
	if colored {
		yellow.EnableColor()
		green.EnableColor()
	} else {
		yellow.DisableColor()
		green.DisableColor()
	}

	var lines []string
	lines = append(lines, yellow.Sprint("⚠️  Warning: "+w.Title))

	if w.Message != "" {
		lines = append(lines, yellow.Sprint("    "+w.Message))
	}

	if len(w.Paths) > 0 {
		if len(w.Paths) == 1 {
			lines = append(lines, yellow.Sprint("    Matched path:"))
		} else {
			lines = append(lines, yellow.Sprint("    Matched paths:"))
		}
		for i, p := range w.Paths {
			line := fmt.Sprintf("      %d. %s", i+1, p)
			if w.Chosen != "" && p == w.Chosen {
				lines = append(lines, green.Sprint(line+" (selected)"))
				continue
			}
			lines = append(lines, yellow.Sprint(line))
		}
	}

	if w.Suggestion != "" {
		lines = append(lines, yellow.Sprint("    Suggestion:"))
		lines = append(lines, yellow.Sprint("    "+w.Suggestion))
	}

	fmt.Fprint(out, strings.Join(lines, "\n")+"\n")
}

// WarnAmbiguous reports a single-result search that matched several paths.
func WarnAmbiguous(kind, policy, chosen string, matches []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d %ss matched, returning the %s", len(matches), kind, policy),
		Paths:      matches,
		Chosen:     chosen,
		Suggestion: fmt.Sprintf("Add keys to narrow the search, or use the plural command to list every %s", kind),
	}
}

// WarnDeleteConflict reports a singular remove that refused to run.
func WarnDeleteConflict(kind string, matches []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("refusing to remove: %d %ss matched", len(matches), kind),
		Message:    "Nothing was deleted.",
		Paths:      matches,
		Suggestion: fmt.Sprintf("Narrow the keys until one %s matches, or use 'rm %ss'", kind, kind),
	}
}

// WarnRemoval lists what a remove command is about to delete.
func WarnRemoval(kind string, targets []string) Warning {
	return Warning{
		Title:   fmt.Sprintf("about to remove %d %s(s)", len(targets), kind),
		Message: "Directories are removed with their contents.",
		Paths:   targets,
	}
}
