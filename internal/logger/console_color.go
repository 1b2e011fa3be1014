package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary fields.
// Green: matches found
// Red: paths removed
// Yellow: nothing matched
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme for summaries.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single metric with colorized label and value.
// Format: "label: value"
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	labelColored := scheme.label.Sprint(label)
	valueColored := scheme.value.Sprintf("%v", value)
	return fmt.Sprintf("%s: %s", labelColored, valueColored)
}

// formatColorizedSummary renders a Summary with color coding.
// Format: "files: 3 matches, root: /src, depth: 5, removed: 1, took: 12ms"
// Colors are automatically disabled when output is not a TTY via fatih/color's built-in detection.
func formatColorizedSummary(s Summary, scheme *colorScheme) string {
	matches := fmt.Sprintf("%d %s", s.Matches, plural(s.Matches, "match", "matches"))
	if s.Matches == 0 {
		matches = scheme.warn.Sprint(matches)
	} else {
		matches = scheme.success.Sprint(matches)
	}

	parts := []string{
		fmt.Sprintf("%s: %s", scheme.label.Sprint(s.Operation), matches),
		formatColorizedMetric("root", s.Root, scheme),
		formatColorizedMetric("depth", formatDepth(s.MaxDepth), scheme),
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%s: %s", scheme.label.Sprint("removed"), scheme.fail.Sprint(s.Removed)))
	}
	parts = append(parts, formatColorizedMetric("took", formatDuration(s.Duration), scheme))

	return strings.Join(parts, ", ")
}
