package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProgressIndicator reports a multi-step operation, one line per step:
//
//	Building snapshots:
//	  [1/2] /src/app
//	  [2/2] /src/lib
//	✓ Built 2 snapshots
type ProgressIndicator struct {
	writer io.Writer
	title  string
	noun   string
	total  int
	cur    int
	cyan   *color.Color
	green  *color.Color
}

// NewProgressIndicator creates an indicator for total steps. title heads the
// list ("Building snapshots") and noun names one step in the final line.
func NewProgressIndicator(w io.Writer, title, noun string, total int, colored bool) *ProgressIndicator {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	if colored {
		cyan.EnableColor()
		green.EnableColor()
	} else {
		cyan.DisableColor()
		green.DisableColor()
	}
	return &ProgressIndicator{writer: w, title: title, noun: noun, total: total, cyan: cyan, green: green}
}

// Start displays the header line.
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "%s:\n", p.title)
}

// Step displays the next step: [N/Total] item
func (p *ProgressIndicator) Step(item string) {
	p.cur++
	fmt.Fprintln(p.writer, p.cyan.Sprintf("  [%d/%d] %s", p.cur, p.total, item))
}

// Complete displays the success line with the number of finished steps.
func (p *ProgressIndicator) Complete(verb string) {
	noun := p.noun
	if p.cur != 1 {
		noun += "s"
	}
	fmt.Fprintf(p.writer, "%s %s %d %s\n", p.green.Sprint("✓"), verb, p.cur, noun)
}
