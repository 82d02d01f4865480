// Package progress reports how far the document library got while loading.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives one Update per document the library visits and one
// Skip for every document it could not render.
type Reporter interface {
	Start(total int)
	Update(current int, relPath string)
	Skip(relPath string, err error)
	Finish()
}

// NewReporter picks a CIReporter on CI runners and a TerminalReporter
// everywhere else. Both write to stderr.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Out: os.Stderr}
}

// Tally counts what a load did.
type Tally struct {
	Total    int
	Rendered int
	Skipped  int
}

func (t Tally) String() string {
	if t.Skipped == 0 {
		return fmt.Sprintf("%d documents rendered", t.Rendered)
	}
	return fmt.Sprintf("%d documents rendered, %d skipped", t.Rendered, t.Skipped)
}

// TerminalReporter draws a progress bar and prints skipped documents
// once the bar is gone.
type TerminalReporter struct {
	Out     io.Writer
	bar     *progressbar.ProgressBar
	tally   Tally
	skipped []string
}

func (r *TerminalReporter) Start(total int) {
	r.tally = Tally{Total: total}
	r.skipped = nil
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription("Rendering documents"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, relPath string) {
	r.tally.Rendered = current - r.tally.Skipped
	if r.bar != nil {
		r.bar.Describe(relPath)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Skip(relPath string, err error) {
	r.tally.Skipped++
	r.tally.Rendered--
	r.skipped = append(r.skipped, fmt.Sprintf("  %s: %v", relPath, err))
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	if len(r.skipped) > 0 {
		fmt.Fprintln(r.Out, "Skipped documents:")
		for _, line := range r.skipped {
			fmt.Fprintln(r.Out, line)
		}
	}
}

// Tally returns the counts seen so far.
func (r *TerminalReporter) Tally() Tally { return r.tally }

// CIReporter prints one line per document, which reads better in CI logs.
type CIReporter struct {
	Out   io.Writer
	tally Tally
}

func (r *CIReporter) Start(total int) {
	r.tally = Tally{Total: total}
	fmt.Fprintf(r.Out, "Rendering %d documents\n", total)
}

func (r *CIReporter) Update(current int, relPath string) {
	r.tally.Rendered = current - r.tally.Skipped
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.tally.Total, relPath)
}

func (r *CIReporter) Skip(relPath string, err error) {
	r.tally.Skipped++
	r.tally.Rendered--
	fmt.Fprintf(r.Out, "skipped %s: %v\n", relPath, err)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.Out, r.tally)
}

// Tally returns the counts seen so far.
func (r *CIReporter) Tally() Tally { return r.tally }

// Discard is a Reporter that reports nothing.
type Discard struct{}

func (Discard) Start(int)          {}
func (Discard) Update(int, string) {}
func (Discard) Skip(string, error) {}
func (Discard) Finish()            {}
