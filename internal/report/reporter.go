package report

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"ft-go/internal/ft"
)

// progressEvery is how often (in files) a progress line is printed.
const progressEvery = 50

// InfoFunc looks up creation information for one file.
type InfoFunc func(path string) (*ft.CreationInfo, error)

// Summary counts the outcome of a report run.
type Summary struct {
	Processed int
	Errors    int
}

// Reporter drives a Renderer over a list of files.
type Reporter struct {
	format   Format
	renderer Renderer
	errOut   io.Writer
	quiet    bool
	terminal bool
}

// NewReporter creates a Reporter for format f. terminal says whether errOut is
// an interactive terminal; progress is only shown there.
func NewReporter(f Format, out, errOut io.Writer, quiet, terminal bool) *Reporter {
	return &Reporter{
		format:   f,
		renderer: NewRenderer(f, out, errOut),
		errOut:   errOut,
		quiet:    quiet,
		terminal: terminal,
	}
}

// StderrIsTerminal reports whether the process's stderr is a terminal.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Run renders every file in order. Lookup failures are rendered as errors and
// counted; only write failures on the output stop the run.
func (r *Reporter) Run(files []string, lookup InfoFunc) (Summary, error) {
	var sum Summary
	total := len(files)
	progress := !r.quiet && r.terminal && total > 10 && r.format.showsProgress()

	if err := r.renderer.Begin(total); err != nil {
		return sum, err
	}
	if progress {
		fmt.Fprintf(r.errOut, "Processing %d files...\n", total)
	}

	for i, path := range files {
		if progress && i > 0 && i%progressEvery == 0 {
			fmt.Fprintf(r.errOut, "Progress: %d/%d (%.1f%%)\n", i, total, float64(i)/float64(total)*100)
		}

		info, err := lookup(path)
		if err != nil {
			sum.Errors++
			if werr := r.renderer.RenderError(path, err); werr != nil {
				return sum, werr
			}
			continue
		}
		if err := r.renderer.Render(i, total, info); err != nil {
			return sum, err
		}
		sum.Processed++
	}

	if progress {
		fmt.Fprintf(r.errOut, "\nCompleted: %d files processed successfully, %d errors.\n", sum.Processed, sum.Errors)
	}
	return sum, nil
}
