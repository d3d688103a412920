package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ft-go/internal/ft"
)

// Renderer writes one report in a single format. It is chosen once per run.
type Renderer interface {
	// Begin is called once before the first file.
	Begin(total int) error
	// Render writes the entry for the i-th (zero-based) of total files.
	Render(i, total int, info *ft.CreationInfo) error
	// RenderError reports a file that could not be inspected.
	RenderError(path string, err error) error
}

// NewRenderer returns the renderer for f. Normal output goes to out and
// per-file errors to errOut, except for CSV which keeps errors in-band.
func NewRenderer(f Format, out, errOut io.Writer) Renderer {
	switch f {
	case JSON:
		return &jsonRenderer{out: out, errOut: errOut}
	case CSV:
		return &csvRenderer{out: out}
	case Timestamp:
		return &timestampRenderer{out: out, errOut: errOut}
	default:
		return &readableRenderer{out: out, errOut: errOut, p: message.NewPrinter(language.English)}
	}
}

func formatEpoch(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type readableRenderer struct {
	out    io.Writer
	errOut io.Writer
	p      *message.Printer
}

func (r *readableRenderer) Begin(int) error { return nil }

func (r *readableRenderer) Render(i, total int, info *ft.CreationInfo) error {
	var b strings.Builder
	if total > 1 {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("=", 60) + "\n\n")
		}
		if total > 5 {
			fmt.Fprintf(&b, "[%d/%d] %s\n%s\n", i+1, total, info.FilePath, strings.Repeat("-", 40))
		}
	}
	fmt.Fprintf(&b, "File: %s\n", info.FilePath)
	fmt.Fprintf(&b, "Creation Date: %s\n", info.CreationDateReadable)
	fmt.Fprintf(&b, "Creation Date (ISO): %s\n", info.CreationDate)
	fmt.Fprintf(&b, "Creation Timestamp: %s\n", formatEpoch(info.CreationTimestamp))
	fmt.Fprintf(&b, "Source: %s\n", info.Source)
	fmt.Fprintf(&b, "Platform: %s\n", info.Platform)
	b.WriteString("\nAdditional Information:\n")
	fmt.Fprintf(&b, "  Modification Date: %s\n", info.Modified.Format(time.DateTime))
	fmt.Fprintf(&b, "  Access Date: %s\n", info.Accessed.Format(time.DateTime))
	b.WriteString(r.p.Sprintf("  File Size: %d bytes\n", info.FileSize))

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *readableRenderer) RenderError(path string, err error) error {
	_, werr := fmt.Fprintf(r.errOut, "Error processing %s: %v\n", path, err)
	return werr
}

type jsonRenderer struct {
	out    io.Writer
	errOut io.Writer
}

func (r *jsonRenderer) Begin(int) error { return nil }

func (r *jsonRenderer) Render(_, _ int, info *ft.CreationInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", info.FilePath, err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func (r *jsonRenderer) RenderError(path string, err error) error {
	_, werr := fmt.Fprintf(r.errOut, "Error processing %s: %v\n", path, err)
	return werr
}

// csvRenderer keeps the historical column layout: unquoted data rows and
// quoted path and message on error rows.
type csvRenderer struct {
	out io.Writer
}

func (r *csvRenderer) Begin(int) error {
	_, err := fmt.Fprintln(r.out, "file_path,creation_timestamp,creation_date,source,platform")
	return err
}

func (r *csvRenderer) Render(_, _ int, info *ft.CreationInfo) error {
	_, err := fmt.Fprintf(r.out, "%s,%s,%s,%s,%s\n",
		info.FilePath, formatEpoch(info.CreationTimestamp), info.CreationDate, info.Source, info.Platform)
	return err
}

func (r *csvRenderer) RenderError(path string, err error) error {
	_, werr := fmt.Fprintf(r.out, "%q,ERROR,ERROR,%q,ERROR\n", path, err.Error())
	return werr
}

type timestampRenderer struct {
	out    io.Writer
	errOut io.Writer
}

func (r *timestampRenderer) Begin(int) error { return nil }

func (r *timestampRenderer) Render(_, _ int, info *ft.CreationInfo) error {
	_, err := fmt.Fprintln(r.out, formatEpoch(info.CreationTimestamp))
	return err
}

func (r *timestampRenderer) RenderError(path string, err error) error {
	_, werr := fmt.Fprintf(r.errOut, "Error processing %s: %v\n", path, err)
	return werr
}
