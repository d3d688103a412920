// Package audit persists the append-only record of every file the tools touch.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ft-go/internal/ft"
)

// Header is the first row of every audit log.
var Header = []string{
	"timestamp",
	"operation",
	"original_path",
	"destination_path",
	"file_hash",
	"file_size",
	"modification_time",
	"status",
	"error_message",
}

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// CSVLogger appends audit entries to a CSV file. Existing rows are never
// rewritten; the header is written only when the file is new or empty.
type CSVLogger struct {
	f     *os.File
	w     *csv.Writer
	clock ft.Clock
}

// OpenCSVLogger opens (or creates) the log at path for appending.
func OpenCSVLogger(path string, clock ft.Clock) (*CSVLogger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating log directory: %v", ft.ErrLogWrite, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ft.ErrLogWrite, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ft.ErrLogWrite, path, err)
	}

	l := &CSVLogger{f: f, w: csv.NewWriter(f), clock: clock}
	if info.Size() == 0 {
		if err := l.write(Header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return l, nil
}

// Log appends one entry and flushes it to the file.
func (l *CSVLogger) Log(entry ft.AuditEntry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = l.clock.Now()
	}

	size := ""
	if entry.Size != nil {
		size = strconv.FormatInt(*entry.Size, 10)
	}
	mtime := ""
	if entry.ModTime != nil {
		mtime = strconv.FormatFloat(ft.EpochSeconds(*entry.ModTime), 'f', 6, 64)
	}

	return l.write([]string{
		ts.Format(timestampLayout),
		entry.Operation,
		entry.OriginalPath,
		entry.DestinationPath,
		entry.Digest,
		size,
		mtime,
		entry.Status,
		entry.ErrorMessage,
	})
}

func (l *CSVLogger) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("%w: %v", ft.ErrLogWrite, err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ft.ErrLogWrite, err)
	}
	return nil
}

// Close closes the underlying file.
func (l *CSVLogger) Close() error {
	return l.f.Close()
}

// Compile-time check that CSVLogger implements ft.AuditLogger interface
var _ ft.AuditLogger = (*CSVLogger)(nil)
