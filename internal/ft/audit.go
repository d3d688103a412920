package ft

import "time"

// Audit operations.
const (
	OpProcessed = "processed"
	OpMoved     = "moved"
)

// Audit statuses.
const (
	AuditSuccess = "success"
	AuditError   = "error"
)

// AuditEntry is one row of the append-only audit log.
type AuditEntry struct {
	Timestamp       time.Time // log-write time, not file time
	Operation       string
	OriginalPath    string
	DestinationPath string
	Digest          string
	Size            *int64     // nil when not applicable
	ModTime         *time.Time // nil when not applicable
	Status          string
	ErrorMessage    string
}

// AuditLogger appends entries to an audit trail. Implementations never
// rewrite earlier entries. A returned error is a warning for the caller.
type AuditLogger interface {
	Log(entry AuditEntry) error
}

// NopAuditLogger discards all entries.
type NopAuditLogger struct{}

func (NopAuditLogger) Log(AuditEntry) error { return nil }

// recordEntry builds an entry carrying the record's scan-time metadata.
// Records created from a walk error have no metadata; those fields stay blank.
func recordEntry(now time.Time, op string, rec *FileRecord) AuditEntry {
	entry := AuditEntry{
		Timestamp:    now,
		Operation:    op,
		OriginalPath: rec.AbsolutePath,
		Digest:       rec.Digest,
		Status:       AuditSuccess,
	}
	if !rec.ModTime.IsZero() {
		size := rec.Size
		mtime := rec.ModTime
		entry.Size = &size
		entry.ModTime = &mtime
	}
	return entry
}
