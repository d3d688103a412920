package testutil

import (
	"errors"

	"ft-go/internal/ft"
)

// MemoryAuditLog keeps audit entries in memory. Set Err to make every Log call fail.
type MemoryAuditLog struct {
	Entries []ft.AuditEntry
	Err     error
}

func (l *MemoryAuditLog) Log(entry ft.AuditEntry) error {
	if l.Err != nil {
		return l.Err
	}
	l.Entries = append(l.Entries, entry)
	return nil
}

// ByOperation returns the entries for op, in write order.
func (l *MemoryAuditLog) ByOperation(op string) []ft.AuditEntry {
	var out []ft.AuditEntry
	for _, e := range l.Entries {
		if e.Operation == op {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the first entry for op and original path, or false.
func (l *MemoryAuditLog) Find(op, originalPath string) (ft.AuditEntry, bool) {
	for _, e := range l.Entries {
		if e.Operation == op && e.OriginalPath == originalPath {
			return e, true
		}
	}
	return ft.AuditEntry{}, false
}

// ErrInjected is returned by fault hooks that are given no specific error.
var ErrInjected = errors.New("injected failure")
