package ft

import (
	"io/fs"
	"time"
)

// RecordStatus is the lifecycle state of a FileRecord.
type RecordStatus string

const (
	StatusPending RecordStatus = "pending"
	StatusHashed  RecordStatus = "hashed"
	StatusSkipped RecordStatus = "skipped"
	StatusMoved   RecordStatus = "moved"
	StatusError   RecordStatus = "error"
)

// FileRecord is one filesystem entry observed during a scan.
// Metadata is captured at scan time. Only the Hasher (digest, status) and the
// Relocator (status, destination) mutate a record; records are never dropped.
type FileRecord struct {
	AbsolutePath string
	RelativePath string // relative to the source root, OS separators
	Size         int64
	ModTime      time.Time
	Mode         fs.FileMode

	Digest          string // hex SHA-256; empty until hashed
	Status          RecordStatus
	SkipReason      string // "symlink", "special file" or "error:<message>"
	DestinationPath string
	Err             error
}

// NewFileRecord creates a pending record from lstat info.
func NewFileRecord(absPath, relPath string, info fs.FileInfo) *FileRecord {
	return &FileRecord{
		AbsolutePath: absPath,
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Mode:         info.Mode(),
		Status:       StatusPending,
	}
}

func (r *FileRecord) skip(reason string) {
	r.Status = StatusSkipped
	r.SkipReason = reason
}

func (r *FileRecord) fail(err error) {
	r.Status = StatusError
	r.SkipReason = "error:" + err.Error()
	r.Err = err
}

// sortKey is the ordering key for deterministic representative selection.
func (r *FileRecord) sortKey() string {
	return slashRel(r.RelativePath)
}
