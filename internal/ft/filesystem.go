package ft

import (
	"io"
	"io/fs"
	"time"
)

// StatData holds platform-specific stat fields that fs.FileInfo does not expose.
type StatData struct {
	Atime     time.Time
	Ctime     time.Time
	BirthTime *time.Time // nil when the platform or filesystem does not record it
	Platform  string     // runtime.GOOS of the process that extracted the data
}

// WalkFunc is called for every entry below the walk root, directories excluded.
// rel is relative to the root. info comes from lstat, so symlinks are reported as
// symlinks and never followed. A non-nil err means the entry (or a directory
// containing it) could not be read; info is nil in that case.
type WalkFunc func(absPath, rel string, info fs.FileInfo, err error) error

// CollectOptions controls CollectFiles.
type CollectOptions struct {
	Recursive bool
	MaxDepth  int // negative means unlimited
	Include   []string
	Exclude   []string
}

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access so the service can be tested with fault injection.
type FilesystemManager interface {
	// Resolve canonicalizes a raw path (absolute, symlinks resolved), stats it,
	// and validates it's a regular file or directory.
	Resolve(rawPath string) (*Path, error)

	// Canonical returns the absolute, symlink-free form of rawPath. The path
	// need not exist: the nearest existing ancestor is resolved instead.
	Canonical(rawPath string) (string, error)

	// Lstat returns info for path without following a final symlink.
	Lstat(path string) (fs.FileInfo, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Walk visits the tree below root in lexical order. skipDir is consulted for
	// every directory below root; returning true prunes it.
	Walk(root string, skipDir func(absPath string) bool, fn WalkFunc) error

	// IsIgnored reports whether an entry should be excluded from the scan based on
	// configured patterns and the .ftignore file at root.
	IsIgnored(absPath string, root string, isDir bool) (bool, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// CheckReadable verifies a directory can be listed.
	CheckReadable(dir string) error

	// CheckWritable verifies files can be created in a directory.
	CheckWritable(dir string) error

	// Move moves src to dst without ever overwriting dst. It fails with an error
	// wrapping fs.ErrExist when dst exists. On any failure src is left intact.
	Move(src, dst string) error

	// Remove deletes a single file.
	Remove(path string) error

	// ExtractStatData extracts platform-specific stat data for path.
	ExtractStatData(path string, info fs.FileInfo) (*StatData, error)

	// CollectFiles expands files and directories into a sorted list of absolute file paths.
	// Unreadable inputs are reported as warnings, not failures.
	CollectFiles(paths []string, opts CollectOptions) (files []string, warnings []error)
}
