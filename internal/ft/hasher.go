package ft

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// DefaultChunkSize is the read buffer size used when none is configured.
const DefaultChunkSize = 64 * 1024

// Hasher streams files through SHA-256 and classifies entries that must not be hashed.
type Hasher struct {
	fsmgr     FilesystemManager
	chunkSize int
}

// NewHasher creates a Hasher reading chunkSize bytes at a time.
func NewHasher(fsmgr FilesystemManager, chunkSize int) *Hasher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Hasher{fsmgr: fsmgr, chunkSize: chunkSize}
}

// Hash computes rec's digest, or marks it skipped or errored.
// Symlinks and special files are never opened. Only reads are performed.
func (h *Hasher) Hash(rec *FileRecord) {
	if rec.Status == StatusHashed {
		return
	}

	switch {
	case rec.Mode&fs.ModeSymlink != 0:
		rec.skip("symlink")
		return
	case !rec.Mode.IsRegular():
		rec.skip("special file")
		return
	}

	f, err := h.fsmgr.Open(rec.AbsolutePath)
	if err != nil {
		rec.fail(err)
		return
	}
	digest, n, err := h.Sum(f)
	f.Close()
	if err != nil {
		rec.fail(err)
		return
	}

	// Re-stat to make sure the file didn't change while we were reading it.
	info, err := h.fsmgr.Lstat(rec.AbsolutePath)
	if err != nil {
		rec.fail(fmt.Errorf("re-stat: %w", err))
		return
	}
	if err := unchangedSince(rec, info); err != nil {
		rec.fail(fmt.Errorf("file changed during hashing: %w", err))
		return
	}
	if n != rec.Size {
		rec.fail(fmt.Errorf("file changed during hashing: read %d bytes, expected %d", n, rec.Size))
		return
	}

	rec.Digest = digest
	rec.Status = StatusHashed
}

// Sum reads r to EOF in fixed-size chunks and returns the hex SHA-256 digest
// and the number of bytes read.
func (h *Hasher) Sum(r io.Reader) (string, int64, error) {
	hasher := sha256.New()
	buf := make([]byte, h.chunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", total, fmt.Errorf("reading content: %w", err)
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), total, nil
}

// unchangedSince compares fresh lstat info with the scan-time metadata.
func unchangedSince(rec *FileRecord, info fs.FileInfo) error {
	if info.Mode().Type() != rec.Mode.Type() {
		return fmt.Errorf("type changed: %v -> %v", rec.Mode.Type(), info.Mode().Type())
	}
	if info.Size() != rec.Size {
		return fmt.Errorf("size changed: %d -> %d", rec.Size, info.Size())
	}
	if !info.ModTime().Equal(rec.ModTime) {
		return fmt.Errorf("mtime changed: %v -> %v", rec.ModTime, info.ModTime())
	}
	return nil
}
