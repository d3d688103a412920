package ft

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Relocator moves duplicate records into the destination tree.
type Relocator struct {
	fsmgr FilesystemManager
}

// NewRelocator creates a Relocator backed by fsmgr.
func NewRelocator(fsmgr FilesystemManager) *Relocator {
	return &Relocator{fsmgr: fsmgr}
}

// Relocate moves rec to destRoot/rec.RelativePath and returns the destination path.
//
// A record already inside destRoot is left alone and ErrAlreadyOrganized is
// returned. A different file at the destination yields ErrConflict. Every other
// failure yields ErrMove. In all failure cases the source file is untouched.
func (r *Relocator) Relocate(rec *FileRecord, sourceRoot, destRoot string) (string, error) {
	if IsWithin(rec.AbsolutePath, destRoot) {
		return "", ErrAlreadyOrganized
	}
	if !IsWithin(rec.AbsolutePath, sourceRoot) {
		return "", fmt.Errorf("%w: %s is outside source %s", ErrInvalidPath, rec.AbsolutePath, sourceRoot)
	}

	destPath, err := SafeJoin(destRoot, rec.RelativePath)
	if err != nil {
		return "", err
	}

	srcInfo, err := r.fsmgr.Lstat(rec.AbsolutePath)
	if err != nil {
		return destPath, fmt.Errorf("%w: stat source: %v", ErrMove, err)
	}
	if !srcInfo.Mode().IsRegular() {
		return destPath, fmt.Errorf("%w: source is no longer a regular file", ErrMove)
	}
	if err := unchangedSince(rec, srcInfo); err != nil {
		return destPath, fmt.Errorf("%w: source changed since scan: %v", ErrMove, err)
	}

	if destInfo, err := r.fsmgr.Lstat(destPath); err == nil {
		if os.SameFile(srcInfo, destInfo) {
			// Destination is a hard link to the source: the content is already
			// there, so dropping the source name completes the move.
			if err := r.fsmgr.Remove(rec.AbsolutePath); err != nil {
				return destPath, fmt.Errorf("%w: removing source link: %v", ErrMove, err)
			}
			return destPath, nil
		}
		return destPath, fmt.Errorf("%w: %s already exists", ErrConflict, destPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return destPath, fmt.Errorf("%w: stat destination: %v", ErrMove, err)
	}

	if err := r.fsmgr.MkdirAll(filepath.Dir(destPath)); err != nil {
		return destPath, fmt.Errorf("%w: creating destination directory: %v", ErrMove, err)
	}

	if err := r.fsmgr.Move(rec.AbsolutePath, destPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return destPath, fmt.Errorf("%w: %s already exists", ErrConflict, destPath)
		}
		return destPath, fmt.Errorf("%w: %v", ErrMove, err)
	}

	return destPath, nil
}
