package ft

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Validator normalizes and authorizes source and destination roots.
type Validator struct {
	fsmgr FilesystemManager
}

// NewValidator creates a Validator backed by fsmgr.
func NewValidator(fsmgr FilesystemManager) *Validator {
	return &Validator{fsmgr: fsmgr}
}

// Validate checks a source/destination pair and returns their canonical forms.
// The destination is created when absent; that is its only side effect.
func (v *Validator) Validate(source, dest string) (*Path, *Path, error) {
	src, err := v.ValidateSource(source)
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(dest) == "" {
		return nil, nil, invalidPathf("destination path cannot be empty")
	}
	destCanon, err := v.fsmgr.Canonical(dest)
	if err != nil {
		return nil, nil, invalidPathf("destination %s: %v", dest, err)
	}

	if destCanon == src.String() {
		return nil, nil, fmt.Errorf("%w: destination is the source folder: %s", ErrConfiguration, destCanon)
	}
	if IsWithin(src.String(), destCanon) {
		return nil, nil, fmt.Errorf("%w: source %s is inside destination %s", ErrConfiguration, src.String(), destCanon)
	}

	if err := v.fsmgr.MkdirAll(destCanon); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, nil, fmt.Errorf("%w: creating destination %s: %v", ErrPermission, destCanon, err)
		}
		return nil, nil, invalidPathf("creating destination %s: %v", destCanon, err)
	}

	dst, err := v.fsmgr.Resolve(destCanon)
	if err != nil {
		return nil, nil, invalidPathf("destination %s: %v", dest, err)
	}
	if !dst.IsDir() {
		return nil, nil, invalidPathf("destination path is not a directory: %s", dest)
	}
	if err := v.fsmgr.CheckWritable(dst.String()); err != nil {
		return nil, nil, fmt.Errorf("%w: no write permission for destination %s: %v", ErrPermission, dst.String(), err)
	}

	return src, dst, nil
}

// ValidateSource checks that source is a readable directory and returns its canonical form.
func (v *Validator) ValidateSource(source string) (*Path, error) {
	if strings.TrimSpace(source) == "" {
		return nil, invalidPathf("source path cannot be empty")
	}
	src, err := v.fsmgr.Resolve(source)
	if err != nil {
		return nil, invalidPathf("source %s: %v", source, err)
	}
	if !src.IsDir() {
		return nil, invalidPathf("source path is not a directory: %s", source)
	}
	if err := v.fsmgr.CheckReadable(src.String()); err != nil {
		return nil, fmt.Errorf("%w: no read permission for source %s: %v", ErrPermission, src.String(), err)
	}
	return src, nil
}
