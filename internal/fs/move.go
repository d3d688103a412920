package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Move moves src to dst without overwriting an existing dst. The source is
// removed only once dst holds a complete, verified copy.
func (m *OSFilesystemManager) Move(src, dst string) error {
	err := os.Link(src, dst)
	if err == nil {
		if err := os.Remove(src); err != nil {
			// Undo the extra name so the tree looks untouched.
			if rmErr := os.Remove(dst); rmErr != nil {
				return fmt.Errorf("removing source %s: %w (and removing %s: %v)", src, err, dst, rmErr)
			}
			return fmt.Errorf("removing source %s: %w", src, err)
		}
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("destination %s: %w", dst, fs.ErrExist)
	}

	// Cross-device, or the filesystem does not support hard links.
	if err := copyVerified(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			return fmt.Errorf("removing source %s: %w (and removing copy %s: %v)", src, err, dst, rmErr)
		}
		return fmt.Errorf("removing source %s: %w", src, err)
	}
	return nil
}

// copyVerified copies src into a temp file next to dst, syncs it, checks its
// digest against the bytes read from src and then publishes it as dst.
func copyVerified(src, dst string) (retErr error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".ft-move-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// Once published under dst the temp name is only an extra link.
		tmp.Close()
		os.Remove(tmpPath)
	}()

	srcHash := sha256.New()
	n, err := io.Copy(tmp, io.TeeReader(in, srcHash))
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if n != info.Size() {
		return fmt.Errorf("copying %s: read %d bytes, expected %d", src, n, info.Size())
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("setting modification time: %w", err)
	}

	copyDigest, err := fileDigest(tmpPath)
	if err != nil {
		return fmt.Errorf("verifying copy: %w", err)
	}
	if want := hex.EncodeToString(srcHash.Sum(nil)); copyDigest != want {
		return fmt.Errorf("verifying copy of %s: digest %s, expected %s", src, copyDigest, want)
	}

	return publish(tmpPath, dst)
}

// publish makes tmpPath visible as dst, failing with fs.ErrExist if dst is taken.
func publish(tmpPath, dst string) error {
	err := os.Link(tmpPath, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("destination %s: %w", dst, fs.ErrExist)
	}

	// No hard links on this filesystem. The check and rename below are not
	// atomic; this is the best the platform offers.
	if _, statErr := os.Lstat(dst); statErr == nil {
		return fmt.Errorf("destination %s: %w", dst, fs.ErrExist)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("checking destination: %w", statErr)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
