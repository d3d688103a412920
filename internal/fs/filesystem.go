package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"ft-go/internal/ft"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
	// per-root .ftignore matchers, loaded on first use
	rootIgnores map[string]*IgnoreMatcher
}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
// ignorePatterns are applied to every scan in addition to each root's .ftignore file.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		ignore:      NewIgnoreMatcher(append(append([]string{}, defaultIgnorePatterns...), ignorePatterns...)),
		rootIgnores: make(map[string]*IgnoreMatcher),
	}
}

// Resolve canonicalizes a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*ft.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("resolving symlinks: %w", err)
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", realPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", realPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", realPath)
	}

	return ft.NewPath(realPath, info.IsDir(), info), nil
}

// Canonical returns the absolute, symlink-free form of rawPath. For a path that
// does not exist yet, the nearest existing ancestor is resolved and the
// missing components are appended unchanged.
func (m *OSFilesystemManager) Canonical(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	var missing []string
	current := absPath
	for {
		real, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				real = filepath.Join(real, missing[i])
			}
			return real, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("resolving symlinks: %w", err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor for %s: %w", absPath, err)
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// Lstat returns file info without following a final symlink.
func (m *OSFilesystemManager) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Walk visits every non-directory entry below root in lexical order.
// Unreadable directories are reported through fn and the walk continues.
func (m *OSFilesystemManager) Walk(root string, skipDir func(string) bool, fn ft.WalkFunc) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return fmt.Errorf("computing relative path: %w", relErr)
		}

		if err != nil {
			if p == root {
				return err
			}
			// Report and carry on; returning nil here skips the unreadable directory.
			return fn(p, rel, nil, err)
		}

		if d.IsDir() {
			if p != root && skipDir != nil && skipDir(p) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fn(p, rel, nil, fmt.Errorf("stat %s: %w", p, err))
		}
		return fn(p, rel, info, nil)
	})
}

// IsIgnored reports whether absPath matches the configured patterns or the
// patterns in root's .ftignore file. The two sets are evaluated separately, so
// a '!' rule in .ftignore cannot re-include a configured pattern.
func (m *OSFilesystemManager) IsIgnored(absPath string, root string, isDir bool) (bool, error) {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return false, fmt.Errorf("computing relative path: %w", err)
	}
	if m.ignore.Match(rel, isDir) {
		return true, nil
	}

	rootMatcher, ok := m.rootIgnores[root]
	if !ok {
		patterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
		if err != nil {
			return false, err
		}
		rootMatcher = NewIgnoreMatcher(patterns)
		m.rootIgnores[root] = rootMatcher
	}
	return rootMatcher.Match(rel, isDir), nil
}

// MkdirAll creates a directory and any missing parents.
func (m *OSFilesystemManager) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// CheckReadable verifies that dir can be listed.
func (m *OSFilesystemManager) CheckReadable(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// CheckWritable verifies that files can be created in dir by creating and
// removing a probe file.
func (m *OSFilesystemManager) CheckWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".ft-write-test-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// Remove deletes a single file.
func (m *OSFilesystemManager) Remove(path string) error {
	return os.Remove(path)
}

// Compile-time check that OSFilesystemManager implements ft.FilesystemManager interface
var _ ft.FilesystemManager = (*OSFilesystemManager)(nil)
