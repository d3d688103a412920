package testutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	ftfs "ft-go/internal/fs"
	"ft-go/internal/ft"
)

// WriteTree creates files below root from a map of slash-separated relative
// paths to contents and returns root's canonical form.
func WriteTree(t *testing.T, root string, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating parent of %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("resolving %s: %v", root, err)
	}
	return real
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FaultyFilesystemManager wraps the real filesystem and lets tests fail or
// intercept individual operations by absolute path.
type FaultyFilesystemManager struct {
	*ftfs.OSFilesystemManager

	OpenErr     map[string]error
	MoveErr     map[string]error // keyed by source path
	StatDataErr error

	// AfterOpen runs after a successful Open, before the caller reads.
	AfterOpen func(path string)
	// BeforeMove runs before every Move; a non-nil return fails the move.
	BeforeMove func(src, dst string) error

	Moves []string // destination of every successful move
}

// NewFaultyFilesystemManager wraps a real filesystem manager with no faults armed.
func NewFaultyFilesystemManager() *FaultyFilesystemManager {
	return &FaultyFilesystemManager{
		OSFilesystemManager: ftfs.NewOSFilesystemManager(nil),
		OpenErr:             map[string]error{},
		MoveErr:             map[string]error{},
	}
}

func (m *FaultyFilesystemManager) Open(path string) (io.ReadCloser, error) {
	if err, ok := m.OpenErr[path]; ok {
		return nil, err
	}
	rc, err := m.OSFilesystemManager.Open(path)
	if err == nil && m.AfterOpen != nil {
		m.AfterOpen(path)
	}
	return rc, err
}

func (m *FaultyFilesystemManager) Move(src, dst string) error {
	if err, ok := m.MoveErr[src]; ok {
		return err
	}
	if m.BeforeMove != nil {
		if err := m.BeforeMove(src, dst); err != nil {
			return err
		}
	}
	if err := m.OSFilesystemManager.Move(src, dst); err != nil {
		return err
	}
	m.Moves = append(m.Moves, dst)
	return nil
}

func (m *FaultyFilesystemManager) ExtractStatData(path string, info fs.FileInfo) (*ft.StatData, error) {
	if m.StatDataErr != nil {
		return nil, m.StatDataErr
	}
	return m.OSFilesystemManager.ExtractStatData(path, info)
}

var _ ft.FilesystemManager = (*FaultyFilesystemManager)(nil)
