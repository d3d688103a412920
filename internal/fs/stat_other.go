//go:build !linux && !darwin && !windows

package fs

import (
	"io/fs"
	"runtime"

	"ft-go/internal/ft"
)

// ExtractStatData returns no extra times; callers fall back to mtime.
func (m *OSFilesystemManager) ExtractStatData(path string, info fs.FileInfo) (*ft.StatData, error) {
	return &ft.StatData{Platform: runtime.GOOS}, nil
}
