//go:build windows

package fs

import (
	"fmt"
	"io/fs"
	"runtime"
	"syscall"
	"time"

	"ft-go/internal/ft"
)

// ExtractStatData extracts Windows file times. Windows has no ctime.
func (m *OSFilesystemManager) ExtractStatData(path string, info fs.FileInfo) (*ft.StatData, error) {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Win32FileAttributeData, got %T", info.Sys())
	}

	birth := time.Unix(0, attrs.CreationTime.Nanoseconds())
	return &ft.StatData{
		Atime:     time.Unix(0, attrs.LastAccessTime.Nanoseconds()),
		BirthTime: &birth,
		Platform:  runtime.GOOS,
	}, nil
}
