//go:build darwin

package fs

import (
	"fmt"
	"io/fs"
	"runtime"
	"syscall"
	"time"

	"ft-go/internal/ft"
)

// ExtractStatData extracts macOS stat data, including st_birthtime.
func (m *OSFilesystemManager) ExtractStatData(path string, info fs.FileInfo) (*ft.StatData, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}

	birth := time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
	return &ft.StatData{
		Atime:     time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec),
		Ctime:     time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec),
		BirthTime: &birth,
		Platform:  runtime.GOOS,
	}, nil
}
