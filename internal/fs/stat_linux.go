//go:build linux

package fs

import (
	"fmt"
	"io/fs"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"ft-go/internal/ft"
)

// ExtractStatData extracts Linux stat data. Birth time comes from statx and
// is only set when the filesystem reports it.
func (m *OSFilesystemManager) ExtractStatData(path string, info fs.FileInfo) (*ft.StatData, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}

	data := &ft.StatData{
		Atime:    time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)),
		Ctime:    time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)),
		Platform: runtime.GOOS,
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		birth := time.Unix(int64(stx.Btime.Sec), int64(stx.Btime.Nsec))
		data.BirthTime = &birth
	}

	return data, nil
}
