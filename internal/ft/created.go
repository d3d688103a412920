package ft

import (
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Time layouts used in creation-date reports.
const (
	isoLayout      = "2006-01-02T15:04:05.999999Z07:00"
	readableLayout = "2006-01-02 15:04:05"
)

// CreationInfo describes when a file was created, as best the platform can tell.
type CreationInfo struct {
	FilePath             string  `json:"file_path"`
	CreationTimestamp    float64 `json:"creation_timestamp"`
	CreationDate         string  `json:"creation_date"`
	CreationDateReadable string  `json:"creation_date_readable"`
	Source               string  `json:"source"`
	Platform             string  `json:"platform"`
	ModificationTime     float64 `json:"modification_time"`
	ModificationDate     string  `json:"modification_date"`
	AccessTime           float64 `json:"access_time"`
	AccessDate           string  `json:"access_date"`
	FileSize             int64   `json:"file_size"`

	Created  time.Time `json:"-"`
	Modified time.Time `json:"-"`
	Accessed time.Time `json:"-"`
}

// CreationTime picks the best available creation time for a file and returns
// it with a label naming where it came from. Birth time wins when the
// platform records it; otherwise ctime stands in, and mtime as a last resort.
func CreationTime(info fs.FileInfo, stat *StatData) (time.Time, string) {
	if stat == nil {
		return info.ModTime(), "mtime (modification time - creation time not available)"
	}
	if stat.BirthTime != nil {
		switch stat.Platform {
		case "windows":
			return *stat.BirthTime, "CreationTime (Windows creation time)"
		case "darwin":
			return *stat.BirthTime, "st_birthtime (macOS creation time)"
		case "linux":
			return *stat.BirthTime, "statx btime (Linux creation time)"
		default:
			return *stat.BirthTime, "birthtime (filesystem creation time)"
		}
	}
	if !stat.Ctime.IsZero() {
		if stat.Platform == "darwin" {
			return stat.Ctime, "st_ctime (metadata change time - creation time not available)"
		}
		return stat.Ctime, "st_ctime (metadata change time - creation time not available on this system)"
	}
	return info.ModTime(), "mtime (modification time - creation time not available on this system)"
}

// BucketKey returns the "YYYY-MM" folder name for t in t's location.
func BucketKey(t time.Time) string {
	return t.Format("2006-01")
}

// EpochSeconds converts t to fractional Unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// NewCreationInfo assembles a CreationInfo from resolved stat results.
func NewCreationInfo(absPath string, info fs.FileInfo, stat *StatData) *CreationInfo {
	created, source := CreationTime(info, stat)
	created = created.Local()
	modified := info.ModTime().Local()
	accessed := modified
	platform := ""
	if stat != nil {
		platform = stat.Platform
		if !stat.Atime.IsZero() {
			accessed = stat.Atime.Local()
		}
	}

	return &CreationInfo{
		FilePath:             absPath,
		CreationTimestamp:    EpochSeconds(created),
		CreationDate:         created.Format(isoLayout),
		CreationDateReadable: created.Format(readableLayout),
		Source:               source,
		Platform:             platform,
		ModificationTime:     EpochSeconds(modified),
		ModificationDate:     modified.Format(isoLayout),
		AccessTime:           EpochSeconds(accessed),
		AccessDate:           accessed.Format(isoLayout),
		FileSize:             info.Size(),
		Created:              created,
		Modified:             modified,
		Accessed:             accessed,
	}
}

// CreationInfo reports the creation time of the file at rawPath.
// It fails only when the path is empty, missing, not a regular file or unreadable.
func (s *FTService) CreationInfo(rawPath string) (*CreationInfo, error) {
	if strings.TrimSpace(rawPath) == "" {
		return nil, invalidPathf("file path cannot be empty")
	}

	p, err := s.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, invalidPathf("file does not exist: %s: %v", rawPath, err)
	}
	if p.IsDir() {
		return nil, invalidPathf("path is not a file: %s", rawPath)
	}

	f, err := s.fsmgr.Open(p.String())
	if err != nil {
		return nil, fmt.Errorf("%w: no read permission for file %s: %v", ErrPermission, rawPath, err)
	}
	f.Close()

	stat, err := s.fsmgr.ExtractStatData(p.String(), p.Info())
	if err != nil {
		// Fall back to mtime rather than failing an existing readable file.
		s.logger.Debug("stat data unavailable", "path", p.String(), "error", err)
		stat = nil
	}

	return NewCreationInfo(p.String(), p.Info(), stat), nil
}
