package ft_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"ft-go/internal/ft"
	"ft-go/internal/testutil"
)

func TestCreationTime(t *testing.T) {
	mtime := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ctime := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	birth := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	info := fstest.MapFS{"f": {Data: []byte("x"), ModTime: mtime}}
	fi, err := fs.Stat(info, "f")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	tests := []struct {
		name       string
		stat       *ft.StatData
		want       time.Time
		wantSource string
	}{
		{name: "no stat data", stat: nil, want: mtime, wantSource: "mtime"},
		{name: "linux birth time", stat: &ft.StatData{Ctime: ctime, BirthTime: &birth, Platform: "linux"}, want: birth, wantSource: "statx btime"},
		{name: "macOS birth time", stat: &ft.StatData{Ctime: ctime, BirthTime: &birth, Platform: "darwin"}, want: birth, wantSource: "st_birthtime"},
		{name: "windows creation time", stat: &ft.StatData{BirthTime: &birth, Platform: "windows"}, want: birth, wantSource: "CreationTime"},
		{name: "ctime fallback", stat: &ft.StatData{Ctime: ctime, Platform: "linux"}, want: ctime, wantSource: "st_ctime"},
		{name: "nothing but mtime", stat: &ft.StatData{Platform: "plan9"}, want: mtime, wantSource: "mtime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := ft.CreationTime(fi, tt.stat)
			if !got.Equal(tt.want) {
				t.Errorf("CreationTime() = %v, want %v", got, tt.want)
			}
			if !strings.HasPrefix(source, tt.wantSource) {
				t.Errorf("source = %q, want prefix %q", source, tt.wantSource)
			}
		})
	}
}

func TestBucketKey(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{t: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), want: "2024-01"},
		{t: time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC), want: "1999-12"},
		{t: time.Date(2024, 2, 29, 12, 0, 0, 0, time.FixedZone("x", 5*3600)), want: "2024-02"},
	}
	for _, tt := range tests {
		if got := ft.BucketKey(tt.t); got != tt.want {
			t.Errorf("BucketKey(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestEpochSeconds(t *testing.T) {
	got := ft.EpochSeconds(time.Unix(1700000000, 500000000))
	if got != 1700000000.5 {
		t.Errorf("EpochSeconds() = %v, want 1700000000.5", got)
	}
}

func TestFTService_CreationInfo(t *testing.T) {
	base := testutil.WriteTree(t, t.TempDir(), map[string]string{"photo.jpg": "jpeg bytes"})
	photo := filepath.Join(base, "photo.jpg")

	t.Run("existing file", func(t *testing.T) {
		svc := ft.NewFTService(testutil.NewFaultyFilesystemManager(), nil, ft.NewNopLogger(), testutil.FixedClock(), 0)
		info, err := svc.CreationInfo(photo)
		if err != nil {
			t.Fatalf("CreationInfo() error = %v", err)
		}
		if info.FilePath != photo || info.FileSize != int64(len("jpeg bytes")) {
			t.Errorf("info = %+v", info)
		}
		if info.Source == "" || info.Platform == "" {
			t.Errorf("source/platform missing: %+v", info)
		}
		if info.CreationDate != info.Created.Format("2006-01-02T15:04:05.999999Z07:00") {
			t.Errorf("CreationDate = %q", info.CreationDate)
		}
	})

	t.Run("stat data failure falls back to mtime", func(t *testing.T) {
		fsmgr := testutil.NewFaultyFilesystemManager()
		fsmgr.StatDataErr = testutil.ErrInjected
		svc := ft.NewFTService(fsmgr, nil, ft.NewNopLogger(), testutil.FixedClock(), 0)

		info, err := svc.CreationInfo(photo)
		if err != nil {
			t.Fatalf("CreationInfo() error = %v", err)
		}
		if !strings.HasPrefix(info.Source, "mtime") || !info.Created.Equal(info.Modified) {
			t.Errorf("Source = %q, Created = %v, Modified = %v", info.Source, info.Created, info.Modified)
		}
	})

	errTests := []struct {
		name    string
		path    string
		openErr error
		wantErr error
	}{
		{name: "empty path", path: " ", wantErr: ft.ErrInvalidPath},
		{name: "missing file", path: filepath.Join(base, "missing.jpg"), wantErr: ft.ErrInvalidPath},
		{name: "directory", path: base, wantErr: ft.ErrInvalidPath},
		{name: "unreadable", path: photo, openErr: fs.ErrPermission, wantErr: ft.ErrPermission},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			fsmgr := testutil.NewFaultyFilesystemManager()
			if tt.openErr != nil {
				fsmgr.OpenErr[tt.path] = tt.openErr
			}
			svc := ft.NewFTService(fsmgr, nil, ft.NewNopLogger(), testutil.FixedClock(), 0)
			_, err := svc.CreationInfo(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreationInfo() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
