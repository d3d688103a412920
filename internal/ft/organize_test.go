package ft_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"ft-go/internal/ft"
	"ft-go/internal/testutil"
)

func setMtime(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestFTService_Organize(t *testing.T) {
	march := time.Date(2023, 3, 10, 12, 0, 0, 0, time.Local)
	december := time.Date(2024, 12, 1, 12, 0, 0, 0, time.Local)

	setup := func(t *testing.T) (src, dst string, svc *ft.FTService, log *testutil.MemoryAuditLog) {
		t.Helper()
		base := testutil.WriteTree(t, t.TempDir(), map[string]string{
			"src/a.jpg":     "first",
			"src/sub/a.jpg": "second",
			"src/b.txt":     "notes",
			"src/.hidden":   "dotfile",
		})
		src = filepath.Join(base, "src")
		dst = filepath.Join(base, "organized")
		setMtime(t, filepath.Join(src, "a.jpg"), march)
		setMtime(t, filepath.Join(src, "sub", "a.jpg"), march.AddDate(0, 0, 10))
		setMtime(t, filepath.Join(src, "b.txt"), december)

		log = &testutil.MemoryAuditLog{}
		svc = ft.NewFTService(testutil.NewFaultyFilesystemManager(), log, ft.NewNopLogger(), testutil.FixedClock(), 0)
		return src, dst, svc, log
	}

	t.Run("buckets by modification month with suffixes for clashes", func(t *testing.T) {
		src, dst, svc, log := setup(t)
		out := &bytes.Buffer{}

		res, err := svc.Organize(context.Background(), ft.NewRunContext("run-1", out, false), src, dst, ft.OrganizeOptions{DateSource: ft.DateModified})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		if res.Total != 3 || res.Moved != 3 || res.Errors != 0 {
			t.Errorf("result = %+v, want 3 moved", res)
		}
		if want := []string{"2023-03", "2024-12"}; !slices.Equal(res.Folders, want) {
			t.Errorf("Folders = %v, want %v", res.Folders, want)
		}
		for rel, content := range map[string]string{
			"2023-03/a.jpg":   "first",
			"2023-03/a_1.jpg": "second",
			"2024-12/b.txt":   "notes",
		} {
			if got := testutil.ReadFile(t, filepath.Join(dst, filepath.FromSlash(rel))); got != content {
				t.Errorf("%s = %q, want %q", rel, got, content)
			}
		}
		if !testutil.Exists(filepath.Join(src, ".hidden")) {
			t.Error("excluded dotfile moved")
		}
		if n := len(log.ByOperation(ft.OpMoved)); n != 3 {
			t.Errorf("moved entries = %d, want 3", n)
		}
		if !strings.Contains(out.String(), "Moved: b.txt -> 2024-12/") {
			t.Errorf("output:\n%s", out)
		}
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		src, dst, svc, log := setup(t)
		out := &bytes.Buffer{}

		res, err := svc.Organize(context.Background(), ft.NewRunContext("run-1", out, false), src, dst, ft.OrganizeOptions{DryRun: true, DateSource: ft.DateModified})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		if res.Moved != 3 {
			t.Errorf("Moved = %d, want 3 would-move", res.Moved)
		}
		if testutil.Exists(filepath.Join(dst, "2023-03")) {
			t.Error("date folder created in dry run")
		}
		if !testutil.Exists(filepath.Join(src, "a.jpg")) {
			t.Error("file moved in dry run")
		}
		if len(log.Entries) != 0 {
			t.Errorf("audit entries in dry run: %+v", log.Entries)
		}
		if !strings.Contains(out.String(), "DRY RUN") || !strings.Contains(out.String(), "Would move: a.jpg -> 2023-03/") {
			t.Errorf("output:\n%s", out)
		}
	})

	t.Run("include filter and destination inside source", func(t *testing.T) {
		src, _, svc, _ := setup(t)
		dst := filepath.Join(src, "organized")

		res, err := svc.Organize(context.Background(), ft.NewRunContext("run-1", nil, true), src, dst, ft.OrganizeOptions{
			DateSource: ft.DateModified,
			Include:    []string{"*.jpg"},
		})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}
		if res.Moved != 2 {
			t.Errorf("Moved = %d, want 2", res.Moved)
		}
		if !testutil.Exists(filepath.Join(src, "b.txt")) {
			t.Error("non-matching file moved")
		}

		again, err := svc.Organize(context.Background(), ft.NewRunContext("run-2", nil, true), src, dst, ft.OrganizeOptions{
			DateSource: ft.DateModified,
			Include:    []string{"*.jpg"},
		})
		if err != nil {
			t.Fatalf("second Organize() error = %v", err)
		}
		if again.Total != 0 {
			t.Errorf("second run Total = %d, want 0", again.Total)
		}
	})

	t.Run("move failure is counted", func(t *testing.T) {
		src, dst, _, log := setup(t)
		fsmgr := testutil.NewFaultyFilesystemManager()
		fsmgr.MoveErr[filepath.Join(src, "b.txt")] = testutil.ErrInjected
		svc := ft.NewFTService(fsmgr, log, ft.NewNopLogger(), testutil.FixedClock(), 0)

		res, err := svc.Organize(context.Background(), ft.NewRunContext("run-1", nil, false), src, dst, ft.OrganizeOptions{DateSource: ft.DateModified})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}
		if res.Moved != 2 || res.Errors != 1 {
			t.Errorf("result = %+v, want moved=2 errors=1", res)
		}
		if !testutil.Exists(filepath.Join(src, "b.txt")) {
			t.Error("failed file removed")
		}
	})

	t.Run("created date source uses the reported creation time", func(t *testing.T) {
		src, dst, svc, _ := setup(t)
		info, err := svc.CreationInfo(filepath.Join(src, "b.txt"))
		if err != nil {
			t.Fatalf("CreationInfo() error = %v", err)
		}
		want := ft.BucketKey(info.Created)

		if _, err := svc.Organize(context.Background(), ft.NewRunContext("run-1", nil, true), src, dst, ft.OrganizeOptions{DateSource: ft.DateCreated}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}
		if !testutil.Exists(filepath.Join(dst, want, "b.txt")) {
			t.Errorf("b.txt not in %s", want)
		}
	})
}
