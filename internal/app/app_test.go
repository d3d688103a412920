package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ft-go/internal/config"
	"ft-go/internal/ft"
	"ft-go/internal/testutil"
)

func newTestApp(t *testing.T, opts Options) (*FTApp, *config.Config, *bytes.Buffer) {
	t.Helper()
	cfg := config.NewConfig(t.TempDir())
	out := &bytes.Buffer{}
	opts.Out = out
	a, err := newFTApp(cfg, opts, testutil.NewFaultyFilesystemManager(), testutil.FixedClock(), testutil.NewStubIDGenerator())
	if err != nil {
		t.Fatalf("newFTApp() error = %v", err)
	}
	return a, cfg, out
}

func TestFTApp_FindDuplicates(t *testing.T) {
	base := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"src/a/x.txt": "hi",
		"src/a/y.txt": "hi",
		"src/b/z.txt": "bye",
	})
	csvPath := filepath.Join(base, "logs", "audit.csv")
	a, cfg, out := newTestApp(t, Options{Operation: "FindDuplicates", CSVLog: csvPath})
	if !strings.Contains(out.String(), "Initialized CSV log: "+csvPath) {
		t.Errorf("missing CSV log notice, output:\n%s", out)
	}

	rc, res, err := a.FindDuplicates(context.Background(), filepath.Join(base, "src"), filepath.Join(base, "dst"), false)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if rc.ID != "run-1" || a.RunID() != "run-1" {
		t.Errorf("run ID = %q, want run-1", rc.ID)
	}
	if rc.Stats.Moved != 1 || res.Classification.Unique != 2 {
		t.Errorf("stats = %+v", rc.Stats)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	csv := testutil.ReadFile(t, csvPath)
	if lines := strings.Count(csv, "\n"); lines != 1+3+1 {
		t.Errorf("audit log has %d lines, want header + 3 processed + 1 moved:\n%s", lines, csv)
	}

	log := testutil.ReadFile(t, filepath.Join(cfg.LogDir, LogFileName))
	for _, want := range []string{"\trun-1\toperation started", "\trun-1\tfile moved", "status=success"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}

func TestFTApp_CSVLogUnavailable(t *testing.T) {
	base := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"src/a.txt": "hi",
		"src/b.txt": "hi",
		"blocker":   "a file where a directory is needed",
	})
	a, _, out := newTestApp(t, Options{Operation: "FindDuplicates", CSVLog: filepath.Join(base, "blocker", "audit.csv")})
	defer a.Close()

	if !strings.Contains(out.String(), "Warning: Could not open CSV log") {
		t.Errorf("missing warning, output:\n%s", out)
	}

	rc, _, err := a.FindDuplicates(context.Background(), filepath.Join(base, "src"), filepath.Join(base, "dst"), true)
	if err != nil {
		t.Fatalf("FindDuplicates() error = %v", err)
	}
	if rc.Stats.Moved != 1 {
		t.Errorf("Moved = %d, want 1", rc.Stats.Moved)
	}
}

func TestFTApp_FailedOperationIsLogged(t *testing.T) {
	a, cfg, _ := newTestApp(t, Options{Operation: "Organize"})

	_, _, err := a.Organize(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir(), ft.OrganizeOptions{DateSource: ft.DateModified}, true)
	if err == nil {
		t.Fatal("Organize() expected error")
	}
	a.Close()

	log := testutil.ReadFile(t, filepath.Join(cfg.LogDir, LogFileName))
	if !strings.Contains(log, "status=error") {
		t.Errorf("log missing failure status:\n%s", log)
	}
}

func TestFTApp_CreatedCommandHelpers(t *testing.T) {
	base := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"one.txt":     "1",
		"dir/two.txt": "2",
		"dir/.skip":   "s",
	})
	a, _, _ := newTestApp(t, Options{Operation: "Created"})
	defer a.Close()

	files, warnings := a.CollectFiles([]string{base, filepath.Join(base, "ghost")}, ft.CollectOptions{Recursive: true, MaxDepth: -1})
	if len(files) != 2 || len(warnings) != 1 {
		t.Fatalf("files = %v, warnings = %v", files, warnings)
	}

	info, err := a.CreationInfo(files[0])
	if err != nil {
		t.Fatalf("CreationInfo() error = %v", err)
	}
	if info.FilePath != files[0] {
		t.Errorf("FilePath = %q, want %q", info.FilePath, files[0])
	}
	if _, err := os.Stat(info.FilePath); err != nil {
		t.Errorf("reported path does not exist: %v", err)
	}
}
