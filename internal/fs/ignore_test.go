package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.log", "!", "/"})
		if m.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", m.Len())
		}
	})

	t.Run("parses rule modifiers", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.log", "raw/*.cr2", "cache/", "!keep.log", "/top.txt"})
		want := []ignoreRule{
			{glob: "*.log"},
			{glob: "raw/*.cr2", anchored: true},
			{glob: "cache", dirOnly: true},
			{glob: "keep.log", negate: true},
			{glob: "top.txt", anchored: true},
		}
		if len(m.rules) != len(want) {
			t.Fatalf("got %d rules, want %d", len(m.rules), len(want))
		}
		for i, r := range m.rules {
			if r != want[i] {
				t.Errorf("rule %d = %+v, want %+v", i, r, want[i])
			}
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		rel   string
		isDir bool
		want  bool
	}{
		{name: "component glob in root", rules: []string{"*.log"}, rel: "app.log", want: true},
		{name: "component glob in subdirectory", rules: []string{"*.log"}, rel: filepath.Join("sub", "app.log"), want: true},
		{name: "different extension", rules: []string{"*.log"}, rel: "app.txt", want: false},
		{name: "ignore file itself", rules: defaultIgnorePatterns, rel: IgnoreFileName, want: true},
		{name: "ignored directory drops its files", rules: []string{"node_modules"}, rel: filepath.Join("web", "node_modules", "x", "a.js"), want: true},
		{name: "directory-only rule skips files", rules: []string{"cache/"}, rel: "cache", want: false},
		{name: "directory-only rule matches directory", rules: []string{"cache/"}, rel: "cache", isDir: true, want: true},
		{name: "directory-only rule matches contents", rules: []string{"cache/"}, rel: filepath.Join("cache", "blob"), want: true},
		{name: "anchored rule matches relative path", rules: []string{"raw/*.cr2"}, rel: filepath.Join("raw", "img.cr2"), want: true},
		{name: "anchored rule is rooted", rules: []string{"raw/*.cr2"}, rel: filepath.Join("trip", "raw", "img.cr2"), want: false},
		{name: "anchored rule matches whole directory", rules: []string{"build/output"}, rel: filepath.Join("build", "output", "main.o"), want: true},
		{name: "leading slash anchors a name", rules: []string{"/top.txt"}, rel: filepath.Join("sub", "top.txt"), want: false},
		{name: "negation re-includes", rules: []string{"*.log", "!keep.log"}, rel: "keep.log", want: false},
		{name: "last matching rule wins", rules: []string{"!keep.log", "*.log"}, rel: "keep.log", want: true},
		{name: "negation cannot rescue files under ignored directory", rules: []string{"logs/", "!keep.log"}, rel: filepath.Join("logs", "keep.log"), want: true},
		{name: "question mark", rules: []string{"?.txt"}, rel: "a.txt", want: true},
		{name: "question mark single char only", rules: []string{"?.txt"}, rel: "ab.txt", want: false},
		{name: "character class", rules: []string{"*.[oa]"}, rel: "main.o", want: true},
		{name: "malformed glob never matches", rules: []string{"[x"}, rel: "[x", want: false},
		{name: "no rules", rules: nil, rel: "anything.txt", want: false},
		{name: "empty path", rules: []string{"*.log"}, rel: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.rules)
			if got := m.Match(tt.rel, tt.isDir); got != tt.want {
				t.Errorf("Match(%q, %v) = %v, want %v", tt.rel, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("returns raw lines", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), IgnoreFileName)
		if err := os.WriteFile(path, []byte("*.log\n# comment\n\ncache/\n!keep.log\n"), 0o644); err != nil {
			t.Fatalf("writing ignore file: %v", err)
		}

		lines, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(lines) != 5 {
			t.Fatalf("got %d lines, want 5", len(lines))
		}
		if n := NewIgnoreMatcher(lines).Len(); n != 3 {
			t.Errorf("parsed %d rules, want 3", n)
		}
	})

	t.Run("missing file yields nothing", func(t *testing.T) {
		t.Parallel()
		lines, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if lines != nil {
			t.Errorf("lines = %v, want nil", lines)
		}
	})
}
