package ft_test

import (
	"errors"
	"path/filepath"
	"testing"

	"ft-go/internal/ft"
)

func TestIsWithin(t *testing.T) {
	root := filepath.FromSlash("/data/src")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "root itself", path: root, want: true},
		{name: "direct child", path: filepath.Join(root, "a.txt"), want: true},
		{name: "nested", path: filepath.Join(root, "a", "b", "c"), want: true},
		{name: "sibling with shared prefix", path: filepath.FromSlash("/data/src2/a.txt"), want: false},
		{name: "parent", path: filepath.FromSlash("/data"), want: false},
		{name: "dot-dot named file", path: filepath.Join(root, "..data"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ft.IsWithin(tt.path, root); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, root, got, tt.want)
			}
		})
	}
}

func TestSafeJoin(t *testing.T) {
	root := filepath.FromSlash("/data/dest")
	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr bool
	}{
		{name: "simple", rel: filepath.Join("a", "y.txt"), want: filepath.Join(root, "a", "y.txt")},
		{name: "cleaned inner dot-dot", rel: filepath.Join("a", "..", "b.txt"), want: filepath.Join(root, "b.txt")},
		{name: "escape", rel: filepath.Join("..", "evil.txt"), wantErr: true},
		{name: "deep escape", rel: filepath.Join("a", "..", "..", "evil.txt"), wantErr: true},
		{name: "absolute", rel: filepath.FromSlash("/etc/passwd"), wantErr: true},
		{name: "empty", rel: "", wantErr: true},
		{name: "root itself", rel: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ft.SafeJoin(root, tt.rel)
			if tt.wantErr {
				if !errors.Is(err, ft.ErrInvalidPath) {
					t.Errorf("SafeJoin(%q) error = %v, want ErrInvalidPath", tt.rel, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoin(%q) error = %v", tt.rel, err)
			}
			if got != tt.want {
				t.Errorf("SafeJoin(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}
