package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"ft-go/internal/ft"
)

// DefaultExcludePatterns are used by CollectFiles when no exclude patterns are given.
var DefaultExcludePatterns = []string{".*", "*.tmp", "*.swp", "*.bak", "__pycache__", ".DS_Store"}

// CollectFiles expands paths into a sorted, de-duplicated list of absolute
// regular files. Paths that are missing or unreadable produce warnings.
// Symlinks found inside directories are not followed.
func (m *OSFilesystemManager) CollectFiles(paths []string, opts ft.CollectOptions) ([]string, []error) {
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExcludePatterns
	}
	c := &collector{
		opts:    opts,
		exclude: exclude,
		seen:    make(map[string]bool),
	}

	for _, raw := range paths {
		info, err := os.Stat(raw)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.warn(fmt.Errorf("path does not exist: %s", raw))
			} else {
				c.warn(fmt.Errorf("cannot access %s: %w", raw, err))
			}
			continue
		}

		abs, err := filepath.Abs(raw)
		if err != nil {
			c.warn(fmt.Errorf("resolving %s: %w", raw, err))
			continue
		}
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			abs = real
		}

		switch {
		case info.Mode().IsRegular():
			if c.wanted(abs) {
				c.add(abs)
			}
		case info.IsDir():
			c.walk(abs, 0)
		default:
			c.warn(fmt.Errorf("skipping special file: %s", raw))
		}
	}

	slices.Sort(c.files)
	return c.files, c.warnings
}

type collector struct {
	opts     ft.CollectOptions
	exclude  []string
	files    []string
	warnings []error
	seen     map[string]bool
}

func (c *collector) warn(err error) {
	c.warnings = append(c.warnings, err)
}

func (c *collector) add(path string) {
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	c.files = append(c.files, path)
}

func (c *collector) walk(dir string, depth int) {
	if c.opts.MaxDepth >= 0 && depth > c.opts.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.warn(fmt.Errorf("cannot access directory %s: %w", dir, err))
		return
	}

	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		switch {
		case entry.Type().IsRegular():
			if c.wanted(p) {
				c.add(p)
			}
		case entry.IsDir():
			if c.opts.Recursive && !matchAny(c.exclude, entry.Name(), p) {
				c.walk(p, depth+1)
			}
		}
	}
}

// wanted applies exclude patterns first, then include patterns if any were given.
func (c *collector) wanted(path string) bool {
	name := filepath.Base(path)
	if matchAny(c.exclude, name, path) {
		return false
	}
	if len(c.opts.Include) == 0 {
		return true
	}
	return matchAny(c.opts.Include, name, path)
}

// matchAny reports whether any pattern matches either the base name or the full path.
func matchAny(patterns []string, name, path string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
