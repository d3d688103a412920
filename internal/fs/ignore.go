package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the per-root file listing additional ignore patterns.
const IgnoreFileName = ".ftignore"

// defaultIgnorePatterns are always applied regardless of config or .ftignore.
var defaultIgnorePatterns = []string{IgnoreFileName}

type ignoreRule struct {
	glob     string
	anchored bool // glob contains '/' and is matched against the whole relative path
	dirOnly  bool // trailing '/': matches directories only
	negate   bool // leading '!': re-includes what earlier rules excluded
}

// IgnoreMatcher decides which entries of a scan root are left out.
//
// Rule syntax, one per line:
//
//	*.log        no '/': matches any single path component, so a matching
//	             directory drops everything below it
//	raw/*.cr2    contains '/': matched against the slash path from the root
//	cache/       trailing '/': directories only
//	!keep.log    re-include; the last matching rule wins
//
// Nothing below an ignored directory can be re-included.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher parses rules. Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var r ignoreRule
		if strings.HasPrefix(line, "!") {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimRight(line, "/")
		}
		if strings.Contains(line, "/") {
			r.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" {
			continue
		}
		r.glob = line
		m.rules = append(m.rules, r)
	}
	return m
}

// Len returns the number of parsed rules.
func (m *IgnoreMatcher) Len() int {
	return len(m.rules)
}

// Match reports whether relativePath, or any directory above it, is ignored.
// isDir says whether relativePath itself is a directory.
func (m *IgnoreMatcher) Match(relativePath string, isDir bool) bool {
	if len(m.rules) == 0 {
		return false
	}

	parts := strings.Split(filepath.ToSlash(relativePath), "/")
	for i := range parts {
		dir := isDir || i < len(parts)-1
		if m.excludes(parts[:i+1], dir) {
			return true
		}
	}
	return false
}

// excludes applies every rule to one path prefix; the last match decides.
func (m *IgnoreMatcher) excludes(parts []string, isDir bool) bool {
	name := parts[len(parts)-1]
	full := strings.Join(parts, "/")

	excluded := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		target := name
		if r.anchored {
			target = full
		}
		// path.Match only fails on malformed globs, which never match.
		if ok, err := path.Match(r.glob, target); err == nil && ok {
			excluded = !r.negate
		}
	}
	return excluded
}

// ParseIgnoreFile reads an ignore file and returns its lines.
// A missing file yields no lines and no error.
func ParseIgnoreFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
