package ft

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Path represents a validated filesystem path with cached metadata.
// Path objects are created by FilesystemManager.Resolve() which validates
// the path exists, canonicalizes it, and caches stat info.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the canonical absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}

// IsWithin reports whether path is root itself or lies below it.
// Both arguments must be absolute and cleaned.
func IsWithin(path, root string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// SafeJoin joins rel onto root and rejects any result that escapes root.
func SafeJoin(root, rel string) (string, error) {
	if rel == "" {
		return "", invalidPathf("empty relative path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" {
		return "", invalidPathf("absolute path not allowed as sub-path: %s", rel)
	}
	joined := filepath.Join(root, cleaned)
	if joined == root || !IsWithin(joined, root) {
		return "", invalidPathf("path escapes root %s: %s", root, rel)
	}
	return joined, nil
}

// slashRel returns the forward-slash form of a relative path, used as the sort key.
func slashRel(rel string) string {
	return filepath.ToSlash(rel)
}
