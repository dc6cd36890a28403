package bom

import (
	"path/filepath"
)

// Resolve converts a path written inside the manifest at manifestPath into a
// path usable from the current working directory. Absolute paths are
// returned as-is; relative ones are joined to the manifest's directory.
// The result is cleaned but not required to exist.
func Resolve(manifestPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(manifestPath), p)
}

// Relativize is the inverse of Resolve: it rewrites p, given relative to the
// working directory, so that Resolve(manifestPath, result) points at the
// same location. Absolute paths are kept.
func Relativize(manifestPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	dir := filepath.Dir(manifestPath)
	if dir == "." {
		return filepath.Clean(p)
	}
	if filepath.IsAbs(dir) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		p = abs
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return p
	}
	return rel
}
