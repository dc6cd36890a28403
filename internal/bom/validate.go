package bom

import (
	"os"
)

// Validate checks that everything m references exists and that pinned
// files still have their recorded hash. Includes are checked first, then
// directories, then files; the first problem is returned.
func Validate(m *Manifest, manifestPath string) error {
	for _, include := range m.Include {
		p := Resolve(manifestPath, include)
		if !isFile(p) {
			return &Error{Kind: KindMissingInclude, Path: p}
		}
	}

	for _, d := range m.Directories {
		if !d.HasSource() {
			continue
		}
		p := Resolve(manifestPath, *d.Path)
		if !isDir(p) {
			return &Error{Kind: KindMissingDirectory, Path: p}
		}
	}

	for _, f := range m.Files {
		p := Resolve(manifestPath, f.Path)
		if !isFile(p) {
			return &Error{Kind: KindMissingFile, Path: p}
		}
		if !f.HasHash() {
			continue
		}
		hash, err := HashFile(p)
		if err != nil {
			return &Error{Kind: KindMissingFile, Path: p, Err: err}
		}
		if !SameHash(hash, *f.Hash) {
			return &Error{Kind: KindHashMismatch, Path: p, Hash: hash}
		}
	}

	return nil
}

// ValidateRecursive validates m and then every manifest reachable through
// its includes, each against its own location
func ValidateRecursive(m *Manifest, manifestPath string) error {
	if err := Validate(m, manifestPath); err != nil {
		return err
	}

	tree, err := TreeFrom(manifestPath, m)
	if err != nil {
		return err
	}
	return tree.ValidateIncluded()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
