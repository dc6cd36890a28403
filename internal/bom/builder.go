package bom

import (
	"fmt"
	"path/filepath"
)

// FileOptions controls how AddFile records a file
type FileOptions struct {
	// Executable marks the file for shared library discovery
	Executable bool
	// WithHash pins the current content of the file
	WithHash bool
	// HashPath is where the file is read from when hashing, defaults to path
	HashPath string
}

// AddFile appends a file entry. outputDir is the destination directory.
func (m *Manifest) AddFile(path, outputDir string, opts FileOptions) error {
	entry := File{
		Path:       path,
		OutputPath: outputDir,
	}

	if opts.WithHash {
		src := opts.HashPath
		if src == "" {
			src = path
		}
		hash, err := HashFile(src)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", src, err)
		}
		entry.Hash = &hash
	}

	if opts.Executable {
		executable := true
		entry.TargetExecutable = &executable
	}

	m.Files = append(m.Files, entry)
	return nil
}

// AddDirectory appends a directory entry whose contents land in
// outputDir/<base name of path>
func (m *Manifest) AddDirectory(path, outputDir string) {
	source := path
	m.Directories = append(m.Directories, Directory{
		Path:       &source,
		OutputPath: filepath.Join(outputDir, filepath.Base(path)),
	})
}

// AddEmptyDirectory appends an entry that creates an empty directory
func (m *Manifest) AddEmptyDirectory(outputPath string) {
	m.Directories = append(m.Directories, Directory{OutputPath: outputPath})
}

// AddInclude appends another bom file to the include list
func (m *Manifest) AddInclude(path string) {
	m.Include = append(m.Include, path)
}

// RefreshHashes recomputes the hash of every file that already has one.
// Sources are resolved relative to manifestPath. It returns the number of
// entries whose hash changed.
func (m *Manifest) RefreshHashes(manifestPath string) (int, error) {
	changed := 0
	for i := range m.Files {
		f := &m.Files[i]
		if !f.HasHash() {
			continue
		}
		hash, err := HashFile(Resolve(manifestPath, f.Path))
		if err != nil {
			return changed, err
		}
		if !SameHash(*f.Hash, hash) {
			changed++
		}
		f.Hash = &hash
	}
	return changed, nil
}
