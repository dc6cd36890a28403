package bom

// Manifest represents one bom file.
// Every field is optional; an empty manifest stages nothing.
type Manifest struct {
	Include     []string    `toml:"include,omitempty"`
	Files       []File      `toml:"files,omitempty"`
	Directories []Directory `toml:"directories,omitempty"`
}

// File is a regular file to stage. OutputPath is the destination directory;
// the staged file keeps the base name of Path.
type File struct {
	Path             string  `toml:"path"`
	Hash             *string `toml:"hash,omitempty"`
	OutputPath       string  `toml:"output_path"`
	TargetExecutable *bool   `toml:"target_executable,omitempty"`
}

// Directory is a directory to stage. A nil Path creates an empty directory
// at OutputPath, otherwise the contents of Path are copied there.
type Directory struct {
	Path       *string `toml:"path,omitempty"`
	OutputPath string  `toml:"output_path"`
}

// IsTargetExecutable reports whether shared library dependencies of the file
// should be staged too
func (f File) IsTargetExecutable() bool {
	return f.TargetExecutable != nil && *f.TargetExecutable
}

// HasHash reports whether the file content is pinned
func (f File) HasHash() bool {
	return f.Hash != nil
}

// HasSource reports whether the directory is copied rather than created
func (d Directory) HasSource() bool {
	return d.Path != nil
}

// New creates an empty manifest
func New() *Manifest {
	return &Manifest{}
}

// IsEmpty reports whether the manifest lists nothing
func (m *Manifest) IsEmpty() bool {
	return len(m.Include) == 0 && len(m.Files) == 0 && len(m.Directories) == 0
}
