package stage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Copier copies file content or directory contents. Symbolic links are
// followed and attributes preserved.
type Copier interface {
	// CopyFile copies the file src to the path dst
	CopyFile(src, dst string) error
	// CopyTree copies the contents of directory src into directory dst
	CopyTree(src, dst string) error
}

// NativeCopier copies with the os package
type NativeCopier struct{}

// CopyFile copies src to dst, keeping permission bits and modification time
func (NativeCopier) CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}
	return copyFile(src, dst, info)
}

// CopyTree copies the contents of src into dst recursively
func (NativeCopier) CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}
	return copyDir(src, dst, info)
}

func copyDir(src, dst string, info os.FileInfo) error {
	if err := os.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return err
	}
	// a previous run may have left dst with the source's read-only mode
	if err := os.Chmod(dst, info.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat rather than the dir entry type so symlinks are followed
		entryInfo, err := os.Stat(srcPath)
		if err != nil {
			return err
		}

		if entryInfo.IsDir() {
			if err := copyDir(srcPath, dstPath, entryInfo); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath, entryInfo); err != nil {
				return err
			}
		}
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// Write next to dst and rename over it, so a read-only file left by an
	// earlier run is replaced rather than opened for writing.
	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	tmp := out.Name()
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, info.Mode().Perm()); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// RsyncCopier copies with rsync -aL
type RsyncCopier struct {
	Command string
}

// NewRsyncCopier creates a copier for the rsync binary at command
func NewRsyncCopier(command string) *RsyncCopier {
	if command == "" {
		command = "rsync"
	}
	return &RsyncCopier{Command: command}
}

// CopyFile copies src to dst
func (r *RsyncCopier) CopyFile(src, dst string) error {
	return r.run("-aL", src, dst)
}

// CopyTree copies the contents of src into dst
func (r *RsyncCopier) CopyTree(src, dst string) error {
	return r.run("-aL", withSlash(src), withSlash(dst))
}

func (r *RsyncCopier) run(args ...string) error {
	cmd := exec.Command(r.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg != "" {
			return fmt.Errorf("%w\n%s", err, errMsg)
		}
		return err
	}
	return nil
}

// withSlash makes rsync treat path as "the contents of" the directory
func withSlash(path string) string {
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}
	return path + string(filepath.Separator)
}
