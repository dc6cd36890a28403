package stage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"imgbom/internal/bom"
	"imgbom/internal/plan"
)

// Stager executes plans against the filesystem
type Stager struct {
	copier Copier
	logger *log.Logger
	dryRun bool
}

// NewStager creates a stager that copies through copier
func NewStager(copier Copier, logger *log.Logger, dryRun bool) *Stager {
	return &Stager{
		copier: copier,
		logger: logger,
		dryRun: dryRun,
	}
}

// Result counts the actions Apply performed
type Result struct {
	CreatedDirs int
	CopiedDirs  int
	CopiedFiles int
	Skipped     int
}

// Apply creates directories, then copies directories, then copies files.
// Every action is verified afterwards: a copied file must exist and a copied
// directory must hold the source's top-level entries. The first failure
// aborts the run.
func (s *Stager) Apply(p *plan.Plan) (Result, error) {
	var res Result

	for _, dir := range p.CreateDirList() {
		if isDir(dir) {
			s.logger.Debug("directory exists", "path", dir)
			res.Skipped++
			continue
		}
		s.logger.Info("create dir", "path", dir)
		if s.dryRun {
			continue
		}
		if err := mkdir(dir); err != nil {
			return res, err
		}
		res.CreatedDirs++
	}

	for _, c := range p.CopyDirList() {
		s.logger.Info("copy directory", "from", c.From, "to", c.To)
		if s.dryRun {
			continue
		}
		if err := mkdir(c.To); err != nil {
			return res, err
		}
		if err := s.copier.CopyTree(c.From, c.To); err != nil {
			return res, &bom.Error{Kind: bom.KindCopyFailure, Path: c.From, Other: c.To, Err: err}
		}
		if err := verifyTree(c.From, c.To); err != nil {
			return res, &bom.Error{Kind: bom.KindCopyFailure, Path: c.From, Other: c.To, Err: err}
		}
		res.CopiedDirs++
	}

	for _, c := range p.CopyFileList() {
		s.logger.Info("copy file", "from", c.From, "to", c.To)
		if s.dryRun {
			continue
		}
		if err := mkdir(filepath.Dir(c.To)); err != nil {
			return res, err
		}
		if err := s.copier.CopyFile(c.From, c.To); err != nil {
			return res, &bom.Error{Kind: bom.KindCopyFailure, Path: c.From, Other: c.To, Err: err}
		}
		if !isFile(c.To) {
			return res, &bom.Error{Kind: bom.KindCopyFailure, Path: c.From, Other: c.To}
		}
		res.CopiedFiles++
	}

	return res, nil
}

// mkdir creates dir and its parents, verifying the result
func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &bom.Error{Kind: bom.KindDirectoryCreation, Path: dir, Err: err}
	}
	if !isDir(dir) {
		return &bom.Error{Kind: bom.KindDirectoryCreation, Path: dir, Err: fmt.Errorf("not a directory after create")}
	}
	return nil
}

// verifyTree checks that dst is a directory holding every top-level entry of src
func verifyTree(src, dst string) error {
	if !isDir(dst) {
		return fmt.Errorf("%s is not a directory after copy", dst)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := os.Stat(filepath.Join(dst, entry.Name())); err != nil {
			return fmt.Errorf("%s missing after copy", entry.Name())
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
