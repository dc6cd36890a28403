package plan

import (
	"context"
	"path/filepath"
	"sort"

	"imgbom/internal/bom"
	"imgbom/internal/deps"
)

// Copy is one copy action
type Copy struct {
	From string
	To   string
}

// Plan is the set of filesystem actions that materialize one manifest.
// The fields are sets, so duplicate entries collapse.
type Plan struct {
	CreateDirs map[string]struct{}
	CopyDirs   map[Copy]struct{}
	CopyFiles  map[Copy]struct{}
}

// New creates an empty plan
func New() *Plan {
	return &Plan{
		CreateDirs: make(map[string]struct{}),
		CopyDirs:   make(map[Copy]struct{}),
		CopyFiles:  make(map[Copy]struct{}),
	}
}

// Merge adds every action of other to p
func (p *Plan) Merge(other *Plan) {
	for d := range other.CreateDirs {
		p.CreateDirs[d] = struct{}{}
	}
	for c := range other.CopyDirs {
		p.CopyDirs[c] = struct{}{}
	}
	for c := range other.CopyFiles {
		p.CopyFiles[c] = struct{}{}
	}
}

// Len returns the total number of actions
func (p *Plan) Len() int {
	return len(p.CreateDirs) + len(p.CopyDirs) + len(p.CopyFiles)
}

// CreateDirList returns the directories to create, sorted
func (p *Plan) CreateDirList() []string {
	dirs := make([]string, 0, len(p.CreateDirs))
	for d := range p.CreateDirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// CopyDirList returns the directory copies, sorted
func (p *Plan) CopyDirList() []Copy {
	return sortedCopies(p.CopyDirs)
}

// CopyFileList returns the file copies, sorted
func (p *Plan) CopyFileList() []Copy {
	return sortedCopies(p.CopyFiles)
}

func sortedCopies(set map[Copy]struct{}) []Copy {
	copies := make([]Copy, 0, len(set))
	for c := range set {
		copies = append(copies, c)
	}
	sort.Slice(copies, func(i, j int) bool {
		if copies[i].To != copies[j].To {
			return copies[i].To < copies[j].To
		}
		return copies[i].From < copies[j].From
	})
	return copies
}

// Planner turns manifests into plans
type Planner struct {
	discoverer *deps.Discoverer
}

// NewPlanner creates a planner. Shared library discovery for target
// executables goes through discoverer.
func NewPlanner(discoverer *deps.Discoverer) *Planner {
	return &Planner{discoverer: discoverer}
}

// Plan computes the actions for m alone; included manifests are not
// visited. Dependencies of all target executables are collected first and
// folded into CopyFiles at the end, so a library shared by several
// executables is copied once.
func (pl *Planner) Plan(ctx context.Context, m *bom.Manifest, manifestPath string) (*Plan, error) {
	p := New()
	libraries := make(map[deps.Dependency]struct{})

	for _, f := range m.Files {
		from := bom.Resolve(manifestPath, f.Path)
		toDir := bom.Resolve(manifestPath, f.OutputPath)
		p.CopyFiles[Copy{From: from, To: filepath.Join(toDir, filepath.Base(from))}] = struct{}{}

		if !f.IsTargetExecutable() {
			continue
		}
		found, err := pl.discoverer.Discover(ctx, from)
		if err != nil {
			return nil, err
		}
		for _, dep := range found {
			libraries[dep] = struct{}{}
		}
	}

	for _, d := range m.Directories {
		to := bom.Resolve(manifestPath, d.OutputPath)
		if d.HasSource() {
			p.CopyDirs[Copy{From: bom.Resolve(manifestPath, *d.Path), To: to}] = struct{}{}
		} else {
			p.CreateDirs[to] = struct{}{}
		}
	}

	for dep := range libraries {
		p.CopyFiles[Copy{From: dep.Path, To: dep.Destination()}] = struct{}{}
	}

	return p, nil
}

// Entry is the plan of one manifest of a tree
type Entry struct {
	Manifest string
	Plan     *Plan
}

// PlanTree plans the root of tree and every manifest it includes
func (pl *Planner) PlanTree(ctx context.Context, tree *bom.Tree) ([]Entry, error) {
	paths := tree.Paths()
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		p, err := pl.Plan(ctx, tree.Manifest(path), path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Manifest: path, Plan: p})
	}
	return entries, nil
}
