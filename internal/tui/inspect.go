package tui

import (
	"context"

	"imgbom/internal/bom"
	"imgbom/internal/plan"
)

// Inspection is everything the viewer shows for one root manifest
type Inspection struct {
	Root    string
	Entries []plan.Entry
}

// Totals counts the distinct actions across every plan, so a library or
// directory listed by several bom files is counted once
func (in *Inspection) Totals() (createDirs, copyDirs, copyFiles int) {
	all := plan.New()
	for _, e := range in.Entries {
		all.Merge(e.Plan)
	}
	return len(all.CreateDirs), len(all.CopyDirs), len(all.CopyFiles)
}

// Loader computes an inspection
type Loader func(ctx context.Context) (*Inspection, error)

// TreeLoader validates the tree rooted at rootPath and plans every manifest
// in it, the same way copy does before touching the filesystem
func TreeLoader(rootPath string, planner *plan.Planner) Loader {
	return func(ctx context.Context) (*Inspection, error) {
		tree, err := bom.LoadValidTree(rootPath)
		if err != nil {
			return nil, err
		}
		entries, err := planner.PlanTree(ctx, tree)
		if err != nil {
			return nil, err
		}
		return &Inspection{Root: tree.Root, Entries: entries}, nil
	}
}
