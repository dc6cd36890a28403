package stage

import (
	"context"

	"imgbom/internal/bom"
	"imgbom/internal/plan"
)

// Run stages the manifest at rootPath together with every manifest it
// includes. Nothing is copied until the whole tree has validated.
func (s *Stager) Run(ctx context.Context, rootPath string, planner *plan.Planner) (Result, error) {
	var total Result

	tree, err := bom.LoadValidTree(rootPath)
	if err != nil {
		return total, err
	}
	s.logger.Info("bom files validated", "root", tree.Root, "count", tree.Len())

	entries, err := planner.PlanTree(ctx, tree)
	if err != nil {
		return total, err
	}

	for _, e := range entries {
		s.logger.Info("staging", "bom", e.Manifest, "actions", e.Plan.Len())
		res, err := s.Apply(e.Plan)
		total.CreatedDirs += res.CreatedDirs
		total.CopiedDirs += res.CopiedDirs
		total.CopiedFiles += res.CopiedFiles
		total.Skipped += res.Skipped
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
