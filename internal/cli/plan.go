package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"imgbom/internal/bom"
	"imgbom/internal/plan"
)

var (
	planFile   string
	planOutput string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the copy plan of a bom file as YAML",
	Long: `Validate a bom file and its includes and print, for each of them, the
directories that would be created and the copies that would be made.
Nothing is copied.

Examples:
  imgbom plan -f app.toml
  imgbom plan -f app.toml -o plan.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planOutput != "" {
			return withExitCode(savePlan(cmd.Context(), planOutput, planFile, newPlanner(cfg)))
		}
		return withExitCode(writePlan(cmd.Context(), cmd.OutOrStdout(), planFile, newPlanner(cfg)))
	},
}

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "bom file to plan")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the plan to a file instead of stdout")
	_ = planCmd.MarkFlagRequired("file")
}

func writePlan(ctx context.Context, w io.Writer, rootPath string, planner *plan.Planner) error {
	tree, err := bom.LoadValidTree(rootPath)
	if err != nil {
		return err
	}
	entries, err := planner.PlanTree(ctx, tree)
	if err != nil {
		return err
	}
	if err := plan.WriteYAML(w, plan.Reports(entries)); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// savePlan writes the plan to path. The file is only touched once the whole
// tree has been validated and planned.
func savePlan(ctx context.Context, path, rootPath string, planner *plan.Planner) error {
	var buf bytes.Buffer
	if err := writePlan(ctx, &buf, rootPath, planner); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
