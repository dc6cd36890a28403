package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgbom/internal/bom"
	"imgbom/internal/tui/styles"
)

var (
	updateFile     string
	updateIncludes []string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh hashes and add includes to a bom file",
	Long: `Recompute the hash of every file entry that already has one, and
append the given bom files to the include list. Entries without a hash are
left alone.

Examples:
  imgbom update -f app.toml
  imgbom update -f root.toml -i extra.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed, err := updateBom(updateFile, updateIncludes)
		if err != nil {
			return withExitCode(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d hashes changed)\n",
			styles.SuccessMsg.Render("Updated"), updateFile, changed)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "bom file to update")
	updateCmd.Flags().StringArrayVarP(&updateIncludes, "include", "i", nil, "bom file to include (repeatable)")
	_ = updateCmd.MarkFlagRequired("file")
}

// updateBom rewrites the bom at path in place and returns how many hashes
// changed
func updateBom(path string, includes []string) (int, error) {
	m, err := bom.LoadFile(path)
	if err != nil {
		return 0, err
	}

	changed, err := m.RefreshHashes(path)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh hashes: %w", err)
	}
	if changed > 0 {
		logger.Info("hashes refreshed", "bom", path, "changed", changed)
	}

	for _, include := range unique(includes) {
		m.AddInclude(bom.Relativize(path, include))
	}

	if err := m.WriteFile(path); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return changed, nil
}
