package cli

import (
	"github.com/spf13/cobra"

	"imgbom/internal/tui"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse the copy plan of a bom file interactively",
	Long: `Open a terminal viewer showing the validation result and the copy plan
of a bom file and every bom file it includes. Press r to recompute after
editing the bom files.

Examples:
  imgbom inspect -f app.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), tui.TreeLoader(inspectFile, newPlanner(cfg)))
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "bom file to inspect")
	_ = inspectCmd.MarkFlagRequired("file")
}
