package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgbom/internal/bom"
	"imgbom/internal/tui/styles"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a bom file and its includes",
	Long: `Check that every file, directory and include referenced by a bom file
and the bom files it includes exists, and that pinned hashes still match.

Examples:
  imgbom validate -f app.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := bom.LoadValidTree(validateFile)
		if err != nil {
			return withExitCode(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d bom file(s) rooted at %s\n",
			styles.SuccessMsg.Render("Valid:"), tree.Len(), tree.Root)
		for _, p := range tree.Included() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", styles.Muted.Render(p))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "bom file to validate")
	_ = validateCmd.MarkFlagRequired("file")
}
