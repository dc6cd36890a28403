package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgbom/internal/stage"
	"imgbom/internal/tui/styles"
)

var (
	copyFile   string
	copyDryRun bool
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Stage the files described in a bom file",
	Long: `Validate a bom file and every bom file it includes, then stage all of
them into the image. Nothing is copied unless every bom file is valid.

Shared libraries of target executables are discovered with ldd and staged
into the configured library directory.

Examples:
  imgbom copy -f app.toml
  imgbom copy -f app.toml --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stager := stage.NewStager(newCopier(cfg), logger, copyDryRun)
		res, err := stager.Run(cmd.Context(), copyFile, newPlanner(cfg))
		if err != nil {
			return withExitCode(err)
		}

		verb := styles.SuccessMsg.Render("Staged")
		if copyDryRun {
			verb = styles.WarningMsg.Render("Dry run")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d files, %d directories copied, %d directories created\n",
			verb, copyFile, res.CopiedFiles, res.CopiedDirs, res.CreatedDirs)
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVarP(&copyFile, "file", "f", "", "bom file to stage")
	copyCmd.Flags().BoolVar(&copyDryRun, "dry-run", false, "log the actions without touching the filesystem")
	_ = copyCmd.MarkFlagRequired("file")
}
