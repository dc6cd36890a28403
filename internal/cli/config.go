package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"imgbom/internal/config"
	"imgbom/internal/tui/styles"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage imgbom configuration",
	Long: `View and initialize imgbom configuration.

Settings are read from ./` + config.ConfigFileName + ` (or --config) and can be
overridden with ` + config.EnvPrefix + `_* environment variables, for example
` + config.EnvPrefix + `_TOOLCHAIN_ROOT or ` + config.EnvPrefix + `_STAGE_COPIER.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		showConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFileName
		if len(args) > 0 {
			path = args[0]
		}
		if err := initConfig(path, configInitForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.SuccessMsg.Render("Wrote"), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func showConfig(w io.Writer, c *config.Config) {
	source := c.ConfigPath
	if source == "" {
		source = "(defaults)"
	}

	fmt.Fprintln(w, styles.Title.Render("Configuration"))
	fmt.Fprintln(w, styles.FormatInfo(
		"config", source,
		"toolchain", c.Toolchain.Root,
		"ldd", c.Toolchain.ListCommand,
		"musl libs", strings.Join(c.Toolchain.PreferredLibs, ", "),
		"lib dir", c.Stage.LibraryDir,
		"copier", c.Stage.Copier,
	))
}

// initConfig writes the built-in defaults to path
func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
