package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"imgbom/internal/config"
	"imgbom/internal/deps"
	"imgbom/internal/plan"
	"imgbom/internal/stage"
	"imgbom/internal/tui/styles"
)

var (
	cfgFile  string
	logLevel string
	verbose  bool

	// replaced in PersistentPreRunE
	cfg    = config.DefaultConfig()
	logger = log.Default()
)

var rootCmd = &cobra.Command{
	Use:   "imgbom",
	Short: "Stage enclave images from bill-of-materials files",
	Long: styles.Title.Render("imgbom") + `

imgbom describes the contents of an image in bom files and stages them
into an image directory. A bom file lists host files, directories to copy
or create, and other bom files to include. Shared libraries needed by
target executables are discovered and staged automatically.

Examples:
  imgbom generate -d image/bin -o app.toml -e build/app --hash
  imgbom validate -f app.toml
  imgbom plan -f app.toml
  imgbom copy -f app.toml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(os.Stderr, logLevel, verbose)
		if err != nil {
			return err
		}
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.ConfigPath != "" {
			logger.Debug("config loaded", "path", cfg.ConfigPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.ConfigFileName+" when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the stderr logger shared by every command
func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "imgbom",
	}), nil
}

// newPlanner wires dependency discovery from the loaded config
func newPlanner(c *config.Config) *plan.Planner {
	lister := deps.NewCommandLister(c.Toolchain.ListCommand)
	return plan.NewPlanner(deps.NewDiscoverer(lister, c.DepsOptions()))
}

// newCopier returns the copier selected in the config
func newCopier(c *config.Config) stage.Copier {
	if c.Stage.Copier == config.CopierRsync {
		return stage.NewRsyncCopier(c.Stage.RsyncCommand)
	}
	return stage.NativeCopier{}
}

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// Execute runs the CLI. The returned error carries the process exit code,
// see ExitCode.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
}
