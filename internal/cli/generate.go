package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgbom/internal/bom"
	"imgbom/internal/tui/styles"
)

// generateOptions holds the generate command flags
type generateOptions struct {
	outputDir   string
	output      string
	files       []string
	dirs        []string
	executables []string
	includes    []string
	emptyDirs   []string
	withHash    bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a bom file from command line arguments",
	Long: `Generate a bom file listing the given files, directories and includes.

Every entry is staged into the directory given with -d. Source paths, the -d
directory and --empty-dir paths are rewritten relative to the generated bom
file, matching how bom files are resolved when they are loaded. Absolute
paths are kept as given.

Examples:
  imgbom generate -d image/bin -o app.toml -e build/app
  imgbom generate -d image/opt -o assets.toml -r assets -f README --hash
  imgbom generate -d image -o root.toml -i app.toml -i assets.toml --empty-dir image/tmp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := generate(genOpts)
		if err != nil {
			return withExitCode(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d files, %d directories, %d includes)\n",
			styles.SuccessMsg.Render("Generated"), genOpts.output,
			len(m.Files), len(m.Directories), len(m.Include))
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOpts.outputDir, "directory", "d", "", "directory in the image that entries are staged into")
	f.StringVarP(&genOpts.output, "output", "o", "", "bom file to write")
	f.StringArrayVarP(&genOpts.files, "filename", "f", nil, "file to stage (repeatable)")
	f.StringArrayVarP(&genOpts.dirs, "recursive", "r", nil, "directory to stage recursively (repeatable)")
	f.StringArrayVarP(&genOpts.executables, "executable", "e", nil, "target executable whose shared libraries are staged too (repeatable)")
	f.StringArrayVarP(&genOpts.includes, "include", "i", nil, "bom file to include (repeatable)")
	f.StringArrayVar(&genOpts.emptyDirs, "empty-dir", nil, "empty directory to create in the image (repeatable)")
	f.BoolVar(&genOpts.withHash, "hash", false, "pin the current content of every file")

	_ = generateCmd.MarkFlagRequired("directory")
	_ = generateCmd.MarkFlagRequired("output")
}

// generate builds the bom described by opts and writes it to opts.output
func generate(opts generateOptions) (*bom.Manifest, error) {
	m := bom.New()
	rel := func(p string) string {
		return bom.Relativize(opts.output, p)
	}
	outputDir := rel(opts.outputDir)

	for _, f := range unique(opts.files) {
		if err := m.AddFile(rel(f), outputDir, bom.FileOptions{WithHash: opts.withHash, HashPath: f}); err != nil {
			return nil, err
		}
	}
	for _, d := range unique(opts.dirs) {
		m.AddDirectory(rel(d), outputDir)
	}
	for _, e := range unique(opts.executables) {
		fileOpts := bom.FileOptions{Executable: true, WithHash: opts.withHash, HashPath: e}
		if err := m.AddFile(rel(e), outputDir, fileOpts); err != nil {
			return nil, err
		}
	}
	for _, d := range unique(opts.emptyDirs) {
		m.AddEmptyDirectory(rel(d))
	}
	for _, i := range unique(opts.includes) {
		m.AddInclude(rel(i))
	}
	if m.IsEmpty() {
		logger.Warn("generated bom lists nothing to stage", "path", opts.output)
	}

	if err := m.WriteFile(opts.output); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	return m, nil
}

// unique drops repeated values, keeping the first occurrence
func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
