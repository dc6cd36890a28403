package deps

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	// DefaultToolchainRoot holds the musl builds of the C runtime libraries
	DefaultToolchainRoot = "/opt/occlum/toolchains/gcc/x86_64-linux-musl/lib"
	// DefaultOutputDir is where shared objects are staged
	DefaultOutputDir = "image/lib"
)

// DefaultPreferredLibs are always taken from the toolchain root, whatever
// the lister resolved them to
var DefaultPreferredLibs = []string{
	"libatomic.so",
	"libc.so",
	"libgomp.so",
	"libitm.so",
	"libquadmath.so",
	"libssp.so",
	"libstdc++.so",
	"libz.so",
}

// dependencyPattern matches one resolved entry of ldd output, e.g.
// "libfoo.so => /usr/lib/libfoo.so (0x00007f2a1c000000)"
var dependencyPattern = regexp.MustCompile(`(?P<name>.+) => (?P<path>.+) \(0x(?P<address>[0-9a-z]{16})\)`)

// Dependency is a shared object needed by a target executable
type Dependency struct {
	Name      string
	Path      string
	OutputDir string
}

// Destination returns where the shared object is staged
func (d Dependency) Destination() string {
	return filepath.Join(d.OutputDir, filepath.Base(d.Path))
}

// Options configures library substitution and placement
type Options struct {
	ToolchainRoot string
	PreferredLibs []string
	OutputDir     string
}

// DefaultOptions returns the occlum musl toolchain settings
func DefaultOptions() Options {
	libs := make([]string, len(DefaultPreferredLibs))
	copy(libs, DefaultPreferredLibs)
	return Options{
		ToolchainRoot: DefaultToolchainRoot,
		PreferredLibs: libs,
		OutputDir:     DefaultOutputDir,
	}
}

// Discoverer finds the shared objects an executable links against
type Discoverer struct {
	lister    Lister
	opts      Options
	preferred map[string]bool
}

// NewDiscoverer creates a discoverer that queries lister
func NewDiscoverer(lister Lister, opts Options) *Discoverer {
	preferred := make(map[string]bool, len(opts.PreferredLibs))
	for _, name := range opts.PreferredLibs {
		preferred[name] = true
	}
	return &Discoverer{
		lister:    lister,
		opts:      opts,
		preferred: preferred,
	}
}

// Discover lists the dependencies of the executable at path
func (d *Discoverer) Discover(ctx context.Context, path string) ([]Dependency, error) {
	output, err := d.lister.List(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies of %s: %w", path, err)
	}
	return d.Parse(output), nil
}

// Parse extracts dependencies from lister output. Lines that do not describe
// a resolved library are skipped. The result is de-duplicated and sorted.
func (d *Discoverer) Parse(output string) []Dependency {
	seen := make(map[Dependency]bool)
	var result []Dependency

	for _, line := range strings.Split(output, "\n") {
		m := dependencyPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name := m[dependencyPattern.SubexpIndex("name")]
		path := m[dependencyPattern.SubexpIndex("path")]

		dep := Dependency{
			Name:      name,
			Path:      d.preferMusl(name, path),
			OutputDir: d.opts.OutputDir,
		}
		if seen[dep] {
			continue
		}
		seen[dep] = true
		result = append(result, dep)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Path < result[j].Path
	})
	return result
}

// preferMusl swaps the path of C runtime libraries for the toolchain copy
func (d *Discoverer) preferMusl(name, path string) string {
	if d.preferred[name] {
		return filepath.Join(d.opts.ToolchainRoot, name)
	}
	return path
}
