package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"imgbom/internal/deps"
)

const (
	ConfigFileName = "imgbom.toml"
	EnvPrefix      = "IMGBOM"

	CopierNative = "native"
	CopierRsync  = "rsync"
)

// Toolchain describes where C runtime libraries come from
type Toolchain struct {
	Root          string   `toml:"root"`
	PreferredLibs []string `toml:"preferred_libs"`
	ListCommand   string   `toml:"list_command"`
}

// Stage describes how plans are executed
type Stage struct {
	LibraryDir   string `toml:"library_dir"`
	Copier       string `toml:"copier"`
	RsyncCommand string `toml:"rsync_command,omitempty"`
}

// ConfigFile represents the TOML config file structure
type ConfigFile struct {
	Toolchain Toolchain `toml:"toolchain"`
	Stage     Stage     `toml:"stage"`
}

// Config holds the runtime configuration
type Config struct {
	ConfigPath string // file the values were read from, empty for defaults
	Toolchain  Toolchain
	Stage      Stage
}

// ExpandPath expands ~ to home directory in a path
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	opts := deps.DefaultOptions()
	return &Config{
		Toolchain: Toolchain{
			Root:          opts.ToolchainRoot,
			PreferredLibs: opts.PreferredLibs,
			ListCommand:   deps.DefaultListCommand,
		},
		Stage: Stage{
			LibraryDir: opts.OutputDir,
			Copier:     CopierNative,
		},
	}
}

// Load builds the configuration from defaults, the config file and
// IMGBOM_* environment variables, in increasing precedence. With an empty
// path, imgbom.toml in the working directory is used when present.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("toolchain.root", defaults.Toolchain.Root)
	v.SetDefault("toolchain.preferred_libs", defaults.Toolchain.PreferredLibs)
	v.SetDefault("toolchain.list_command", defaults.Toolchain.ListCommand)
	v.SetDefault("stage.library_dir", defaults.Stage.LibraryDir)
	v.SetDefault("stage.copier", defaults.Stage.Copier)
	v.SetDefault("stage.rsync_command", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			path = ConfigFileName
		}
	}
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", expanded, err)
		}
		cfg.ConfigPath = expanded
	}

	root, err := ExpandPath(v.GetString("toolchain.root"))
	if err != nil {
		return nil, err
	}

	cfg.Toolchain = Toolchain{
		Root:          root,
		PreferredLibs: v.GetStringSlice("toolchain.preferred_libs"),
		ListCommand:   v.GetString("toolchain.list_command"),
	}
	cfg.Stage = Stage{
		LibraryDir:   v.GetString("stage.library_dir"),
		Copier:       v.GetString("stage.copier"),
		RsyncCommand: v.GetString("stage.rsync_command"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Stage.Copier {
	case CopierNative, CopierRsync:
	default:
		return fmt.Errorf("unknown copier %q (want %s or %s)", c.Stage.Copier, CopierNative, CopierRsync)
	}
	if c.Stage.LibraryDir == "" {
		return fmt.Errorf("stage.library_dir must not be empty")
	}
	return nil
}

// DepsOptions returns the dependency discovery settings
func (c *Config) DepsOptions() deps.Options {
	return deps.Options{
		ToolchainRoot: c.Toolchain.Root,
		PreferredLibs: c.Toolchain.PreferredLibs,
		OutputDir:     c.Stage.LibraryDir,
	}
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(ConfigFile{
		Toolchain: c.Toolchain,
		Stage:     c.Stage,
	})
}
