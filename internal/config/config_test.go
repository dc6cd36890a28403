package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"imgbom/internal/deps"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty", cfg.ConfigPath)
	}
	if cfg.Toolchain.Root != deps.DefaultToolchainRoot {
		t.Errorf("Root = %q", cfg.Toolchain.Root)
	}
	if !reflect.DeepEqual(cfg.Toolchain.PreferredLibs, deps.DefaultPreferredLibs) {
		t.Errorf("PreferredLibs = %v", cfg.Toolchain.PreferredLibs)
	}
	if cfg.Stage.LibraryDir != deps.DefaultOutputDir {
		t.Errorf("LibraryDir = %q", cfg.Stage.LibraryDir)
	}
	if cfg.Stage.Copier != CopierNative {
		t.Errorf("Copier = %q", cfg.Stage.Copier)
	}
}

func TestLoad_FileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
[toolchain]
root = "/sysroot/lib"
preferred_libs = ["libc.so"]

[stage]
library_dir = "out/lib"
copier = "rsync"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfigPath != ConfigFileName {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Toolchain.Root != "/sysroot/lib" {
		t.Errorf("Root = %q", cfg.Toolchain.Root)
	}
	if !reflect.DeepEqual(cfg.Toolchain.PreferredLibs, []string{"libc.so"}) {
		t.Errorf("PreferredLibs = %v", cfg.Toolchain.PreferredLibs)
	}
	if cfg.Toolchain.ListCommand != deps.DefaultListCommand {
		t.Errorf("unset keys should keep defaults, ListCommand = %q", cfg.Toolchain.ListCommand)
	}
	if cfg.Stage.LibraryDir != "out/lib" || cfg.Stage.Copier != CopierRsync {
		t.Errorf("Stage = %+v", cfg.Stage)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[toolchain]\nroot = \"/from/file\"\n")
	t.Setenv("IMGBOM_TOOLCHAIN_ROOT", "/from/env")
	t.Setenv("IMGBOM_STAGE_LIBRARY_DIR", "env/lib")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Toolchain.Root != "/from/env" {
		t.Errorf("Root = %q, want env value", cfg.Toolchain.Root)
	}
	if cfg.Stage.LibraryDir != "env/lib" {
		t.Errorf("LibraryDir = %q, want env value", cfg.Stage.LibraryDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}

	bad := writeConfig(t, dir, "[stage]\ncopier = \"scp\"\n")
	if _, err := Load(bad); err == nil {
		t.Error("unknown copier should fail")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Toolchain.Root = "/custom/lib"
	cfg.Stage.Copier = CopierRsync
	cfg.Stage.RsyncCommand = "/usr/local/bin/rsync"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Toolchain, cfg.Toolchain) {
		t.Errorf("Toolchain = %+v, want %+v", loaded.Toolchain, cfg.Toolchain)
	}
	if !reflect.DeepEqual(loaded.Stage, cfg.Stage) {
		t.Errorf("Stage = %+v, want %+v", loaded.Stage, cfg.Stage)
	}
}

func TestDepsOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stage.LibraryDir = "x/lib"
	opts := cfg.DepsOptions()
	if opts.OutputDir != "x/lib" || opts.ToolchainRoot != deps.DefaultToolchainRoot {
		t.Errorf("opts = %+v", opts)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/lib")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "lib") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got, _ := ExpandPath("/abs"); got != "/abs" {
		t.Errorf("absolute path changed: %q", got)
	}
}
