package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"imgbom/internal/bom"
	"imgbom/internal/config"
	"imgbom/internal/deps"
	"imgbom/internal/plan"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type noLibs struct{}

func (noLibs) List(context.Context, string) (string, error) { return "", nil }

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"missing include", &bom.Error{Kind: bom.KindMissingInclude}, 11},
		{"missing directory", &bom.Error{Kind: bom.KindMissingDirectory}, 12},
		{"missing file", &bom.Error{Kind: bom.KindMissingFile}, 13},
		{"hash mismatch", &bom.Error{Kind: bom.KindHashMismatch}, 14},
		{"load", &bom.Error{Kind: bom.KindLoad}, 15},
		{"copy", &bom.Error{Kind: bom.KindCopyFailure}, 16},
		{"mkdir", &bom.Error{Kind: bom.KindDirectoryCreation}, 17},
		{"conflict", &bom.Error{Kind: bom.KindConflictingHash}, 18},
		{"wrapped", fmt.Errorf("copy: %w", &bom.Error{Kind: bom.KindMissingFile}), 13},
		{"explicit", &ExitError{Code: 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithExitCode(t *testing.T) {
	if withExitCode(nil) != nil {
		t.Error("nil should stay nil")
	}

	plain := errors.New("boom")
	if withExitCode(plain) != plain {
		t.Error("errors without a kind are returned unchanged")
	}

	err := withExitCode(&bom.Error{Kind: bom.KindHashMismatch, Path: "x"})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 14 {
		t.Fatalf("expected exit code 14, got %v", err)
	}
	if bom.KindOf(err) != bom.KindHashMismatch {
		t.Error("the bom error must stay reachable")
	}
}

func TestGenerate(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	writeFile(t, "build/app", "app")
	writeFile(t, "README", "readme")
	writeFile(t, "assets/logo.png", "png")

	m, err := generate(generateOptions{
		outputDir:   "image/bin",
		output:      "boms/app.toml",
		files:       []string{"README", "README"},
		dirs:        []string{"assets"},
		executables: []string{"build/app"},
		includes:    []string{"boms/base.toml"},
		emptyDirs:   []string{"image/tmp"},
		withHash:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Files) != 2 {
		t.Fatalf("files = %d, want 2 (duplicates dropped)", len(m.Files))
	}
	if m.Files[0].Path != "../README" || !m.Files[0].HasHash() || m.Files[0].IsTargetExecutable() {
		t.Errorf("file entry = %+v", m.Files[0])
	}
	if m.Files[1].Path != "../build/app" || !m.Files[1].IsTargetExecutable() {
		t.Errorf("executable entry = %+v", m.Files[1])
	}
	if m.Files[0].OutputPath != filepath.Join("..", "image", "bin") {
		t.Errorf("file output = %q", m.Files[0].OutputPath)
	}
	if m.Directories[0].OutputPath != filepath.Join("..", "image", "bin", "assets") {
		t.Errorf("directory output = %q", m.Directories[0].OutputPath)
	}
	if m.Directories[1].HasSource() || m.Directories[1].OutputPath != filepath.Join("..", "image", "tmp") {
		t.Errorf("empty directory entry = %+v", m.Directories[1])
	}
	if len(m.Include) != 1 || m.Include[0] != "base.toml" {
		t.Errorf("include = %v", m.Include)
	}

	loaded, err := bom.LoadFile("boms/app.toml")
	if err != nil {
		t.Fatalf("generated bom does not load: %v", err)
	}
	writeFile(t, "boms/base.toml", "")
	if err := bom.Validate(loaded, "boms/app.toml"); err != nil {
		t.Errorf("generated bom should validate: %v", err)
	}
}

func TestGenerate_PlansWhereRequested(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "build/app", "app")
	writeFile(t, "assets/logo.png", "png")
	abs := filepath.Join(t.TempDir(), "abs-out")

	if _, err := generate(generateOptions{
		outputDir: "image/bin",
		output:    "boms/app.toml",
		files:     []string{"build/app"},
		dirs:      []string{"assets"},
		emptyDirs: []string{"image/tmp", abs},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree, err := bom.LoadValidTree("boms/app.toml")
	if err != nil {
		t.Fatalf("generated bom should validate: %v", err)
	}
	planner := plan.NewPlanner(deps.NewDiscoverer(noLibs{}, deps.DefaultOptions()))
	entries, err := planner.PlanTree(context.Background(), tree)
	if err != nil {
		t.Fatal(err)
	}
	p := entries[0].Plan

	files := p.CopyFileList()
	if len(files) != 1 || files[0].To != filepath.Join("image", "bin", "app") {
		t.Errorf("file copies = %+v, want destination image/bin/app", files)
	}
	dirs := p.CopyDirList()
	if len(dirs) != 1 || dirs[0].To != filepath.Join("image", "bin", "assets") {
		t.Errorf("directory copies = %+v, want destination image/bin/assets", dirs)
	}
	created := p.CreateDirList()
	want := []string{abs, filepath.Join("image", "tmp")}
	if len(created) != 2 || !containsAll(created, want) {
		t.Errorf("created dirs = %v, want %v", created, want)
	}
}

func TestGenerate_WarnsWhenEmpty(t *testing.T) {
	t.Chdir(t.TempDir())
	var buf bytes.Buffer
	old := logger
	logger = log.New(&buf)
	t.Cleanup(func() { logger = old })

	m, err := generate(generateOptions{outputDir: "image", output: "empty.toml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsEmpty() {
		t.Errorf("manifest = %+v, want empty", m)
	}
	if !strings.Contains(buf.String(), "nothing to stage") {
		t.Errorf("log output = %q, want a warning", buf.String())
	}
}

func containsAll(got, want []string) bool {
	seen := make(map[string]bool, len(got))
	for _, g := range got {
		seen[g] = true
	}
	for _, w := range want {
		if !seen[w] {
			return false
		}
	}
	return true
}

func TestGenerate_MissingFileWithHash(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := generate(generateOptions{outputDir: "image", output: "x.toml", files: []string{"gone"}, withHash: true})
	if err == nil {
		t.Fatal("hashing a missing file should fail")
	}
	if _, statErr := os.Stat("x.toml"); !os.IsNotExist(statErr) {
		t.Error("nothing should be written on failure")
	}
}

func TestUpdateBom(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	writeFile(t, "bin/app", "v1")
	writeFile(t, "etc/app.conf", "conf")

	stale := "0000"
	m := &bom.Manifest{Files: []bom.File{
		{Path: "../bin/app", Hash: &stale, OutputPath: "image/bin"},
		{Path: "../etc/app.conf", OutputPath: "image/etc"},
	}}
	if err := m.WriteFile("boms/app.toml"); err != nil {
		t.Fatal(err)
	}

	changed, err := updateBom("boms/app.toml", []string{"boms/extra.toml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}

	updated, err := bom.LoadFile("boms/app.toml")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := bom.HashFile("bin/app")
	if updated.Files[0].Hash == nil || *updated.Files[0].Hash != want {
		t.Errorf("hash = %v, want %s", updated.Files[0].Hash, want)
	}
	if updated.Files[1].HasHash() {
		t.Error("entries without a hash must stay unhashed")
	}
	if len(updated.Include) != 1 || updated.Include[0] != "extra.toml" {
		t.Errorf("include = %v", updated.Include)
	}
}

func TestWritePlan(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	writeFile(t, "a.txt", "a")
	root := &bom.Manifest{
		Files:       []bom.File{{Path: "a.txt", OutputPath: "image"}},
		Directories: []bom.Directory{{OutputPath: "image/tmp"}},
	}
	if err := root.WriteFile("root.toml"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	planner := plan.NewPlanner(deps.NewDiscoverer(noLibs{}, deps.DefaultOptions()))
	if err := writePlan(context.Background(), &buf, "root.toml", planner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reports []plan.Report
	if err := yaml.Unmarshal(buf.Bytes(), &reports); err != nil {
		t.Fatalf("plan is not valid YAML: %v\n%s", err, buf.String())
	}
	if len(reports) != 1 || reports[0].Manifest != "root.toml" {
		t.Fatalf("reports = %+v", reports)
	}
	if len(reports[0].CopyFiles) != 1 || reports[0].CopyFiles[0].To != filepath.Join("image", "a.txt") {
		t.Errorf("copy files = %+v", reports[0].CopyFiles)
	}
	if len(reports[0].CreateDirs) != 1 || reports[0].CreateDirs[0] != filepath.Join("image", "tmp") {
		t.Errorf("create dirs = %v", reports[0].CreateDirs)
	}
}

func TestSavePlan(t *testing.T) {
	t.Chdir(t.TempDir())
	planner := plan.NewPlanner(deps.NewDiscoverer(noLibs{}, deps.DefaultOptions()))

	broken := &bom.Manifest{Files: []bom.File{{Path: "missing.txt", OutputPath: "image"}}}
	if err := broken.WriteFile("broken.toml"); err != nil {
		t.Fatal(err)
	}
	err := savePlan(context.Background(), "plan.yaml", "broken.toml", planner)
	if bom.KindOf(err) != bom.KindMissingFile {
		t.Fatalf("expected missing file, got %v", err)
	}
	if _, statErr := os.Stat("plan.yaml"); !os.IsNotExist(statErr) {
		t.Error("a failed plan must not leave an output file")
	}

	writeFile(t, "a.txt", "a")
	good := &bom.Manifest{Files: []bom.File{{Path: "a.txt", OutputPath: "image"}}}
	if err := good.WriteFile("good.toml"); err != nil {
		t.Fatal(err)
	}
	if err := savePlan(context.Background(), "plan.yaml", "good.toml", planner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile("plan.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var reports []plan.Report
	if err := yaml.Unmarshal(data, &reports); err != nil || len(reports) != 1 {
		t.Errorf("plan file = %q (err %v)", data, err)
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := initConfig(path, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := initConfig(path, false); err == nil {
		t.Error("existing config should not be overwritten without force")
	}
	if err := initConfig(path, true); err != nil {
		t.Errorf("force should overwrite: %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	var buf bytes.Buffer
	showConfig(&buf, loaded)
	if !strings.Contains(buf.String(), deps.DefaultToolchainRoot) || !strings.Contains(buf.String(), path) {
		t.Errorf("show output = %q", buf.String())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", false)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}

	buf.Reset()
	l, err = newLogger(&buf, "error", true)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("debug line")
	if !strings.Contains(buf.String(), "debug line") {
		t.Error("verbose should enable debug logging")
	}

	if _, err := newLogger(&buf, "loud", false); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestNewCopier(t *testing.T) {
	c := config.DefaultConfig()
	if got := fmt.Sprintf("%T", newCopier(c)); got != "stage.NativeCopier" {
		t.Errorf("default copier = %s", got)
	}
	c.Stage.Copier = config.CopierRsync
	if got := fmt.Sprintf("%T", newCopier(c)); got != "*stage.RsyncCopier" {
		t.Errorf("copier = %s", got)
	}
}

func TestValidateCommand(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	writeFile(t, "a.txt", "a")
	root := &bom.Manifest{Files: []bom.File{{Path: "a.txt", OutputPath: "image"}, {Path: "b.txt", OutputPath: "image"}}}
	if err := root.WriteFile("root.toml"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"validate", "-f", "root.toml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(context.Background())
	if ExitCode(err) != 13 {
		t.Fatalf("exit code = %d (err %v), want 13", ExitCode(err), err)
	}
	if !strings.Contains(err.Error(), "b.txt") {
		t.Errorf("error should name the missing file: %v", err)
	}
}
