package bom

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and its parents) under base
func writeFile(t *testing.T, base, rel, content string) string {
	t.Helper()
	p := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// writeManifest stores m as TOML under base
func writeManifest(t *testing.T, base, rel string, m *Manifest) string {
	t.Helper()
	p := filepath.Join(base, rel)
	if err := m.WriteFile(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func strPtr(s string) *string {
	return &s
}

func mustHash(t *testing.T, path string) string {
	t.Helper()
	h, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return h
}
