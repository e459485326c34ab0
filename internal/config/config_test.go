package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fern.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := writeManifest(t, `
max-errors = 5
warnings-are-errors = true
extensions = ["omp", "cuda"]
module-dirs = ["mods"]

[warnings]
index-var-redefinition = false
`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.MaxErrors != 5 {
		t.Errorf("max-errors: got %d, want 5", opts.MaxErrors)
	}
	if !opts.WarningsAreErrors {
		t.Errorf("warnings-are-errors not set")
	}
	if len(opts.Extensions) != 2 || opts.Extensions[0] != "omp" {
		t.Errorf("extensions: got %v", opts.Extensions)
	}
	if on, listed := opts.Warnings["index-var-redefinition"]; !listed || on {
		t.Errorf("warning toggle: got %v", opts.Warnings)
	}
	// Unset keys keep their defaults.
	if opts.ModuleOutputDir != "." {
		t.Errorf("module-output-dir default lost: %q", opts.ModuleOutputDir)
	}
	if !opts.Underscoring {
		t.Errorf("underscoring default lost")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, "max-erors = 5\n")
	if _, err := Load(path); err == nil {
		t.Errorf("misspelled key must be rejected")
	}
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := writeManifest(t, "max-errors = [\n")
	if _, err := Load(path); err == nil {
		t.Errorf("malformed manifest must be rejected")
	}
}
