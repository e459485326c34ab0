// Package config loads compiler options from a fern.toml manifest.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Options configure one translation-unit analysis.
type Options struct {
	// MaxErrors caps the number of collected diagnostics; <= 0 means no
	// limit.
	MaxErrors int `toml:"max-errors"`
	// WarningsAreErrors escalates enabled warning categories to fatal.
	WarningsAreErrors bool `toml:"warnings-are-errors"`
	// Warnings toggles individual warning categories by name; categories
	// not listed stay enabled.
	Warnings map[string]bool `toml:"warnings"`
	// Extensions lists enabled dialect extensions (acc, omp, cuda).
	Extensions []string `toml:"extensions"`
	// ModuleDirs are searched for compiled module files.
	ModuleDirs []string `toml:"module-dirs"`
	// ModuleOutputDir receives compiled module files.
	ModuleOutputDir string `toml:"module-output-dir"`
	// Underscoring appends an underscore to external link names.
	Underscoring bool `toml:"underscoring"`
	// TargetCPU overrides the detected architecture family.
	TargetCPU string `toml:"target-cpu"`
	// HermeticModuleFiles embeds dependency modules into emitted files.
	HermeticModuleFiles bool `toml:"hermetic-module-files"`
}

// Default returns the options used when no manifest is present.
func Default() Options {
	return Options{
		MaxErrors:       100,
		ModuleOutputDir: ".",
		Underscoring:    true,
	}
}

// Load reads a TOML manifest, layering it over Default.
func Load(path string) (Options, error) {
	opts := Default()
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return opts, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		return opts, fmt.Errorf("%s: unknown option %q", path, key.String())
	}
	return opts, nil
}
