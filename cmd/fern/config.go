package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fern/internal/config"
	"fern/internal/target"
)

var configCmd = &cobra.Command{
	Use:   "config [fern.toml]",
	Short: "Validate a manifest and show the resolved options",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := config.Default()
		if len(args) == 1 {
			var err error
			opts, err = config.Load(args[0])
			if err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "max-errors: %d\n", opts.MaxErrors)
		fmt.Fprintf(out, "warnings-are-errors: %v\n", opts.WarningsAreErrors)
		fmt.Fprintf(out, "extensions: %v\n", opts.Extensions)
		fmt.Fprintf(out, "module-dirs: %v\n", opts.ModuleDirs)
		fmt.Fprintf(out, "module-output-dir: %s\n", opts.ModuleOutputDir)
		fmt.Fprintf(out, "underscoring: %v\n", opts.Underscoring)
		fmt.Fprintf(out, "hermetic-module-files: %v\n", opts.HermeticModuleFiles)
		fmt.Fprintf(out, "target: %s\n", target.Detect(opts.TargetCPU).Family)
		return nil
	},
}
