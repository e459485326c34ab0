package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fern/internal/modfile"
	"fern/internal/symbols"
)

var modinfoCmd = &cobra.Command{
	Use:   "modinfo <file.mod>...",
	Short: "Inspect compiled module files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			info, err := modfile.Inspect(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "module %s (schema %d, size %d, alignment %d)\n",
				info.Name, info.Schema, info.Size, info.Alignment)
			for _, sym := range info.Symbols {
				line := "  " + sym.Name + ": " + sym.Kind.String()
				if sym.Type.Category != symbols.TypeNone {
					line += fmt.Sprintf(" %s(%d)", sym.Type.Category, sym.Type.Kind)
				}
				if sym.Rank > 0 {
					line += fmt.Sprintf(" rank=%d", sym.Rank)
				}
				if sym.Size > 0 {
					line += fmt.Sprintf(" size=%d", sym.Size)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		}
		return nil
	},
}
