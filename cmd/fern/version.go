package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fern/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fern build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprintf(cmd.OutOrStdout(), "fern %s\n", version.Version)
			if versionShowFull {
				if version.GitCommit != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", version.GitCommit)
				}
				if version.BuildDate != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", version.BuildDate)
				}
			}
			return nil
		case "json":
			p := versionPayload{Tool: "fern", Version: version.Version}
			if versionShowFull {
				p.GitCommit = version.GitCommit
				p.BuildDate = version.BuildDate
			}
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want pretty or json)", versionFormat)
		}
	},
}
