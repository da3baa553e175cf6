package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uk-osint/nexus/internal/search"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List data sources and presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Sources:")
		for _, name := range search.AllExtended.Names() {
			fmt.Fprintf(out, "  %s\n", name)
		}

		presets := search.Presets()
		names := make([]string, 0, len(presets))
		for name := range presets {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(out, "\nPresets:")
		for _, name := range names {
			fmt.Fprintf(out, "  %-22s %s\n", name, presets[name])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
