package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/pkg/bailii"
)

var (
	legalMax    int
	legalFormat string
	legalOutput string
)

// legalReport lists the case-law hits for one query.
type legalReport struct {
	Query string        `json:"query" yaml:"query"`
	Total int           `json:"total" yaml:"total"`
	Cases []bailii.Case `json:"cases" yaml:"cases"`
}

var legalCmd = &cobra.Command{
	Use:   "legal <query>",
	Short: "Search BAILII for case law",
	Long:  "Searches the British and Irish Legal Information Institute for judgments matching a case name, party name or keyword.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Clients.BAILII == nil {
			return eris.New("bailii client not available")
		}

		cases, err := env.Clients.BAILII.Search(ctx, args[0], legalMax)
		if err != nil {
			return err
		}
		report := legalReport{Query: args[0], Total: len(cases), Cases: cases}

		format, err := export.ParseFormat(outputFormat(legalFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(legalOutput)
		if err != nil {
			return err
		}
		defer closeFn()

		switch format {
		case export.FormatYAML:
			return yaml.NewEncoder(w).Encode(report)
		case export.FormatJSON:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		default:
			return eris.Errorf("legal report supports json and yaml, not %q", format)
		}
	},
}

func init() {
	legalCmd.Flags().IntVarP(&legalMax, "max", "m", 10, "maximum results")
	legalCmd.Flags().StringVarP(&legalFormat, "format", "f", "", "output format: json, yaml")
	legalCmd.Flags().StringVarP(&legalOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(legalCmd)
}
