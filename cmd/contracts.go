package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/pkg/contractsfinder"
)

var (
	contractsMax    int
	contractsFormat string
	contractsOutput string
)

// contractsReport lists the procurement notices for one query.
type contractsReport struct {
	Query   string                   `json:"query" yaml:"query"`
	Total   int                      `json:"total" yaml:"total"`
	Notices []contractsfinder.Notice `json:"notices" yaml:"notices"`
}

var contractsCmd = &cobra.Command{
	Use:   "contracts <query>",
	Short: "Search Contracts Finder for government contracts",
	Long:  "Searches UK public procurement notices by keyword, buyer or supplier name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Clients.ContractsFinder == nil {
			return eris.New("contracts finder client not available")
		}

		notices, err := env.Clients.ContractsFinder.SearchNotices(ctx, args[0], contractsMax)
		if err != nil {
			return err
		}
		report := contractsReport{Query: args[0], Total: len(notices), Notices: notices}

		format, err := export.ParseFormat(outputFormat(contractsFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(contractsOutput)
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
			return eris.Errorf("contracts report supports json and yaml, not %q", format)
		}
	},
}

func init() {
	contractsCmd.Flags().IntVarP(&contractsMax, "max", "m", 10, "maximum results")
	contractsCmd.Flags().StringVarP(&contractsFormat, "format", "f", "", "output format: json, yaml")
	contractsCmd.Flags().StringVarP(&contractsOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(contractsCmd)
}
