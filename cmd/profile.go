package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uk-osint/nexus/internal/export"
)

var (
	profileSources string
	profileFormat  string
	profileOutput  string
	profileMinConf float64
)

var profileCmd = &cobra.Command{
	Use:     "profile <name>",
	Aliases: []string{"person"},
	Short:   "Search and correlate results into an entity profile",
	Long:    "Runs a unified search, then links the returned records across sources (directorships, contract awards, litigation) into a single entity profile.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("min-confidence") {
			cfg.Correlate.MinConfidence = profileMinConf
		}

		env, err := initEnv(ctx, "correlate")
		if err != nil {
			return err
		}
		defer env.Close()

		searchSources = profileSources
		opts, err := searchOptions()
		if err != nil {
			return err
		}

		res, err := env.cachedSearch(ctx, args[0], opts)
		if err != nil {
			return err
		}

		p := env.Correlator.BuildProfile(args[0],
			res.Companies, res.Officers, res.LegalCases, res.Contracts, res.Vehicles)

		zap.L().Info("profile built",
			zap.String("name", p.PrimaryName),
			zap.String("entity_type", string(p.EntityType)),
			zap.Int("records", p.TotalRecords()),
			zap.Int("links", len(p.Links)),
		)

		format, err := export.ParseFormat(outputFormat(profileFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(profileOutput)
		if err != nil {
			return err
		}
		defer closeFn()

		return export.WriteProfile(w, p, format)
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileSources, "sources", "", "comma-separated sources or presets (default from config)")
	profileCmd.Flags().StringVarP(&profileFormat, "format", "f", "", "output format: json, markdown, html, yaml")
	profileCmd.Flags().StringVarP(&profileOutput, "output", "o", "", "write output to file instead of stdout")
	profileCmd.Flags().Float64Var(&profileMinConf, "min-confidence", 0, "minimum link confidence, 0-1 (default from config)")
	rootCmd.AddCommand(profileCmd)
}
