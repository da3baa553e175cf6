package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/pkg/companieshouse"
)

var (
	companyFormat string
	companyOutput string
)

// companyReport is the full register view of one company.
type companyReport struct {
	Company  *companieshouse.Company  `json:"company" yaml:"company"`
	Officers []companieshouse.Officer `json:"officers,omitempty" yaml:"officers,omitempty"`
	PSCs     []companieshouse.PSC     `json:"persons_with_significant_control,omitempty" yaml:"persons_with_significant_control,omitempty"`
}

// buildCompanyReport fetches the profile, officer list and PSC list for
// one company number. Officer and PSC lookups can fail independently of
// the profile.
func buildCompanyReport(ctx context.Context, env *searchEnv, number string) (*companyReport, error) {
	ch := env.Clients.CompaniesHouse
	if ch == nil {
		return nil, eris.New("companies house key not configured, set NEXUS_COMPANIES_HOUSE_KEY")
	}

	company, err := ch.GetCompany(ctx, number)
	if err != nil {
		if errors.Is(err, companieshouse.ErrNotFound) {
			return nil, eris.Wrapf(err, "company %s not found", number)
		}
		return nil, err
	}

	report := &companyReport{Company: company}

	if officers, err := ch.GetCompanyOfficers(ctx, number, cfg.Search.MaxResultsPerSource); err == nil {
		report.Officers = officers
	} else if !errors.Is(err, companieshouse.ErrNotFound) {
		return nil, err
	}
	if pscs, err := ch.GetCompanyPSCs(ctx, number, cfg.Search.MaxResultsPerSource); err == nil {
		report.PSCs = pscs
	} else if !errors.Is(err, companieshouse.ErrNotFound) {
		return nil, err
	}

	return report, nil
}

var companyCmd = &cobra.Command{
	Use:   "company <number>",
	Short: "Look up a company by its Companies House number",
	Long:  "Fetches the company profile, its officer list and its persons with significant control.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := buildCompanyReport(ctx, env, args[0])
		if err != nil {
			return err
		}

		format, err := export.ParseFormat(outputFormat(companyFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(companyOutput)
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
			return eris.Errorf("company report supports json and yaml, not %q", format)
		}
	},
}

func init() {
	companyCmd.Flags().StringVarP(&companyFormat, "format", "f", "", "output format: json, yaml")
	companyCmd.Flags().StringVarP(&companyOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(companyCmd)
}
