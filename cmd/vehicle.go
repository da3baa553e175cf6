package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/pkg/dvla"
	"github.com/uk-osint/nexus/pkg/mot"
)

var (
	vehicleFormat string
	vehicleOutput string
)

// errNoVehicleRecord means neither DVLA nor MOT knows the registration.
var errNoVehicleRecord = errors.New("vehicle not found")

// vehicleReport combines the DVLA register entry with the MOT test
// history for one registration.
type vehicleReport struct {
	Registration string        `json:"registration" yaml:"registration"`
	DVLA         *dvla.Vehicle `json:"dvla,omitempty" yaml:"dvla,omitempty"`
	MOT          *mot.Vehicle  `json:"mot,omitempty" yaml:"mot,omitempty"`
}

// buildVehicleReport queries DVLA and MOT for one registration mark. A
// registration unknown to one service can still be known to the other.
func buildVehicleReport(ctx context.Context, env *searchEnv, registration string) (*vehicleReport, error) {
	if env.Clients.DVLA == nil && env.Clients.MOT == nil {
		return nil, eris.New("no vehicle API keys configured, set NEXUS_DVLA_KEY or NEXUS_MOT_KEY")
	}

	report := &vehicleReport{Registration: registration}

	if env.Clients.DVLA != nil {
		v, err := env.Clients.DVLA.Lookup(ctx, registration)
		if err != nil && !errors.Is(err, dvla.ErrNotFound) {
			return nil, err
		}
		report.DVLA = v
	}
	if env.Clients.MOT != nil {
		v, err := env.Clients.MOT.History(ctx, registration)
		if err != nil && !errors.Is(err, mot.ErrNotFound) {
			return nil, err
		}
		report.MOT = v
	}

	if report.DVLA == nil && report.MOT == nil {
		return nil, eris.Wrapf(errNoVehicleRecord, "no record of registration %s", registration)
	}

	return report, nil
}

var vehicleCmd = &cobra.Command{
	Use:   "vehicle <registration>",
	Short: "Look up a vehicle by its registration",
	Long:  "Queries the DVLA vehicle enquiry service and the MOT history service for one registration mark.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := buildVehicleReport(ctx, env, args[0])
		if err != nil {
			return err
		}

		format, err := export.ParseFormat(outputFormat(vehicleFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(vehicleOutput)
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
			return eris.Errorf("vehicle report supports json and yaml, not %q", format)
		}
	},
}

func init() {
	vehicleCmd.Flags().StringVarP(&vehicleFormat, "format", "f", "", "output format: json, yaml")
	vehicleCmd.Flags().StringVarP(&vehicleOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(vehicleCmd)
}
