package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uk-osint/nexus/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "UK public-record OSINT aggregator",
	Long:  "Searches UK public data sources (Companies House, BAILII, Contracts Finder, vehicle registers and more) with a single query and correlates the results into entity profiles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
