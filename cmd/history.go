package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("search history requires the cache, set NEXUS_CACHE_ENABLED=true")
		}

		records, err := env.Store.ListSearches(ctx, historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No searches recorded.")
			return nil
		}

		for _, r := range records {
			fmt.Fprintf(out, "%s  %-30q  sources=%s  results=%d  took=%s\n",
				r.CreatedAt.Format(time.RFC3339), r.Query, r.Sources,
				r.TotalResults, time.Duration(r.DurationMS)*time.Millisecond)
		}

		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("cache is not enabled, set NEXUS_CACHE_ENABLED=true")
		}

		n, err := env.Store.PruneExpired(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("cache pruned", zap.Int("removed", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", n)

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max history entries to list")
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(historyCmd, cacheCmd)
}
