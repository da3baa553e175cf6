package main

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/internal/search"
)

var (
	searchSources    string
	searchMaxResults int
	searchTimeout    int
	searchNoOfficers bool
	searchFormat     string
	searchOutput     string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search UK public data sources with a single query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "search")
		if err != nil {
			return err
		}
		defer env.Close()

		opts, err := searchOptions()
		if err != nil {
			return err
		}

		res, err := env.cachedSearch(ctx, args[0], opts)
		if err != nil {
			return err
		}

		zap.L().Info("search complete",
			zap.String("query", args[0]),
			zap.Int("results", res.TotalResults()),
			zap.Int("source_errors", len(res.Errors)),
		)

		format, err := export.ParseFormat(outputFormat(searchFormat))
		if err != nil {
			return err
		}
		w, closeFn, err := outputWriter(searchOutput)
		if err != nil {
			return err
		}
		defer closeFn()

		return export.WriteSearch(w, res, format)
	},
}

// searchOptions merges config defaults with the command flags.
func searchOptions() (search.Options, error) {
	opts := search.DefaultOptions()

	spec := searchSources
	if spec == "" {
		spec = cfg.Search.Sources
	}
	set, err := search.ParseSources(spec)
	if err != nil {
		return opts, err
	}
	opts.Sources = set

	opts.MaxResultsPerSource = cfg.Search.MaxResultsPerSource
	if searchMaxResults > 0 {
		opts.MaxResultsPerSource = searchMaxResults
	}
	opts.IncludeOfficers = cfg.Search.IncludeOfficers && !searchNoOfficers
	opts.Timeout = cfg.Search.Timeout()
	if searchTimeout > 0 {
		opts.Timeout = time.Duration(searchTimeout) * time.Second
	}

	return opts, nil
}

// outputFormat falls back to the configured default format.
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Export.Format
}

// outputWriter opens the output target: a file when a path is given,
// stdout otherwise.
func outputWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	searchCmd.Flags().StringVar(&searchSources, "sources", "", "comma-separated sources or presets (default from config)")
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "max results per source (default from config)")
	searchCmd.Flags().IntVar(&searchTimeout, "timeout", 0, "search timeout in seconds (default from config)")
	searchCmd.Flags().BoolVar(&searchNoOfficers, "no-officers", false, "skip officer lookups")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "", "output format: json, csv, markdown, html, yaml, xlsx")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(searchCmd)
}
