package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uk-osint/nexus/internal/correlate"
	"github.com/uk-osint/nexus/internal/export"
	"github.com/uk-osint/nexus/internal/search"
	"github.com/uk-osint/nexus/pkg/companieshouse"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           newRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the API routes.
func newRouter(env *searchEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/sources", func(w http.ResponseWriter, _ *http.Request) {
		presets := search.Presets()
		names := make([]string, 0, len(presets))
		for name := range presets {
			names = append(names, name)
		}
		sort.Strings(names)
		writeJSON(w, http.StatusOK, map[string]any{
			"sources": search.AllExtended.Names(),
			"presets": names,
		})
	})

	r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
		res, ok := runAPISearch(env, w, req)
		if !ok {
			return
		}

		resp := searchResponse{
			Result:       res,
			TotalResults: res.TotalResults(),
			Correlations: []correlate.EntityLink{},
		}
		if req.URL.Query().Get("correlate") != "false" && res.HasResults() {
			p := env.Correlator.BuildProfile(req.URL.Query().Get("q"),
				res.Companies, res.Officers, res.LegalCases, res.Contracts, res.Vehicles)
			if p.Links != nil {
				resp.Correlations = p.Links
			}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/correlate", func(w http.ResponseWriter, req *http.Request) {
		res, ok := runAPISearch(env, w, req)
		if !ok {
			return
		}

		p := env.Correlator.BuildProfile(req.URL.Query().Get("q"),
			res.Companies, res.Officers, res.LegalCases, res.Contracts, res.Vehicles)
		writeJSON(w, http.StatusOK, p)
	})

	r.Get("/api/export", func(w http.ResponseWriter, req *http.Request) {
		res, ok := runAPISearch(env, w, req)
		if !ok {
			return
		}

		f := req.URL.Query().Get("format")
		if f == "" {
			f = cfg.Export.Format
		}
		format, err := export.ParseFormat(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown format " + f})
			return
		}

		w.Header().Set("Content-Type", formatContentType(format))
		if err := export.WriteSearch(w, res, format); err != nil {
			zap.L().Error("write export response", zap.Error(err))
		}
	})

	r.Get("/api/legal", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
			return
		}
		if env.Clients.BAILII == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "bailii client not available"})
			return
		}

		cases, err := env.Clients.BAILII.Search(req.Context(), q, queryInt(req, "max", cfg.Search.MaxResultsPerSource))
		if err != nil {
			zap.L().Error("legal search failed", zap.String("query", q), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "legal search failed"})
			return
		}
		writeJSON(w, http.StatusOK, legalReport{Query: q, Total: len(cases), Cases: cases})
	})

	r.Get("/api/contracts", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
			return
		}
		if env.Clients.ContractsFinder == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "contracts finder client not available"})
			return
		}

		notices, err := env.Clients.ContractsFinder.SearchNotices(req.Context(), q, queryInt(req, "max", cfg.Search.MaxResultsPerSource))
		if err != nil {
			zap.L().Error("contracts search failed", zap.String("query", q), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "contracts search failed"})
			return
		}
		writeJSON(w, http.StatusOK, contractsReport{Query: q, Total: len(notices), Notices: notices})
	})

	r.Get("/api/company/{number}", func(w http.ResponseWriter, req *http.Request) {
		report, err := buildCompanyReport(req.Context(), env, chi.URLParam(req, "number"))
		if err != nil {
			writeJSON(w, reportStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	r.Get("/api/vehicle/{registration}", func(w http.ResponseWriter, req *http.Request) {
		report, err := buildVehicleReport(req.Context(), env, chi.URLParam(req, "registration"))
		if err != nil {
			writeJSON(w, reportStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	return r
}

// searchResponse is the /api/search envelope: the raw per-source lists
// plus the cross-source links found between them.
type searchResponse struct {
	*search.Result
	TotalResults int                    `json:"total_results"`
	Correlations []correlate.EntityLink `json:"correlations"`
}

// reportStatus maps report-builder errors onto HTTP statuses.
func reportStatus(err error) int {
	switch {
	case errors.Is(err, companieshouse.ErrNotFound),
		errors.Is(err, errNoVehicleRecord):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(req *http.Request, name string, fallback int) int {
	v := req.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// runAPISearch parses the shared query parameters and runs the search,
// writing the error response itself on failure.
func runAPISearch(env *searchEnv, w http.ResponseWriter, req *http.Request) (*search.Result, bool) {
	query := req.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return nil, false
	}

	opts := search.DefaultOptions()
	opts.MaxResultsPerSource = cfg.Search.MaxResultsPerSource
	opts.IncludeOfficers = cfg.Search.IncludeOfficers
	opts.Timeout = cfg.Search.Timeout()

	spec := req.URL.Query().Get("sources")
	if spec == "" {
		spec = cfg.Search.Sources
	}
	set, err := search.ParseSources(spec)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	opts.Sources = set

	res, err := env.cachedSearch(req.Context(), query, opts)
	if err != nil {
		zap.L().Error("search failed", zap.String("query", query), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return nil, false
	}

	return res, true
}

func formatContentType(format export.Format) string {
	switch format {
	case export.FormatJSON:
		return "application/json"
	case export.FormatHTML:
		return "text/html; charset=utf-8"
	case export.FormatCSV:
		return "text/csv"
	case export.FormatYAML:
		return "application/yaml"
	case export.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Nexus</title></head>
<body>
<h1>Nexus</h1>
<p>UK public-record search and correlation API.</p>
<ul>
<li><code>GET /api/search?q=</code></li>
<li><code>GET /api/correlate?q=</code></li>
<li><code>GET /api/export?q=&amp;format=</code></li>
<li><code>GET /api/company/{number}</code></li>
<li><code>GET /api/vehicle/{registration}</code></li>
<li><code>GET /api/legal?q=</code></li>
<li><code>GET /api/contracts?q=</code></li>
<li><code>GET /api/sources</code></li>
<li><code>GET /health</code></li>
<li><code>GET /metrics</code></li>
</ul>
</body>
</html>
`

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
