package main

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/uk-osint/nexus/internal/correlate"
	"github.com/uk-osint/nexus/internal/resilience"
	"github.com/uk-osint/nexus/internal/search"
	"github.com/uk-osint/nexus/internal/store"
	"github.com/uk-osint/nexus/pkg/bailii"
	"github.com/uk-osint/nexus/pkg/charity"
	"github.com/uk-osint/nexus/pkg/companieshouse"
	"github.com/uk-osint/nexus/pkg/contractsfinder"
	"github.com/uk-osint/nexus/pkg/cqc"
	"github.com/uk-osint/nexus/pkg/dvla"
	"github.com/uk-osint/nexus/pkg/electoral"
	"github.com/uk-osint/nexus/pkg/fca"
	"github.com/uk-osint/nexus/pkg/foodstandards"
	"github.com/uk-osint/nexus/pkg/gazette"
	"github.com/uk-osint/nexus/pkg/insolvency"
	"github.com/uk-osint/nexus/pkg/landregistry"
	"github.com/uk-osint/nexus/pkg/mot"
	"github.com/uk-osint/nexus/pkg/police"
	"github.com/uk-osint/nexus/pkg/sanctions"
)

// cacheSource is the response-cache key prefix for unified searches.
const cacheSource = "unified_search"

// searchEnv holds the initialized clients, engine, correlator and
// optional cache store shared by the CLI commands and the server.
type searchEnv struct {
	Clients    search.Clients
	Engine     *search.Engine
	Correlator *correlate.Correlator
	Store      store.Store // nil when the cache is disabled
}

// Close releases resources held by the environment.
func (e *searchEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates the config for the given mode and builds the
// clients, engine and correlator. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*searchEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &searchEnv{
		Clients: buildClients(),
		Correlator: correlate.New(
			correlate.WithMinConfidence(cfg.Correlate.MinConfidence),
			correlate.WithWeights(cfg.Correlate.Weights),
		),
	}
	env.Engine = search.NewEngine(env.Clients,
		search.WithRetry(resilience.FromRetryConfig(
			cfg.Resilience.RetryMaxAttempts,
			cfg.Resilience.RetryInitialBackoffMS,
			cfg.Resilience.RetryMaxBackoffMS,
			cfg.Resilience.RetryMultiplier,
			cfg.Resilience.RetryJitterFraction,
		)),
		search.WithBreakers(resilience.NewSourceBreakers(resilience.FromCircuitConfig(
			cfg.Resilience.BreakerFailureThreshold,
			cfg.Resilience.BreakerResetTimeoutSecs,
		))),
	)

	if cfg.Cache.Enabled {
		st, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		env.Store = st
	}

	return env, nil
}

// buildClients constructs one client per data source. Sources whose
// API requires a key stay nil until the key is configured; the engine
// skips nil clients.
func buildClients() search.Clients {
	cl := search.Clients{
		BAILII:          bailii.NewClient(),
		ContractsFinder: contractsfinder.NewClient(),
		Electoral:       electoral.NewClient(),
		Police:          police.NewClient(),
		Insolvency:      insolvency.NewClient(),
		LandRegistry:    landregistry.NewClient(),
		Sanctions:       sanctions.NewClient(),
		FoodStandards:   foodstandards.NewClient(),
		Gazette:         gazette.NewClient(),
		CQC:             cqc.NewClient(),
	}

	if cfg.CompaniesHouse.Key != "" {
		// Companies House allows 600 requests per 5 minutes per key.
		cl.CompaniesHouse = companieshouse.NewClient(cfg.CompaniesHouse.Key,
			companieshouse.WithRateLimiter(rate.NewLimiter(rate.Every(500*time.Millisecond), 10)))
	} else {
		zap.L().Debug("NEXUS_COMPANIES_HOUSE_KEY not set, companies house disabled")
	}
	if cfg.MOT.Key != "" {
		cl.MOT = mot.NewClient(cfg.MOT.Key)
	}
	if cfg.DVLA.Key != "" {
		cl.DVLA = dvla.NewClient(cfg.DVLA.Key)
	}
	if cfg.Charity.Key != "" {
		cl.Charity = charity.NewClient(cfg.Charity.Key)
	}
	if cfg.FCA.Key != "" && cfg.FCA.Email != "" {
		cl.FCA = fca.NewClient(cfg.FCA.Key, cfg.FCA.Email)
	}

	return cl
}

// cachedSearch runs a unified search through the response cache when
// one is configured, and records the search in history.
func (e *searchEnv) cachedSearch(ctx context.Context, query string, opts search.Options) (*search.Result, error) {
	key := query + "|" + opts.Sources.String()

	if e.Store != nil {
		cached, err := e.Store.GetCachedResponse(ctx, cacheSource, key)
		if err != nil {
			zap.L().Warn("cache read failed", zap.Error(err))
		} else if cached != nil {
			var res search.Result
			if err := json.Unmarshal(cached.Payload, &res); err == nil {
				zap.L().Debug("cache hit", zap.String("query", query))
				return &res, nil
			}
			zap.L().Warn("cache payload corrupt, refetching", zap.Error(err))
		}
	}

	start := time.Now()
	res, err := e.Engine.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	if e.Store != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := e.Store.PutCachedResponse(ctx, cacheSource, key, payload, cfg.Cache.TTL()); err != nil {
				zap.L().Warn("cache write failed", zap.Error(err))
			}
		}
		if _, err := e.Store.RecordSearch(ctx, query, opts.Sources.String(), res.TotalResults(), time.Since(start)); err != nil {
			zap.L().Warn("record search failed", zap.Error(err))
		}
	}

	return res, nil
}
