package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uk-osint/nexus/internal/correlate"
)

// Config holds the full application configuration.
type Config struct {
	CompaniesHouse CompaniesHouseConfig `yaml:"companies_house" mapstructure:"companies_house"`
	DVLA           DVLAConfig           `yaml:"dvla" mapstructure:"dvla"`
	MOT            MOTConfig            `yaml:"mot" mapstructure:"mot"`
	Charity        CharityConfig        `yaml:"charity" mapstructure:"charity"`
	FCA            FCAConfig            `yaml:"fca" mapstructure:"fca"`
	Search         SearchConfig         `yaml:"search" mapstructure:"search"`
	Resilience     ResilienceConfig     `yaml:"resilience" mapstructure:"resilience"`
	Correlate      CorrelateConfig      `yaml:"correlate" mapstructure:"correlate"`
	Cache          CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Export         ExportConfig         `yaml:"export" mapstructure:"export"`
	Server         ServerConfig         `yaml:"server" mapstructure:"server"`
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
}

// CompaniesHouseConfig holds Companies House API credentials.
type CompaniesHouseConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// DVLAConfig holds DVLA Vehicle Enquiry Service credentials.
type DVLAConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// MOTConfig holds DVSA MOT history API credentials.
type MOTConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// CharityConfig holds Charity Commission API credentials.
type CharityConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// FCAConfig holds FCA Register API credentials. The register requires
// both the registered email and the key.
type FCAConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Email string `yaml:"email" mapstructure:"email"`
}

// SearchConfig configures the fan-out search engine.
type SearchConfig struct {
	Sources             string `yaml:"sources" mapstructure:"sources"`
	MaxResultsPerSource int    `yaml:"max_results_per_source" mapstructure:"max_results_per_source"`
	IncludeOfficers     bool   `yaml:"include_officers" mapstructure:"include_officers"`
	TimeoutSecs         int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the fan-out deadline as a duration.
func (c SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ResilienceConfig tunes the per-source retry and circuit breaker
// behavior of the search engine.
type ResilienceConfig struct {
	RetryMaxAttempts        int     `yaml:"retry_max_attempts" mapstructure:"retry_max_attempts"`
	RetryInitialBackoffMS   int     `yaml:"retry_initial_backoff_ms" mapstructure:"retry_initial_backoff_ms"`
	RetryMaxBackoffMS       int     `yaml:"retry_max_backoff_ms" mapstructure:"retry_max_backoff_ms"`
	RetryMultiplier         float64 `yaml:"retry_multiplier" mapstructure:"retry_multiplier"`
	RetryJitterFraction     float64 `yaml:"retry_jitter_fraction" mapstructure:"retry_jitter_fraction"`
	BreakerFailureThreshold int     `yaml:"breaker_failure_threshold" mapstructure:"breaker_failure_threshold"`
	BreakerResetTimeoutSecs int     `yaml:"breaker_reset_timeout_secs" mapstructure:"breaker_reset_timeout_secs"`
}

// CorrelateConfig configures the entity correlation engine.
type CorrelateConfig struct {
	MinConfidence float64           `yaml:"min_confidence" mapstructure:"min_confidence"`
	Weights       correlate.Weights `yaml:"weights" mapstructure:"weights"`
}

// CacheConfig configures the local response cache. The cache is off
// unless explicitly enabled.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns the cache lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ExportConfig configures report output.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.nexus")

	// Environment
	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys need empty defaults so AutomaticEnv
	// picks up their NEXUS_* variables during Unmarshal.
	w := correlate.DefaultWeights()
	v.SetDefault("companies_house.key", "")
	v.SetDefault("dvla.key", "")
	v.SetDefault("mot.key", "")
	v.SetDefault("charity.key", "")
	v.SetDefault("fca.key", "")
	v.SetDefault("fca.email", "")
	v.SetDefault("search.sources", "all")
	v.SetDefault("search.max_results_per_source", 20)
	v.SetDefault("search.include_officers", true)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("resilience.retry_max_attempts", 2)
	v.SetDefault("resilience.retry_initial_backoff_ms", 250)
	v.SetDefault("resilience.retry_max_backoff_ms", 2000)
	v.SetDefault("resilience.retry_multiplier", 2.0)
	v.SetDefault("resilience.retry_jitter_fraction", 0.25)
	v.SetDefault("resilience.breaker_failure_threshold", 5)
	v.SetDefault("resilience.breaker_reset_timeout_secs", 30)
	v.SetDefault("correlate.min_confidence", correlate.DefaultMinConfidence)
	v.SetDefault("correlate.weights.company_name_threshold", w.CompanyNameThreshold)
	v.SetDefault("correlate.weights.contract_name_threshold", w.ContractNameThreshold)
	v.SetDefault("correlate.weights.buyer_discount", w.BuyerDiscount)
	v.SetDefault("correlate.weights.person_party_threshold", w.PersonPartyThreshold)
	v.SetDefault("correlate.weights.company_party_threshold", w.CompanyPartyThreshold)
	v.SetDefault("correlate.weights.case_title_gate", w.CaseTitleGate)
	v.SetDefault("correlate.weights.person_title_confidence", w.PersonTitleConfidence)
	v.SetDefault("correlate.weights.company_title_discount", w.CompanyTitleDiscount)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "nexus.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("export.format", "json")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode and
// returns every problem found, not just the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Search.MaxResultsPerSource < 1 || c.Search.MaxResultsPerSource > 100 {
		problems = append(problems, "search.max_results_per_source must be between 1 and 100")
	}
	if c.Search.TimeoutSecs <= 0 {
		problems = append(problems, "search.timeout_secs must be > 0")
	}
	if c.Correlate.MinConfidence < 0 || c.Correlate.MinConfidence > 1 {
		problems = append(problems, "correlate.min_confidence must be between 0 and 1")
	}
	if c.Cache.TTLHours < 0 {
		problems = append(problems, "cache.ttl_hours must be >= 0")
	}

	switch mode {
	case "search", "correlate":
	case "serve":
		if c.Server.Addr == "" {
			problems = append(problems, "server.addr is required")
		}
	default:
		problems = append(problems, "unknown mode "+mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
