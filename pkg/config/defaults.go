package config

import "time"

// Default values applied to unset configuration fields.
const (
	DefaultRuleSetsPath  = "rulesets"
	DefaultCacheTTL      = 5 * time.Minute
	DefaultWatchDebounce = 100 * time.Millisecond

	DefaultHistoryPath   = "data/history.db"
	DefaultRetentionDays = 90

	DefaultMetricsListenAddress = ":9464"
	DefaultMetricsNamespace     = "ordinance"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills unset fields with default values. CacheTTL zero is a
// meaningful setting (reload on every call), so only negative values are
// defaulted; a deliberate "cache_ttl: 0" survives loading.
func ApplyDefaults(cfg *Config) {
	if cfg.RuleSets.Path == "" {
		cfg.RuleSets.Path = DefaultRuleSetsPath
	}
	if cfg.RuleSets.CacheTTL < 0 {
		cfg.RuleSets.CacheTTL = DefaultCacheTTL
	}
	if cfg.RuleSets.WatchDebounce <= 0 {
		cfg.RuleSets.WatchDebounce = DefaultWatchDebounce
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.RetentionDays < 0 {
		cfg.History.RetentionDays = DefaultRetentionDays
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{
		RuleSets: RuleSetsConfig{CacheTTL: DefaultCacheTTL},
	}
	ApplyDefaults(cfg)
	return cfg
}
