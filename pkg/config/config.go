package config

import "time"

// Config is the root configuration for the compliance service.
type Config struct {
	RuleSets RuleSetsConfig `yaml:"rulesets"`
	History  HistoryConfig  `yaml:"history"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RuleSetsConfig configures where rule sets live and how they are cached.
type RuleSetsConfig struct {
	// Path is the directory containing rule-set documents.
	Path string `yaml:"path"`

	// CacheTTL is how long a loaded rule set stays fresh in the cache.
	// Zero disables caching so every validation re-reads from disk, which
	// suits deployments where rule-set authors iterate rapidly.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Watch enables filesystem watching so edited rule sets are dropped
	// from the cache immediately.
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before a file change triggers
	// invalidation.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// HistoryConfig configures the compliance report archive.
type HistoryConfig struct {
	// Enabled turns report persistence on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// RetentionDays is how many days of reports to keep. Zero keeps
	// reports forever.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning
	// (e.g., "0 3 * * *" for daily at 3 AM). Empty disables scheduling.
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxReports caps the number of stored reports. Zero means unlimited.
	MaxReports int64 `yaml:"max_reports"`
}

// MetricsConfig configures prometheus metrics export.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics HTTP server binds to.
	ListenAddress string `yaml:"listen_address"`

	// Namespace prefixes all exported metric names.
	Namespace string `yaml:"namespace"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the output format: json or text.
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}
