package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// validLogLevels and validLogFormats enumerate accepted logging settings.
var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// Validate checks the configuration for errors. Problems are accumulated
// and reported together so an operator can fix a config file in one pass.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.RuleSets.Path == "" {
		errs = append(errs, "rulesets.path: must not be empty")
	}
	if cfg.RuleSets.CacheTTL < 0 {
		errs = append(errs, "rulesets.cache_ttl: must not be negative")
	}
	if cfg.RuleSets.WatchDebounce <= 0 {
		errs = append(errs, "rulesets.watch_debounce: must be positive")
	}

	if cfg.History.Enabled {
		if cfg.History.Path == "" {
			errs = append(errs, "history.path: must not be empty when history is enabled")
		}
		if cfg.History.RetentionDays < 0 {
			errs = append(errs, "history.retention_days: must not be negative")
		}
		if cfg.History.MaxReports < 0 {
			errs = append(errs, "history.max_reports: must not be negative")
		}
		if cfg.History.PruneSchedule != "" {
			if _, err := cron.ParseStandard(cfg.History.PruneSchedule); err != nil {
				errs = append(errs, fmt.Sprintf("history.prune_schedule: invalid cron expression %q: %v",
					cfg.History.PruneSchedule, err))
			}
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, "metrics.listen_address: must not be empty when metrics are enabled")
	}

	if !contains(validLogLevels, cfg.Logging.Level) {
		errs = append(errs, fmt.Sprintf("logging.level: invalid level %q (allowed: %s)",
			cfg.Logging.Level, strings.Join(validLogLevels, ", ")))
	}
	if !contains(validLogFormats, cfg.Logging.Format) {
		errs = append(errs, fmt.Sprintf("logging.format: invalid format %q (allowed: %s)",
			cfg.Logging.Format, strings.Join(validLogFormats, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
