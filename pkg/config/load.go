package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// ORDINANCE_* environment overrides, and validates the result.
//
// The loading sequence is:
//  1. Parse YAML from the file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
	}

	var cfg Config
	// CacheTTL sentinel: distinguish "unset" from an explicit zero.
	cfg.RuleSets.CacheTTL = -1
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies ORDINANCE_SECTION_FIELD environment variables
// on top of the loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ORDINANCE_RULESETS_PATH"); val != "" {
		cfg.RuleSets.Path = val
	}
	if val := os.Getenv("ORDINANCE_RULESETS_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.RuleSets.CacheTTL = d
		}
	}
	if val := os.Getenv("ORDINANCE_RULESETS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.RuleSets.Watch = b
		}
	}

	if val := os.Getenv("ORDINANCE_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("ORDINANCE_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("ORDINANCE_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}
	if val := os.Getenv("ORDINANCE_HISTORY_PRUNE_SCHEDULE"); val != "" {
		cfg.History.PruneSchedule = val
	}

	if val := os.Getenv("ORDINANCE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ORDINANCE_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}

	if val := os.Getenv("ORDINANCE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ORDINANCE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
