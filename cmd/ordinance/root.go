package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"permitbase/ordinance/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ordinance",
	Short: "Ordinance - building-code compliance validator",
	Long: `Ordinance validates building design specifications against
jurisdiction-specific building-code rule sets.

Rule sets are JSON or YAML documents describing categories, rules, and
machine-evaluable conditions. A design specification is a JSON document
describing the building. Ordinance evaluates every applicable rule and
reports violations and warnings in rule order.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration from --config if given, otherwise
// returns defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.NewDefault(), nil
	}
	return config.Load(cfgFile)
}

// newLogger builds the process logger from configuration and the
// --verbose flag.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.Logging.AddSource}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
