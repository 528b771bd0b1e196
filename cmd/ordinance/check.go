package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"permitbase/ordinance/pkg/cli"
	"permitbase/ordinance/pkg/compliance"
	"permitbase/ordinance/pkg/config"
	"permitbase/ordinance/pkg/history"
	"permitbase/ordinance/pkg/ruleset"
	"permitbase/ordinance/pkg/ruleset/source"
)

var checkFlags struct {
	spec    string
	ruleSet string
	format  string
	save    bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a design specification against a rule set",
	Long: `Validate a building design specification against a named rule set.

The specification is a JSON document. The rule set is resolved by name in
the configured rule-set directory (JSON or YAML). Every applicable rule is
evaluated; violations and warnings are reported in rule order.

The command exits non-zero when the specification is non-compliant.

Examples:
  # Check a specification
  ordinance check --spec design.json --ruleset residential-2024

  # JSON output for CI/CD
  ordinance check --spec design.json --ruleset residential-2024 --format json

  # Archive the report in the history database
  ordinance check --spec design.json --ruleset residential-2024 --save`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.spec, "spec", "s", "", "design specification JSON file")
	checkCmd.Flags().StringVarP(&checkFlags.ruleSet, "ruleset", "r", "", "rule set name")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.save, "save", false, "archive the report in the history database")
	checkCmd.MarkFlagRequired("spec")
	checkCmd.MarkFlagRequired("ruleset")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(checkFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	data, err := os.ReadFile(checkFlags.spec)
	if err != nil {
		return fmt.Errorf("reading specification %q: %w", checkFlags.spec, err)
	}
	var spec compliance.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parsing specification %q: %w", checkFlags.spec, err)
	}

	src := source.NewFileSource(cfg.RuleSets.Path)
	store := ruleset.NewStore(src, ruleset.StoreConfig{
		TTL:    cfg.RuleSets.CacheTTL,
		Logger: logger,
	})
	engine := compliance.NewEngine(store, logger, nil)

	result, err := engine.Validate(cmd.Context(), spec, checkFlags.ruleSet)
	if err != nil {
		return err
	}

	if checkFlags.save {
		if err := saveReport(cmd, cfg, result); err != nil {
			return err
		}
	}

	if format == cli.FormatJSON {
		if err := cli.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if !result.IsCompliant {
		return cli.NewCommandError("check", fmt.Errorf("specification is not compliant"))
	}
	return nil
}

func saveReport(cmd *cobra.Command, cfg *config.Config, result *compliance.Result) error {
	archive, err := history.NewStore(history.StoreConfig{Path: cfg.History.Path})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer archive.Close()

	id, err := archive.Save(cmd.Context(), history.NewReport(result))
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "report saved: %s\n", id)
	return nil
}

func printResult(result *compliance.Result) {
	fmt.Printf("Rule set: %s %s\n", result.RuleSetName, result.RuleSetVersion)
	fmt.Printf("Checked %d rule(s) in %s\n\n", result.CheckedRules, result.EvaluationTime)

	for _, f := range result.Violations {
		fmt.Printf("✗ [%s] %s: %s\n", f.Severity, f.Rule, f.Message)
		if f.Suggestion != "" {
			fmt.Printf("    suggestion: %s\n", f.Suggestion)
		}
	}
	for _, f := range result.Warnings {
		fmt.Printf("⚠ [%s] %s: %s\n", f.Severity, f.Rule, f.Message)
		if f.Suggestion != "" {
			fmt.Printf("    suggestion: %s\n", f.Suggestion)
		}
	}

	fmt.Println()
	if result.IsCompliant {
		fmt.Printf("COMPLIANT (%d warning(s))\n", len(result.Warnings))
	} else {
		fmt.Printf("NOT COMPLIANT: %d violation(s), %d warning(s)\n",
			len(result.Violations), len(result.Warnings))
	}
}
