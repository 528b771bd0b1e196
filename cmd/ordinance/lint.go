package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"permitbase/ordinance/pkg/cli"
	"permitbase/ordinance/pkg/ruleset"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule-set files",
	Long: `Validate rule-set files for structural errors.

The lint command parses rule-set documents (JSON or YAML) and performs
shape validation:
  - required metadata fields present and non-empty
  - severities and condition types from the allowed sets
  - per-condition-type required fields (value, operator, bounds)
  - category references resolve

All problems in a file are reported, not just the first.

Examples:
  # Lint a single file
  ordinance lint --file rulesets/residential-2024.json

  # Lint a directory
  ordinance lint --dir rulesets/

  # JSON output for CI/CD
  ordinance lint --dir rulesets/ --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule-set file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule-set files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome for a single rule-set file.
type LintResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}

	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule-set files: %w", err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}

	if len(files) == 0 {
		return fmt.Errorf("no rule-set files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(file))
	}

	if format == cli.FormatJSON {
		if err := cli.WriteJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printLintResults(results)
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

func lintFile(path string) LintResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return LintResult{File: path, Errors: []string{err.Error()}}
	}

	problems := ruleset.Lint(data, path)
	return LintResult{
		File:   path,
		Valid:  len(problems) == 0,
		Errors: problems,
	}
}

func printLintResults(results []LintResult) {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)
		if result.Valid {
			fmt.Println("✓ Document is well-formed")
		}
		for _, msg := range result.Errors {
			fmt.Printf("✗ Error: %s\n", msg)
			totalErrors++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalErrors)
}
