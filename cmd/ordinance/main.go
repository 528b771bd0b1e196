// Ordinance validates building design specifications against
// jurisdiction-specific building-code rule sets.
//
// Usage:
//
//	# Check a design specification against a rule set
//	ordinance check --spec design.json --ruleset residential-2024
//
//	# Lint rule-set files before deploying them
//	ordinance lint --dir rulesets/
//
//	# Show version information
//	ordinance version
package main

func main() {
	Execute()
}
