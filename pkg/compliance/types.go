package compliance

import (
	"time"

	"permitbase/ordinance/pkg/ruleset"
)

// Spec is a design specification: an arbitrary nested document supplied by
// the caller, already deserialized from JSON. The engine never mutates it.
type Spec = map[string]any

// Finding is one reported violation or warning produced by evaluating a
// single rule against a design specification.
type Finding struct {
	// Code is the id of the violated rule.
	Code string `json:"code"`

	// Severity is the rule's severity.
	Severity ruleset.Severity `json:"severity"`

	// Rule is the rule's human-readable name.
	Rule string `json:"rule"`

	// Message is the formatted violation message.
	Message string `json:"message"`

	// CurrentValue is the value extracted from the design spec, nil when
	// the field was absent.
	CurrentValue any `json:"current_value,omitempty"`

	// RequiredValue is the threshold or expectation the rule demands.
	RequiredValue any `json:"required_value,omitempty"`

	// Location is the final segment of the condition's field path.
	Location string `json:"location"`

	// Suggestion optionally tells the designer how to resolve the finding.
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the compliance verdict for one design specification against one
// rule set. It is created fresh per Validate call and owned by the caller.
type Result struct {
	// IsCompliant is true iff no critical-severity violation was produced.
	IsCompliant bool `json:"is_compliant"`

	// Violations holds critical findings, in rule document order.
	Violations []Finding `json:"violations"`

	// Warnings holds non-critical findings, in rule document order.
	Warnings []Finding `json:"warnings"`

	// RuleSetName and RuleSetVersion identify the rule set evaluated.
	RuleSetName    string `json:"rule_set_name"`
	RuleSetVersion string `json:"rule_set_version"`

	// CheckedRules is the number of rules evaluated (including rules that
	// did not apply).
	CheckedRules int `json:"checked_rules"`

	// EvaluationTime is how long the evaluation took, excluding the
	// rule-set load.
	EvaluationTime time.Duration `json:"evaluation_time"`
}
