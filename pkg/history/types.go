package history

import (
	"time"

	"permitbase/ordinance/pkg/compliance"
)

// Report is an archived compliance validation outcome.
type Report struct {
	// ID is a UUID assigned when the report is saved.
	ID string `json:"id"`

	// RuleSetName is the rule set the specification was validated against.
	RuleSetName string `json:"rule_set_name"`

	// RuleSetVersion is the version of that rule set at validation time.
	RuleSetVersion string `json:"rule_set_version"`

	// IsCompliant records whether the specification passed.
	IsCompliant bool `json:"is_compliant"`

	// Violations and Warnings are the findings from the validation,
	// preserved in evaluation order.
	Violations []compliance.Finding `json:"violations"`
	Warnings   []compliance.Finding `json:"warnings"`

	// CheckedRules is the number of rules evaluated.
	CheckedRules int `json:"checked_rules"`

	// EvaluationTime is how long rule evaluation took.
	EvaluationTime time.Duration `json:"evaluation_time"`

	// CreatedAt is when the report was saved.
	CreatedAt time.Time `json:"created_at"`
}

// NewReport builds a Report from a validation result. The ID and
// CreatedAt fields are assigned by Store.Save.
func NewReport(result *compliance.Result) *Report {
	return &Report{
		RuleSetName:    result.RuleSetName,
		RuleSetVersion: result.RuleSetVersion,
		IsCompliant:    result.IsCompliant,
		Violations:     result.Violations,
		Warnings:       result.Warnings,
		CheckedRules:   result.CheckedRules,
		EvaluationTime: result.EvaluationTime,
	}
}

// ListFilter narrows List queries. Zero values mean "no constraint".
type ListFilter struct {
	// RuleSetName restricts results to reports for one rule set.
	RuleSetName string

	// Since restricts results to reports created at or after this time.
	Since time.Time

	// Limit caps the number of returned reports. Zero means no cap.
	Limit int
}
