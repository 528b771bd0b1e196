package ruleset

// Severity classifies how serious a rule violation is.
type Severity string

const (
	// SeverityCritical marks violations that block approval of a design.
	SeverityCritical Severity = "critical"

	// SeverityWarning marks violations that should be reviewed but do not
	// block approval.
	SeverityWarning Severity = "warning"

	// SeverityInfo marks advisory findings.
	SeverityInfo Severity = "info"
)

// Severities lists all permitted severities in display order.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

// Valid reports whether s is one of the permitted severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// ConditionType identifies the comparison family of a rule condition.
type ConditionType string

const (
	ConditionMinimumValue      ConditionType = "minimum_value"
	ConditionMaximumValue      ConditionType = "maximum_value"
	ConditionMinimumCount      ConditionType = "minimum_count"
	ConditionMinimumPercentage ConditionType = "minimum_percentage"
	ConditionRequiredField     ConditionType = "required_field"
	ConditionRange             ConditionType = "range"
	ConditionMinimumDistance   ConditionType = "minimum_distance"
	ConditionMinimumArea       ConditionType = "minimum_area"
)

// ConditionTypes lists all permitted condition types.
var ConditionTypes = []ConditionType{
	ConditionMinimumValue,
	ConditionMaximumValue,
	ConditionMinimumCount,
	ConditionMinimumPercentage,
	ConditionRequiredField,
	ConditionRange,
	ConditionMinimumDistance,
	ConditionMinimumArea,
}

// Valid reports whether t is one of the permitted condition types.
func (t ConditionType) Valid() bool {
	for _, known := range ConditionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Numeric reports whether t compares the extracted value against a numeric
// threshold and therefore requires both "value" and "operator".
func (t ConditionType) Numeric() bool {
	switch t {
	case ConditionMinimumValue, ConditionMaximumValue, ConditionMinimumCount,
		ConditionMinimumPercentage, ConditionMinimumDistance, ConditionMinimumArea:
		return true
	}
	return false
}

// Operator is a comparison operator inside a condition.
type Operator string

const (
	OperatorGreaterEqual Operator = ">="
	OperatorGreater      Operator = ">"
	OperatorLessEqual    Operator = "<="
	OperatorLess         Operator = "<"
	OperatorEqual        Operator = "=="
)

// Valid reports whether op is one of the permitted operators.
func (op Operator) Valid() bool {
	switch op {
	case OperatorGreaterEqual, OperatorGreater, OperatorLessEqual, OperatorLess, OperatorEqual:
		return true
	}
	return false
}

// Metadata identifies a rule set. All fields are required and non-empty.
type Metadata struct {
	// Name is the human-readable rule set name.
	Name string `json:"name" yaml:"name"`

	// Version is the code edition version (e.g., "2024.1").
	Version string `json:"version" yaml:"version"`

	// Jurisdiction is the authority the rule set applies under.
	Jurisdiction string `json:"jurisdiction" yaml:"jurisdiction"`

	// EffectiveDate is when this edition took effect (ISO date string).
	EffectiveDate string `json:"effective_date" yaml:"effective_date"`

	// Description summarizes the rule set's scope.
	Description string `json:"description" yaml:"description"`
}

// Category groups related rules (e.g., "setbacks", "fire_safety").
type Category struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

/// Condition is the testable predicate inside a rule: a comparison against a
// field of the design specification.
type Condition struct {
	// Type selects the comparison family.
	Type ConditionType `json:"type" yaml:"type"`

	// Field is a dot-separated path into the design specification
	// (e.g., "setbacks.front").
	Field string `json:"field" yaml:"field"`

	// Operator is required for numeric-comparison condition types.
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`

	// Value is the comparison threshold (numeric types) or the exact
	// expected value (required_field).
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// AllowedValues is the permitted value set for required_field conditions.
	AllowedValues []any `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`

	// MinValue and MaxValue bound range conditions; both are required for
	// type "range".
	MinValue *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty"`

	// Unit is an optional unit label used when formatting messages.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// AppliesWhen optionally gates minimum_count rules: the rule applies
	// only when this sub-condition is satisfied by the design spec.
	AppliesWhen *Condition `json:"applies_when,omitempty" yaml:"applies_when,omitempty"`
}

// Rule is a single compliance rule within a rule set.
type Rule struct {
	// ID uniquely identifies the rule within the document.
	ID string `json:"id" yaml:"id"`

	// Category references a key of the document's categories section.
	Category string `json:"category" yaml:"category"`

	// Name is the short human-readable rule name.
	Name string `json:"name" yaml:"name"`

	// Description explains what the rule checks.
	Description string `json:"description" yaml:"description"`

	// Severity classifies violations of this rule.
	Severity Severity `json:"severity" yaml:"severity"`

	// BuildingTypes lists the building types the rule applies to
	// (non-empty; e.g., "residential", "commercial").
	BuildingTypes []string `json:"building_types" yaml:"building_types"`

	// Condition is the predicate evaluated against the design spec.
	Condition Condition `json:"condition" yaml:"condition"`

	// ViolationMessage is an optional message template. It may reference
	// {required_value}, {current_value}, {unit}, and {allowed_values}.
	// When empty, Description is used.
	ViolationMessage string `json:"violation_message,omitempty" yaml:"violation_message,omitempty"`

	// Suggestion optionally tells the designer how to fix the violation.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// AppliesTo reports whether the rule applies to the given building type.
// An unknown or empty building type never filters a rule out; only a known
// type that is absent from the rule's list does.
func (r *Rule) AppliesTo(buildingType string) bool {
	if buildingType == "" || len(r.BuildingTypes) == 0 {
		return true
	}
	for _, bt := range r.BuildingTypes {
		if bt == buildingType {
			return true
		}
	}
	return false
}

// SeverityLevel configures how a severity is treated by approval workflows.
type SeverityLevel struct {
	// BlocksApproval reports whether findings at this severity block
	// design approval.
	BlocksApproval bool `json:"blocks_approval" yaml:"blocks_approval"`

	// Description optionally documents the level for operators.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ValidationConfig carries advisory evaluation settings. The engine itself
// does not enforce TimeoutSeconds; callers wanting a hard deadline wrap the
// validate call externally.
type ValidationConfig struct {
	TimeoutSeconds int                        `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	SeverityLevels map[Severity]SeverityLevel `json:"severity_levels,omitempty" yaml:"severity_levels,omitempty"`
}

// Document is the validated in-memory representation of one rule set.
// Documents are immutable once loaded; the store hands the same parsed
// instance to concurrent callers.
type Document struct {
	Metadata         Metadata            `json:"metadata" yaml:"metadata"`
	Categories       map[string]Category `json:"categories" yaml:"categories"`
	Rules            []Rule              `json:"rules" yaml:"rules"`
	ValidationConfig ValidationConfig    `json:"validation_config" yaml:"validation_config"`
}

// Rule returns the rule with the given id, or nil if absent.
func (d *Document) Rule(id string) *Rule {
	for i := range d.Rules {
		if d.Rules[i].ID == id {
			return &d.Rules[i]
		}
	}
	return nil
}
