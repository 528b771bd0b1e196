package compliance

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"permitbase/ordinance/pkg/ruleset"
)

// buildingTypeField is the fixed design-spec path holding the building type
// used for rule applicability filtering.
const buildingTypeField = "building_info.type"

// Extract walks a design specification one dot-separated path segment at a
// time. The second return value is false when any segment is missing or an
// intermediate value is not a mapping; this absence is a normal, expected
// outcome for partially populated specs, not an error.
func Extract(spec Spec, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = map[string]any(spec)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Evaluator decides whether a single rule's condition is violated by a
// design specification. It owns the parameter-extraction and comparison
// semantics; the engine owns iteration and aggregation.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates a condition evaluator.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger.With("component", "compliance.evaluator")}
}

// Evaluate checks one rule against a design specification. It returns a
// finding when the rule applies and its condition is violated, and nil when
// the rule does not apply, passes, or cannot be evaluated (absent field on a
// non-required_field condition, or a type that does not support the
// requested comparison).
func (ev *Evaluator) Evaluate(spec Spec, rule *ruleset.Rule) *Finding {
	// Building-type gate: a rule scoped to other building types does not
	// apply, even if its condition would otherwise be violated.
	if bt, ok := Extract(spec, buildingTypeField); ok {
		if btStr, ok := bt.(string); ok && !rule.AppliesTo(btStr) {
			return nil
		}
	}

	cond := &rule.Condition

	// applies_when gate for minimum_count rules: the rule only applies
	// when the gating sub-condition is satisfied by the spec.
	if cond.Type == ruleset.ConditionMinimumCount && cond.AppliesWhen != nil {
		gateValue, ok := Extract(spec, cond.AppliesWhen.Field)
		if !ok || !satisfied(gateValue, cond.AppliesWhen.Operator, cond.AppliesWhen.Value) {
			return nil
		}
	}

	value, present := Extract(spec, cond.Field)

	violated, current, required := ev.check(cond, value, present)
	if !violated {
		return nil
	}

	return &Finding{
		Code:          rule.ID,
		Severity:      rule.Severity,
		Rule:          rule.Name,
		Message:       formatMessage(rule, current, required),
		CurrentValue:  current,
		RequiredValue: required,
		Location:      lastSegment(cond.Field),
		Suggestion:    rule.Suggestion,
	}
}

// check applies the condition-type-specific comparison. It returns whether
// the condition is violated plus the current and required values for the
// finding.
func (ev *Evaluator) check(cond *ruleset.Condition, value any, present bool) (violated bool, current, required any) {
	switch cond.Type {
	case ruleset.ConditionMinimumValue, ruleset.ConditionMinimumDistance,
		ruleset.ConditionMinimumArea, ruleset.ConditionMinimumCount,
		ruleset.ConditionMinimumPercentage:
		// minimum_percentage deliberately shares the minimum_value
		// comparison: the stored value is compared directly against the
		// threshold with no denominator normalization. That matches the
		// behavior rule sets in the field already depend on, even though
		// the name suggests otherwise.
		if !present {
			return false, nil, cond.Value
		}
		v, ok := toFloat64(value)
		if !ok {
			ev.skipped(cond, value)
			return false, nil, cond.Value
		}
		threshold, ok := toFloat64(cond.Value)
		if !ok {
			return false, nil, cond.Value
		}
		switch cond.Operator {
		case ruleset.OperatorGreaterEqual:
			return v < threshold, value, cond.Value
		case ruleset.OperatorGreater:
			return v <= threshold, value, cond.Value
		}
		return false, value, cond.Value

	case ruleset.ConditionMaximumValue:
		if !present {
			return false, nil, cond.Value
		}
		v, ok := toFloat64(value)
		if !ok {
			ev.skipped(cond, value)
			return false, nil, cond.Value
		}
		threshold, ok := toFloat64(cond.Value)
		if !ok {
			return false, nil, cond.Value
		}
		switch cond.Operator {
		case ruleset.OperatorLessEqual:
			return v > threshold, value, cond.Value
		case ruleset.OperatorLess:
			return v >= threshold, value, cond.Value
		}
		return false, value, cond.Value

	case ruleset.ConditionRequiredField:
		required = requiredFieldExpectation(cond)
		if !present {
			// Absence itself is the violation here.
			return true, nil, required
		}
		if len(cond.AllowedValues) > 0 && !member(value, cond.AllowedValues) {
			return true, value, required
		}
		if cond.Value != nil && !looseEqual(value, cond.Value) {
			return true, value, required
		}
		return false, value, required

	case ruleset.ConditionRange:
		if cond.MinValue == nil || cond.MaxValue == nil {
			return false, value, nil
		}
		required = rangeExpectation(cond)
		if !present {
			return false, nil, required
		}
		v, ok := toFloat64(value)
		if !ok {
			ev.skipped(cond, value)
			return false, nil, required
		}
		return v < *cond.MinValue || v > *cond.MaxValue, value, required
	}

	return false, value, cond.Value
}

// skipped logs a comparison that could not be performed. Skips are silent at
// the result level; the log line exists for rule-set debugging.
func (ev *Evaluator) skipped(cond *ruleset.Condition, value any) {
	ev.logger.Debug("condition skipped: value type does not support comparison",
		"field", cond.Field,
		"type", string(cond.Type),
		"value_type", fmt.Sprintf("%T", value),
	)
}

// satisfied evaluates a gating comparison (applies_when) using the same
// comparison table as the main conditions. Values that cannot be compared
// leave the gate unsatisfied, so the rule does not apply.
func satisfied(value any, op ruleset.Operator, expected any) bool {
	if op == ruleset.OperatorEqual {
		return looseEqual(value, expected)
	}

	v, ok := toFloat64(value)
	if !ok {
		return false
	}
	threshold, ok := toFloat64(expected)
	if !ok {
		return false
	}

	switch op {
	case ruleset.OperatorGreaterEqual:
		return v >= threshold
	case ruleset.OperatorGreater:
		return v > threshold
	case ruleset.OperatorLessEqual:
		return v <= threshold
	case ruleset.OperatorLess:
		return v < threshold
	}
	return false
}

// requiredFieldExpectation picks the value reported as required for a
// required_field finding.
func requiredFieldExpectation(cond *ruleset.Condition) any {
	if cond.Value != nil {
		return cond.Value
	}
	if len(cond.AllowedValues) > 0 {
		return cond.AllowedValues
	}
	return nil
}

// rangeExpectation renders the [min, max] bounds of a range condition.
func rangeExpectation(cond *ruleset.Condition) any {
	return []float64{*cond.MinValue, *cond.MaxValue}
}

// member reports whether value equals any element of the list, using the
// same loose equality as required_field exact matches.
func member(value any, list []any) bool {
	for _, candidate := range list {
		if looseEqual(value, candidate) {
			return true
		}
	}
	return false
}

// looseEqual compares two values, coercing numerics so that a JSON float64
// matches a YAML int threshold. Non-numeric values fall back to deep
// equality.
func looseEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	an, aok := toFloat64(a)
	bn, bok := toFloat64(b)
	if aok && bok {
		return an == bn
	}

	return reflect.DeepEqual(a, b)
}

// toFloat64 converts a decoded document value to float64.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	}
	return 0, false
}

// lastSegment returns the final segment of a dot-separated field path.
func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
