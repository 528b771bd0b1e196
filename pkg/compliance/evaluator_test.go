package compliance

import (
	"reflect"
	"testing"

	"permitbase/ordinance/pkg/ruleset"
)

func floatPtr(f float64) *float64 { return &f }

// minRule builds a minimum_value rule for evaluator tests.
func minRule(field, operator string, threshold float64) *ruleset.Rule {
	return &ruleset.Rule{
		ID:            "TST-001",
		Category:      "test",
		Name:          "test rule",
		Description:   "value must satisfy threshold",
		Severity:      ruleset.SeverityCritical,
		BuildingTypes: []string{"residential"},
		Condition: ruleset.Condition{
			Type:     ruleset.ConditionMinimumValue,
			Field:    field,
			Operator: ruleset.Operator(operator),
			Value:    threshold,
		},
	}
}

func TestExtract(t *testing.T) {
	spec := Spec{
		"building_info": map[string]any{"type": "residential"},
		"setbacks":      map[string]any{"front": 4.5},
		"flat":          42,
	}

	tests := []struct {
		path      string
		wantValue any
		wantOK    bool
	}{
		{"building_info.type", "residential", true},
		{"setbacks.front", 4.5, true},
		{"flat", 42, true},
		{"setbacks.rear", nil, false},
		{"absent.deeply.nested", nil, false},
		{"flat.sub", nil, false}, // intermediate value is not a mapping
		{"", nil, false},
	}

	for _, tt := range tests {
		value, ok := Extract(spec, tt.path)
		if ok != tt.wantOK || (ok && !reflect.DeepEqual(value, tt.wantValue)) {
			t.Errorf("Extract(%q) = (%v, %v), want (%v, %v)",
				tt.path, value, ok, tt.wantValue, tt.wantOK)
		}
	}
}

func TestEvaluate_MinimumFamily(t *testing.T) {
	ev := NewEvaluator(nil)

	tests := []struct {
		name     string
		condType ruleset.ConditionType
		operator ruleset.Operator
		value    any
		want     bool // want a finding
	}{
		{"below threshold with >=", ruleset.ConditionMinimumValue, ">=", 4.5, true},
		{"at threshold with >=", ruleset.ConditionMinimumValue, ">=", 5.0, false},
		{"above threshold with >=", ruleset.ConditionMinimumValue, ">=", 6.0, false},
		{"at threshold with >", ruleset.ConditionMinimumValue, ">", 5.0, true},
		{"above threshold with >", ruleset.ConditionMinimumValue, ">", 5.1, false},
		{"minimum_distance below", ruleset.ConditionMinimumDistance, ">=", 4.0, true},
		{"minimum_area below", ruleset.ConditionMinimumArea, ">=", 4.0, true},
		{"minimum_count below", ruleset.ConditionMinimumCount, ">=", 4.0, true},
		{"minimum_percentage below", ruleset.ConditionMinimumPercentage, ">=", 4.0, true},
		{"integer value coerced", ruleset.ConditionMinimumValue, ">=", 4, true},
		{"string value skipped", ruleset.ConditionMinimumValue, ">=", "tall", false},
		{"nil value skipped", ruleset.ConditionMinimumValue, ">=", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := minRule("setbacks.front", string(tt.operator), 5.0)
			rule.Condition.Type = tt.condType

			spec := Spec{
				"building_info": map[string]any{"type": "residential"},
				"setbacks":      map[string]any{"front": tt.value},
			}

			finding := ev.Evaluate(spec, rule)
			if (finding != nil) != tt.want {
				t.Errorf("Evaluate() finding = %v, want finding=%v", finding, tt.want)
			}
		})
	}
}

func TestEvaluate_AbsentFieldIsNotViolation(t *testing.T) {
	ev := NewEvaluator(nil)
	rule := minRule("setbacks.front", ">=", 5.0)

	spec := Spec{"building_info": map[string]any{"type": "residential"}}
	if finding := ev.Evaluate(spec, rule); finding != nil {
		t.Errorf("Evaluate() with absent field = %v, want nil", finding)
	}
}

func TestEvaluate_MaximumValue(t *testing.T) {
	ev := NewEvaluator(nil)

	tests := []struct {
		name     string
		operator ruleset.Operator
		value    float64
		want     bool
	}{
		{"above threshold with <=", "<=", 12.0, true},
		{"at threshold with <=", "<=", 10.0, false},
		{"at threshold with <", "<", 10.0, true},
		{"below threshold with <", "<", 9.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &ruleset.Rule{
				ID:            "HGT-001",
				Severity:      ruleset.SeverityCritical,
				BuildingTypes: []string{"residential"},
				Condition: ruleset.Condition{
					Type:     ruleset.ConditionMaximumValue,
					Field:    "dimensions.height",
					Operator: tt.operator,
					Value:    10.0,
				},
			}
			spec := Spec{"dimensions": map[string]any{"height": tt.value}}

			finding := ev.Evaluate(spec, rule)
			if (finding != nil) != tt.want {
				t.Errorf("Evaluate() finding = %v, want finding=%v", finding, tt.want)
			}
		})
	}
}

func TestEvaluate_RequiredField(t *testing.T) {
	ev := NewEvaluator(nil)

	base := func() *ruleset.Rule {
		return &ruleset.Rule{
			ID:            "MAT-001",
			Severity:      ruleset.SeverityCritical,
			BuildingTypes: []string{"residential"},
			Condition: ruleset.Condition{
				Type:  ruleset.ConditionRequiredField,
				Field: "structure.wall_material",
			},
		}
	}

	t.Run("absence is a violation", func(t *testing.T) {
		rule := base()
		rule.Condition.AllowedValues = []any{"concrete", "wood"}

		finding := ev.Evaluate(Spec{}, rule)
		if finding == nil {
			t.Fatal("Evaluate() = nil, want violation for absent required field")
		}
		if finding.CurrentValue != nil {
			t.Errorf("CurrentValue = %v, want nil", finding.CurrentValue)
		}
	})

	t.Run("allowed member passes", func(t *testing.T) {
		rule := base()
		rule.Condition.AllowedValues = []any{"concrete", "wood"}

		spec := Spec{"structure": map[string]any{"wall_material": "wood"}}
		if finding := ev.Evaluate(spec, rule); finding != nil {
			t.Errorf("Evaluate() = %v, want nil", finding)
		}
	})

	t.Run("non-member is a violation", func(t *testing.T) {
		rule := base()
		rule.Condition.AllowedValues = []any{"concrete", "wood"}

		spec := Spec{"structure": map[string]any{"wall_material": "straw"}}
		if finding := ev.Evaluate(spec, rule); finding == nil {
			t.Error("Evaluate() = nil, want violation for disallowed value")
		}
	})

	t.Run("exact value mismatch is a violation", func(t *testing.T) {
		rule := base()
		rule.Condition.Value = true

		spec := Spec{"structure": map[string]any{"wall_material": false}}
		if finding := ev.Evaluate(spec, rule); finding == nil {
			t.Error("Evaluate() = nil, want violation for value mismatch")
		}
	})

	t.Run("numeric coercion in exact match", func(t *testing.T) {
		rule := base()
		rule.Condition.Value = 2

		spec := Spec{"structure": map[string]any{"wall_material": 2.0}}
		if finding := ev.Evaluate(spec, rule); finding != nil {
			t.Errorf("Evaluate() = %v, want nil (2 == 2.0)", finding)
		}
	})
}

func TestEvaluate_Range(t *testing.T) {
	ev := NewEvaluator(nil)

	rule := func() *ruleset.Rule {
		return &ruleset.Rule{
			ID:            "RNG-001",
			Severity:      ruleset.SeverityWarning,
			BuildingTypes: []string{"residential"},
			Condition: ruleset.Condition{
				Type:     ruleset.ConditionRange,
				Field:    "dimensions.height",
				MinValue: floatPtr(3.0),
				MaxValue: floatPtr(10.0),
			},
		}
	}

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"inside range", 5.0, false},
		{"at lower bound", 3.0, false},
		{"at upper bound", 10.0, false},
		{"below range", 2.5, true},
		{"above range", 11.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Spec{"dimensions": map[string]any{"height": tt.value}}
			finding := ev.Evaluate(spec, rule())
			if (finding != nil) != tt.want {
				t.Errorf("Evaluate(%v) finding = %v, want finding=%v", tt.value, finding, tt.want)
			}
		})
	}

	t.Run("missing bounds never violate", func(t *testing.T) {
		r := rule()
		r.Condition.MaxValue = nil
		spec := Spec{"dimensions": map[string]any{"height": 11.0}}
		if finding := ev.Evaluate(spec, r); finding != nil {
			t.Errorf("Evaluate() = %v, want nil when a bound is missing", finding)
		}
	})
}

func TestEvaluate_BuildingTypeGate(t *testing.T) {
	ev := NewEvaluator(nil)
	rule := minRule("setbacks.front", ">=", 5.0) // residential only

	t.Run("other building type filtered", func(t *testing.T) {
		spec := Spec{
			"building_info": map[string]any{"type": "industrial"},
			"setbacks":      map[string]any{"front": 1.0},
		}
		if finding := ev.Evaluate(spec, rule); finding != nil {
			t.Errorf("Evaluate() = %v, want nil for non-matching building type", finding)
		}
	})

	t.Run("absent building type does not filter", func(t *testing.T) {
		spec := Spec{"setbacks": map[string]any{"front": 1.0}}
		if finding := ev.Evaluate(spec, rule); finding == nil {
			t.Error("Evaluate() = nil, want violation when spec omits building type")
		}
	})

	t.Run("non-string building type does not filter", func(t *testing.T) {
		spec := Spec{
			"building_info": map[string]any{"type": 7},
			"setbacks":      map[string]any{"front": 1.0},
		}
		if finding := ev.Evaluate(spec, rule); finding == nil {
			t.Error("Evaluate() = nil, want violation when building type is not a string")
		}
	})
}

func TestEvaluate_AppliesWhenGate(t *testing.T) {
	ev := NewEvaluator(nil)

	rule := &ruleset.Rule{
		ID:            "PKG-001",
		Severity:      ruleset.SeverityCritical,
		BuildingTypes: []string{"residential"},
		Condition: ruleset.Condition{
			Type:     ruleset.ConditionMinimumCount,
			Field:    "parking.spaces",
			Operator: ruleset.OperatorGreaterEqual,
			Value:    2.0,
			AppliesWhen: &ruleset.Condition{
				Field:    "units.count",
				Operator: ruleset.OperatorGreater,
				Value:    1.0,
			},
		},
	}

	t.Run("gate satisfied, condition violated", func(t *testing.T) {
		spec := Spec{
			"units":   map[string]any{"count": 3.0},
			"parking": map[string]any{"spaces": 1.0},
		}
		if finding := ev.Evaluate(spec, rule); finding == nil {
			t.Error("Evaluate() = nil, want violation when gate passes")
		}
	})

	t.Run("gate unsatisfied", func(t *testing.T) {
		spec := Spec{
			"units":   map[string]any{"count": 1.0},
			"parking": map[string]any{"spaces": 0.0},
		}
		if finding := ev.Evaluate(spec, rule); finding != nil {
			t.Errorf("Evaluate() = %v, want nil when gate fails", finding)
		}
	})

	t.Run("gate value absent", func(t *testing.T) {
		spec := Spec{"parking": map[string]any{"spaces": 0.0}}
		if finding := ev.Evaluate(spec, rule); finding != nil {
			t.Errorf("Evaluate() = %v, want nil when gate value is absent", finding)
		}
	})

	t.Run("equality gate", func(t *testing.T) {
		r := *rule
		r.Condition.AppliesWhen = &ruleset.Condition{
			Field:    "zoning.district",
			Operator: ruleset.OperatorEqual,
			Value:    "R2",
		}
		spec := Spec{
			"zoning":  map[string]any{"district": "R2"},
			"parking": map[string]any{"spaces": 0.0},
		}
		if finding := ev.Evaluate(spec, &r); finding == nil {
			t.Error("Evaluate() = nil, want violation when equality gate passes")
		}
	})
}

func TestEvaluate_FindingFields(t *testing.T) {
	ev := NewEvaluator(nil)
	rule := minRule("setbacks.front", ">=", 5.0)
	rule.ViolationMessage = "Front setback {current_value} is below {required_value}."
	rule.Suggestion = "Move the building back."

	spec := Spec{
		"building_info": map[string]any{"type": "residential"},
		"setbacks":      map[string]any{"front": 4.5},
	}

	finding := ev.Evaluate(spec, rule)
	if finding == nil {
		t.Fatal("Evaluate() = nil, want finding")
	}

	if finding.Code != "TST-001" {
		t.Errorf("Code = %q, want TST-001", finding.Code)
	}
	if finding.Severity != ruleset.SeverityCritical {
		t.Errorf("Severity = %q, want critical", finding.Severity)
	}
	if finding.Message != "Front setback 4.5 is below 5." {
		t.Errorf("Message = %q", finding.Message)
	}
	if got, ok := finding.CurrentValue.(float64); !ok || got != 4.5 {
		t.Errorf("CurrentValue = %v, want 4.5", finding.CurrentValue)
	}
	if got, ok := finding.RequiredValue.(float64); !ok || got != 5.0 {
		t.Errorf("RequiredValue = %v, want 5.0", finding.RequiredValue)
	}
	if finding.Location != "front" {
		t.Errorf("Location = %q, want front", finding.Location)
	}
	if finding.Suggestion != "Move the building back." {
		t.Errorf("Suggestion = %q", finding.Suggestion)
	}
}
