package ruleset

import (
	"encoding/json"
	"strings"
	"testing"
)

const validDocJSON = `{
  "metadata": {
    "name": "residential-2024",
    "version": "2024.1",
    "jurisdiction": "Example County",
    "effective_date": "2024-01-01",
    "description": "Residential building code"
  },
  "categories": {
    "setbacks": {"name": "Setbacks", "description": "Distance requirements"}
  },
  "rules": [
    {
      "id": "SET-001",
      "category": "setbacks",
      "name": "Front setback",
      "description": "Minimum front setback",
      "severity": "critical",
      "building_types": ["residential"],
      "condition": {
        "type": "minimum_value",
        "field": "setbacks.front",
        "operator": ">=",
        "value": 5.0,
        "unit": "meters"
      },
      "violation_message": "Front setback {current_value} is below {required_value} {unit}."
    }
  ],
  "validation_config": {
    "timeout_seconds": 30,
    "severity_levels": {
      "critical": {"blocks_approval": true},
      "warning": {"blocks_approval": false}
    }
  }
}`

const validDocYAML = `
metadata:
  name: residential-2024
  version: "2024.1"
  jurisdiction: Example County
  effective_date: "2024-01-01"
  description: Residential building code
categories:
  setbacks:
    name: Setbacks
    description: Distance requirements
rules:
  - id: SET-001
    category: setbacks
    name: Front setback
    description: Minimum front setback
    severity: critical
    building_types: [residential]
    condition:
      type: minimum_value
      field: setbacks.front
      operator: ">="
      value: 5.0
validation_config:
  timeout_seconds: 30
`

func TestDecodeRaw_JSONByExtension(t *testing.T) {
	raw, err := decodeRaw([]byte(validDocJSON), "residential-2024.json")
	if err != nil {
		t.Fatalf("decodeRaw() error = %v", err)
	}
	if _, ok := raw["metadata"]; !ok {
		t.Error("decodeRaw() result missing metadata section")
	}
}

func TestDecodeRaw_YAMLByExtension(t *testing.T) {
	raw, err := decodeRaw([]byte(validDocYAML), "residential-2024.yaml")
	if err != nil {
		t.Fatalf("decodeRaw() error = %v", err)
	}
	if _, ok := raw["rules"]; !ok {
		t.Error("decodeRaw() result missing rules section")
	}
}

func TestDecodeRaw_SniffsWithoutExtension(t *testing.T) {
	if _, err := decodeRaw([]byte(validDocJSON), "memory://doc"); err != nil {
		t.Errorf("decodeRaw() JSON sniff error = %v", err)
	}
	if _, err := decodeRaw([]byte(validDocYAML), "memory://doc"); err != nil {
		t.Errorf("decodeRaw() YAML sniff error = %v", err)
	}
}

func TestDecodeRaw_InvalidJSON(t *testing.T) {
	_, err := decodeRaw([]byte("{not json"), "broken.json")
	if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("decodeRaw() error = %v, want invalid JSON", err)
	}
}

func TestDecodeDocument(t *testing.T) {
	raw, err := decodeRaw([]byte(validDocJSON), "residential-2024.json")
	if err != nil {
		t.Fatalf("decodeRaw() error = %v", err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("decodeDocument() error = %v", err)
	}

	if doc.Metadata.Name != "residential-2024" {
		t.Errorf("Metadata.Name = %q, want residential-2024", doc.Metadata.Name)
	}
	if len(doc.Rules) != 1 {
		t.Fatalf("len(Rules) = %d, want 1", len(doc.Rules))
	}

	rule := doc.Rule("SET-001")
	if rule == nil {
		t.Fatal("Rule(SET-001) = nil, want rule")
	}
	if rule.Severity != SeverityCritical {
		t.Errorf("rule.Severity = %q, want critical", rule.Severity)
	}
	if rule.Condition.Type != ConditionMinimumValue {
		t.Errorf("rule.Condition.Type = %q, want minimum_value", rule.Condition.Type)
	}
	if got, ok := rule.Condition.Value.(float64); !ok || got != 5.0 {
		t.Errorf("rule.Condition.Value = %v, want 5.0", rule.Condition.Value)
	}
	if !doc.ValidationConfig.SeverityLevels["critical"].BlocksApproval {
		t.Error("SeverityLevels[critical].BlocksApproval = false, want true")
	}
}

func TestDecodeDocument_RuleCategoriesAlias(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(validDocJSON), &raw); err != nil {
		t.Fatal(err)
	}
	raw["rule_categories"] = raw["categories"]
	delete(raw, "categories")

	doc, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("decodeDocument() error = %v", err)
	}
	if _, ok := doc.Categories["setbacks"]; !ok {
		t.Errorf("Categories = %v, want setbacks entry from rule_categories alias", doc.Categories)
	}
}

func TestLint(t *testing.T) {
	if problems := Lint([]byte(validDocJSON), "doc.json"); len(problems) != 0 {
		t.Errorf("Lint() valid doc = %v, want no problems", problems)
	}

	if problems := Lint([]byte("{broken"), "doc.json"); len(problems) != 1 {
		t.Errorf("Lint() broken doc = %v, want exactly one problem", problems)
	}

	problems := Lint([]byte(`{"metadata": {}}`), "doc.json")
	if len(problems) < 5 {
		t.Errorf("Lint() incomplete doc returned %d problems, want several: %v", len(problems), problems)
	}
}
