package ruleset

import (
	"fmt"
)

// metadataFields are the required keys of the metadata section.
var metadataFields = []string{"name", "version", "jurisdiction", "effective_date", "description"}

// ruleFields are the required keys of every rule entry.
var ruleFields = []string{"id", "category", "name", "description", "severity", "building_types", "condition"}

// ValidateShape checks the structure of a raw rule-set document before it is
// trusted. It returns one message per defect found, accumulating rather than
// short-circuiting, so rule-set authors see every problem at once. An empty
// result means the document is structurally valid.
//
// ValidateShape never panics on malformed input; any shape it does not
// expect becomes an error string.
func ValidateShape(raw map[string]any) []string {
	var errs []string

	if raw == nil {
		return []string{"document is empty"}
	}

	// Top-level sections. "rule_categories" is accepted as an alias for
	// "categories" (older deployments shipped documents under that key).
	categoriesRaw, categoriesOK := topLevelCategories(raw)
	for _, key := range []string{"metadata", "rules", "validation_config"} {
		if _, ok := raw[key]; !ok {
			errs = append(errs, fmt.Sprintf("%s: missing required section", key))
		}
	}
	if !categoriesOK {
		errs = append(errs, "categories: missing required section")
	}

	// Metadata.
	if metaRaw, ok := raw["metadata"]; ok {
		meta, ok := asMap(metaRaw)
		if !ok {
			errs = append(errs, "metadata: must be a mapping")
		} else {
			for _, field := range metadataFields {
				if !hasNonEmptyString(meta, field) {
					errs = append(errs, fmt.Sprintf("metadata.%s: missing or empty required field", field))
				}
			}
		}
	}

	// Categories.
	categoryIDs := map[string]bool{}
	if categoriesOK {
		categories, ok := asMap(categoriesRaw)
		if !ok {
			errs = append(errs, "categories: must be a mapping")
		} else {
			for id, entryRaw := range categories {
				categoryIDs[id] = true
				entry, ok := asMap(entryRaw)
				if !ok {
					errs = append(errs, fmt.Sprintf("categories.%s: must be a mapping", id))
					continue
				}
				for _, field := range []string{"name", "description"} {
					if !hasNonEmptyString(entry, field) {
						errs = append(errs, fmt.Sprintf("categories.%s.%s: missing or empty required field", id, field))
					}
				}
			}
		}
	}

	// Rules.
	if rulesRaw, ok := raw["rules"]; ok {
		rules, ok := asList(rulesRaw)
		if !ok {
			errs = append(errs, "rules: must be a sequence")
		} else {
			for i, ruleRaw := range rules {
				errs = append(errs, validateRuleShape(i, ruleRaw, categoryIDs)...)
			}
		}
	}

	// Validation config.
	if vcRaw, ok := raw["validation_config"]; ok {
		vc, ok := asMap(vcRaw)
		if !ok {
			errs = append(errs, "validation_config: must be a mapping")
		} else if levelsRaw, ok := vc["severity_levels"]; ok {
			levels, ok := asMap(levelsRaw)
			if !ok {
				errs = append(errs, "validation_config.severity_levels: must be a mapping")
			} else {
				for name, levelRaw := range levels {
					if !Severity(name).Valid() {
						errs = append(errs, fmt.Sprintf("validation_config.severity_levels.%s: unknown severity (allowed: %v)", name, Severities))
					}
					if _, ok := asMap(levelRaw); !ok {
						errs = append(errs, fmt.Sprintf("validation_config.severity_levels.%s: must be a mapping", name))
					}
				}
			}
		}
	}

	return errs
}

// validateRuleShape validates one rule entry, indexed for error messages.
func validateRuleShape(index int, ruleRaw any, categoryIDs map[string]bool) []string {
	var errs []string
	at := func(field, format string, args ...any) {
		errs = append(errs, fmt.Sprintf("rules[%d].%s: %s", index, field, fmt.Sprintf(format, args...)))
	}

	rule, ok := asMap(ruleRaw)
	if !ok {
		return []string{fmt.Sprintf("rules[%d]: must be a mapping", index)}
	}

	for _, field := range ruleFields {
		if _, ok := rule[field]; !ok {
			at(field, "missing required field")
		}
	}

	if sevRaw, ok := rule["severity"]; ok {
		sev, _ := sevRaw.(string)
		if !Severity(sev).Valid() {
			at("severity", "invalid severity %q (allowed: %v)", sev, Severities)
		}
	}

	if btRaw, ok := rule["building_types"]; ok {
		bt, ok := asList(btRaw)
		if !ok || len(bt) == 0 {
			at("building_types", "must be a non-empty sequence")
		}
	}

	if catRaw, ok := rule["category"]; ok {
		cat, _ := catRaw.(string)
		if cat != "" && !categoryIDs[cat] {
			at("category", "references unknown category %q", cat)
		}
	}

	if condRaw, ok := rule["condition"]; ok {
		cond, ok := asMap(condRaw)
		if !ok {
			at("condition", "must be a mapping")
			return errs
		}

		typStr, _ := cond["type"].(string)
		typ := ConditionType(typStr)
		if !typ.Valid() {
			at("condition.type", "invalid condition type %q", typStr)
		}
		if !hasNonEmptyString(cond, "field") {
			at("condition.field", "missing or empty required field")
		}

		switch {
		case typ.Numeric():
			if _, ok := cond["value"]; !ok {
				at("condition.value", "required for condition type %q", typ)
			}
			if !hasNonEmptyString(cond, "operator") {
				at("condition.operator", "required for condition type %q", typ)
			} else if op, _ := cond["operator"].(string); !Operator(op).Valid() {
				at("condition.operator", "invalid operator %q", op)
			}
		case typ == ConditionRequiredField:
			_, hasValue := cond["value"]
			_, hasAllowed := cond["allowed_values"]
			if !hasValue && !hasAllowed {
				at("condition", "required_field conditions need either value or allowed_values")
			}
		case typ == ConditionRange:
			if _, ok := cond["min_value"]; !ok {
				at("condition.min_value", "required for range conditions")
			}
			if _, ok := cond["max_value"]; !ok {
				at("condition.max_value", "required for range conditions")
			}
		}
	}

	return errs
}

// topLevelCategories resolves the categories section, honoring the
// "rule_categories" alias. The canonical key wins when both are present.
func topLevelCategories(raw map[string]any) (any, bool) {
	if v, ok := raw["categories"]; ok {
		return v, true
	}
	if v, ok := raw["rule_categories"]; ok {
		return v, true
	}
	return nil, false
}

// asMap converts a decoded document node to a string-keyed mapping.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		// Older yaml decoders produce interface-keyed maps.
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// asList converts a decoded document node to a sequence.
func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// hasNonEmptyString reports whether m[key] is a non-empty string.
func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && s != ""
}
