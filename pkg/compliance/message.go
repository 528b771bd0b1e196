package compliance

import (
	"fmt"
	"strconv"
	"strings"

	"permitbase/ordinance/pkg/ruleset"
)

// formatMessage renders the violation message for a rule, substituting the
// supported placeholders into violation_message (or the rule description
// when no template is given).
//
// Supported placeholders: {required_value}, {current_value}, {unit},
// {allowed_values}.
func formatMessage(rule *ruleset.Rule, current, required any) string {
	template := rule.ViolationMessage
	if template == "" {
		template = rule.Description
	}

	replacer := strings.NewReplacer(
		"{required_value}", formatValue(required),
		"{current_value}", formatValue(current),
		"{unit}", rule.Condition.Unit,
		"{allowed_values}", formatList(rule.Condition.AllowedValues),
	)

	return replacer.Replace(template)
}

// formatValue renders a single value for message interpolation.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "missing"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(parts, " to ")
	case []any:
		return formatList(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatList renders a value list as a comma-separated string.
func formatList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}
