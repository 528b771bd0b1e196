package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeRaw parses rule-set bytes into a generic document for shape
// validation. The format is chosen by file extension when available and
// sniffed otherwise (JSON documents start with an object brace).
func decodeRaw(data []byte, path string) (map[string]any, error) {
	var raw map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %v", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %v", err)
		}
	default:
		if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("{")) {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("invalid JSON: %v", err)
			}
		} else if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %v", err)
		}
	}

	return raw, nil
}

// Lint decodes rule-set bytes and runs shape validation, returning every
// problem found. A document that fails to parse yields a single problem.
// An empty slice means the document is well-formed.
func Lint(data []byte, path string) []string {
	raw, err := decodeRaw(data, path)
	if err != nil {
		return []string{err.Error()}
	}
	return ValidateShape(raw)
}

// decodeDocument converts a shape-validated raw document into the typed
// model. The "rule_categories" alias is normalized to "categories" first.
func decodeDocument(raw map[string]any) (*Document, error) {
	if _, ok := raw["categories"]; !ok {
		if v, ok := raw["rule_categories"]; ok {
			normalized := make(map[string]any, len(raw))
			for k, val := range raw {
				if k == "rule_categories" {
					continue
				}
				normalized[k] = val
			}
			normalized["categories"] = v
			raw = normalized
		}
	}

	// Round-trip through JSON so one set of struct tags serves both JSON
	// and YAML backed documents.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding document: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %v", err)
	}

	return &doc, nil
}
