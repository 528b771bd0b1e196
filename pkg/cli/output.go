package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output, suitable for CI pipelines.
	FormatJSON OutputFormat = "json"
)

// Valid reports whether the format is a known output format.
func (f OutputFormat) Valid() bool {
	return f == FormatText || f == FormatJSON
}

// WriteJSON writes data to w as indented JSON.
func WriteJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ParseFormat converts a --format flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown output format %q (allowed: text, json)", s)
	}
	return f, nil
}
