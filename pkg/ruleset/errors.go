package ruleset

import (
	"fmt"
)

// NotFoundError indicates that no backing document exists for a rule-set
// name. It is fatal to the single load; the store performs no retries.
type NotFoundError struct {
	// Name is the requested rule-set name.
	Name string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rule set %q not found", e.Name)
}

// InvalidFormatError indicates that a backing document could not be parsed
// or failed shape validation. Errors carries the full accumulated list of
// defects so an operator can fix all issues in one pass.
type InvalidFormatError struct {
	// Name is the rule-set name whose document is malformed.
	Name string

	// Errors lists every structural defect found.
	Errors []string
}

// Error returns the error message.
func (e *InvalidFormatError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("rule set %q: invalid format: %s", e.Name, e.Errors[0])
	}
	return fmt.Sprintf("rule set %q: %d format errors: %v", e.Name, len(e.Errors), e.Errors)
}

// SourceError indicates a backing-source failure other than absence
// (unreadable file, stat failure).
type SourceError struct {
	Name  string
	Op    string
	Cause error
}

// Error returns the error message.
func (e *SourceError) Error() string {
	return fmt.Sprintf("rule set %q: source %s failed: %v", e.Name, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Cause
}
