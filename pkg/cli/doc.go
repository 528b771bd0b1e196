// Package cli provides shared helpers for the ordinance command line:
// typed command errors and output formatting.
package cli
