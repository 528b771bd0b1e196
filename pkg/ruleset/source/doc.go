// Package source provides backing-source implementations for the rule-set
// store: a directory of JSON/YAML files for deployments and an in-memory
// source for tests and embedded defaults.
package source
