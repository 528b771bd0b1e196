// Package ruleset defines the building-code rule-set document model and the
// store that loads, validates, and caches rule sets from a backing source.
//
// A rule set is a named, versioned collection of compliance rules for one
// jurisdiction or code edition. The on-disk format is a JSON (or YAML)
// document with exactly four top-level sections:
//
//	metadata           name, version, jurisdiction, effective_date, description
//	categories         category id -> {name, description} ("rule_categories" is
//	                   an accepted alias)
//	rules              ordered list of rules
//	validation_config  advisory timeout and severity level policy
//
// This format is the de-facto wire contract between rule-set authors and the
// compliance engine and must remain stable.
//
// # Loading and caching
//
// Store.Load parses and shape-validates a document on first use and keeps the
// parsed result warm, keyed by rule-set name. An entry is served from cache
// only while it is younger than the configured TTL and the backing source's
// modification fingerprint is unchanged; otherwise the document is re-read,
// re-validated, and the entry replaced. A TTL of zero disables caching
// entirely (every Load re-reads), which suits deployments where rule-set
// authors iterate rapidly.
//
// Shape validation accumulates every structural defect it finds rather than
// stopping at the first, so an operator authoring a rule set can fix all
// issues in one pass.
//
// # Thread safety
//
// The Store is safe for concurrent use. It uses a single coarse lock:
// rule-set loading is rare relative to evaluation volume, so per-key locking
// or single-flight deduplication is intentionally not attempted. Concurrent
// misses for the same name may each re-parse; the last writer wins.
package ruleset
