// Package history persists compliance reports to a local SQLite database
// and manages their retention.
//
// Each validation that the service performs can be archived as a Report:
// the rule-set name and version, the compliance outcome, and the full
// finding lists serialized as JSON. Reports are identified by a UUID
// assigned at save time.
//
// The Store uses modernc.org/sqlite (pure Go, no cgo) with WAL journaling
// and a single-writer connection pool. Retention is enforced two ways:
// by age (PruneBefore) and by count (TrimToLimit), and a cron-driven
// Scheduler can run both on a fixed schedule.
package history
