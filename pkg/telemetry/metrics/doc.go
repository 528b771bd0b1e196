// Package metrics exposes Prometheus metrics for rule-set caching and
// compliance validation.
//
// The package defines two metric groups:
//
//   - CacheMetrics: hit/miss/eviction counters and an entry gauge for the
//     rule-set cache, labeled by cache name.
//   - ValidationMetrics: validation counters, finding counters by severity,
//     a duration histogram, and per-rule failure counters, labeled by
//     rule-set name.
//
// Both groups satisfy the recorder interfaces their consumers declare
// (ruleset.CacheRecorder and compliance.ValidationRecorder), so the core
// packages never import Prometheus directly and metrics stay optional.
//
// A Collector wires both groups onto a single registry and hands out an
// HTTP handler for the /metrics endpoint.
package metrics
