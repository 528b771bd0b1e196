package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks compliance validation outcomes.
//
// Metrics:
//   - <ns>_validations_total: Total validations by rule set and result
//   - <ns>_findings_total: Total findings by rule set and severity
//   - <ns>_validation_duration_seconds: Validation latency histogram
//   - <ns>_rule_failures_total: Rules that panicked during evaluation
//
// ValidationMetrics implements compliance.ValidationRecorder.
type ValidationMetrics struct {
	validationsTotal *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	ruleFailures     *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(namespace string, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validations performed",
			},
			[]string{"rule_set", "result"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Total number of findings produced",
			},
			[]string{"rule_set", "severity"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Validation duration in seconds",
				// Rule evaluation is in-memory; latencies are sub-second
				// except for very large rule sets.
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"rule_set"},
		),

		ruleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_failures_total",
				Help:      "Total number of rules that failed to evaluate",
			},
			[]string{"rule_set", "rule_id"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.findingsTotal,
		vm.duration,
		vm.ruleFailures,
	)

	return vm
}

// RecordValidation records a completed validation and its duration.
func (vm *ValidationMetrics) RecordValidation(ruleSet string, compliant bool, duration time.Duration) {
	result := "compliant"
	if !compliant {
		result = "non_compliant"
	}
	vm.validationsTotal.WithLabelValues(ruleSet, result).Inc()
	vm.duration.WithLabelValues(ruleSet).Observe(duration.Seconds())
}

// RecordFinding records a single finding by severity.
func (vm *ValidationMetrics) RecordFinding(ruleSet, severity string) {
	vm.findingsTotal.WithLabelValues(ruleSet, severity).Inc()
}

// RecordRuleFailure records a rule whose evaluation panicked.
func (vm *ValidationMetrics) RecordRuleFailure(ruleSet, ruleID string) {
	vm.ruleFailures.WithLabelValues(ruleSet, ruleID).Inc()
}
