package compliance

import (
	"context"
	"log/slog"
	"time"

	"permitbase/ordinance/pkg/ruleset"
)

// ValidationRecorder receives evaluation outcomes for metrics export.
// Implementations must be safe for concurrent use; the telemetry/metrics
// package provides a prometheus-backed implementation.
type ValidationRecorder interface {
	RecordValidation(ruleSet string, compliant bool, duration time.Duration)
	RecordFinding(ruleSet string, severity string)
	RecordRuleFailure(ruleSet, ruleID string)
}

// Engine orchestrates compliance validation: it loads the rule set, filters
// rules by applicability, evaluates each rule's condition, and aggregates
// findings into a verdict. The engine holds no per-call state; the only
// shared mutable state in the subsystem is the store's cache.
type Engine struct {
	store     *ruleset.Store
	evaluator *Evaluator
	logger    *slog.Logger
	metrics   ValidationRecorder
}

// NewEngine creates a compliance engine on top of a rule-set store.
// Logger defaults to slog.Default(); metrics may be nil.
func NewEngine(store *ruleset.Store, logger *slog.Logger, metrics ValidationRecorder) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     store,
		evaluator: NewEvaluator(logger),
		logger:    logger.With("component", "compliance.engine"),
		metrics:   metrics,
	}
}

// Validate evaluates a design specification against the named rule set.
//
// Rule-set load failures (*ruleset.NotFoundError, *ruleset.InvalidFormatError)
// propagate unchanged; there is no partial result in that case. A failure
// inside a single rule's evaluation never aborts the run: the rule is
// skipped and the remaining rules are still checked.
func (e *Engine) Validate(ctx context.Context, spec Spec, ruleSetName string) (*Result, error) {
	doc, err := e.store.Load(ctx, ruleSetName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{
		Violations:     []Finding{},
		Warnings:       []Finding{},
		RuleSetName:    ruleSetName,
		RuleSetVersion: doc.Metadata.Version,
		CheckedRules:   len(doc.Rules),
	}

	for i := range doc.Rules {
		rule := &doc.Rules[i]

		finding, ok := e.evaluateRule(spec, rule)
		if !ok {
			if e.metrics != nil {
				e.metrics.RecordRuleFailure(ruleSetName, rule.ID)
			}
			continue
		}
		if finding == nil {
			continue
		}

		if finding.Severity == ruleset.SeverityCritical {
			result.Violations = append(result.Violations, *finding)
		} else {
			result.Warnings = append(result.Warnings, *finding)
		}
		if e.metrics != nil {
			e.metrics.RecordFinding(ruleSetName, string(finding.Severity))
		}
	}

	result.IsCompliant = len(result.Violations) == 0
	result.EvaluationTime = time.Since(start)

	if e.metrics != nil {
		e.metrics.RecordValidation(ruleSetName, result.IsCompliant, result.EvaluationTime)
	}

	e.logger.Info("design validated",
		"rule_set", ruleSetName,
		"rules", result.CheckedRules,
		"violations", len(result.Violations),
		"warnings", len(result.Warnings),
		"compliant", result.IsCompliant,
	)

	return result, nil
}

// evaluateRule evaluates one rule with panic isolation. A malformed rule
// (bad field reference, unexpected value shape) must not prevent the other
// rules from being checked, so panics are contained here and reported as a
// skipped rule.
func (e *Engine) evaluateRule(spec Spec, rule *ruleset.Rule) (finding *Finding, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("rule evaluation failed, skipping rule",
				"rule_id", rule.ID,
				"panic", r,
			)
			finding, ok = nil, false
		}
	}()

	return e.evaluator.Evaluate(spec, rule), true
}
