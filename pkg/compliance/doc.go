// Package compliance evaluates structured design specifications against
// building-code rule sets and produces a compliance verdict.
//
// # Evaluation flow
//
//	design spec + rule set name
//	       ↓
//	Engine.Validate (loads the rule set through the store)
//	       ↓
//	For each rule in document order:
//	  building-type gate → applies_when gate → extract field → compare
//	       ↓
//	Result{Violations (critical), Warnings (rest), IsCompliant}
//
// Findings are emitted in the same order as the rules appear in the
// document, so results are deterministic and golden-testable.
//
// # Absence and type mismatches
//
// Design specifications arrive from heterogeneous upstream tooling and are
// only partially populated. A missing field is therefore a normal outcome,
// not a fault: conditions that cannot extract their target value produce no
// finding (required_field is the one deliberate exception, where absence
// itself is the violation). Likewise a value whose type does not support the
// requested comparison skips the rule silently, so one bad rule or one odd
// spec field never aborts checking the rest.
//
// # Blocking and concurrency
//
// Only the rule-set load can block (it may read a backing file); evaluation
// itself is pure computation. The engine is stateless per call and safe for
// concurrent use.
package compliance
