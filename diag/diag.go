// Package diag implements the error-handling design of spec.md §7: a
// one-line-per-occurrence diagnostic sink for non-fatal conditions, plus a
// structured fatal error for invariant violations. The teacher repository
// carries no logging dependency of its own, so per the ambient-stack rule
// this module adopts github.com/sirupsen/logrus — the structured logger
// gruntwork-io-terragrunt uses throughout its CLI and engine packages — as
// the default sink backend.
package diag

import "github.com/pathsentinel/icc/ir"

// Kind enumerates the non-fatal diagnostic kinds of spec.md §7.
type Kind string

const (
	ResolutionIncomplete        Kind = "RESOLUTION_INCOMPLETE"
	MissingBody                 Kind = "MISSING_BODY"
	BoundExceeded               Kind = "BOUND_EXCEEDED"
	ClassHierarchyLookupFailure Kind = "CLASS_HIERARCHY_LOOKUP_FAILURE"
)

// Diagnostic is one reported non-fatal occurrence.
type Diagnostic struct {
	Kind   Kind
	Method *ir.Method
	Stmt   *ir.Statement
	Detail string
}

// Sink receives diagnostics as they occur. Implementations must not block
// the traversal/patching loop for long; logging is fire-and-forget.
type Sink interface {
	Report(d Diagnostic)
}

// NopSink discards every diagnostic; useful in tests that only assert on
// resolver/patcher/traversal outputs.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

// Collector accumulates diagnostics in memory, useful for tests asserting
// that a specific diagnostic kind was (or wasn't) produced.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// CountKind returns how many collected diagnostics have the given kind.
func (c *Collector) CountKind(k Kind) int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// InvariantViolation is the fatal error kind of spec.md §7
// (InternalInvariantViolation): it aborts analysis of the current input
// rather than being reported through Sink.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "internal invariant violation: " + e.Detail
}
