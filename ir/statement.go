package ir

import "fmt"

// ValueBox wraps a Value slot inside a Statement so def/use indexing can
// refer to "this particular operand" rather than to the Value itself (two
// operands can hold equal values without being the same use site).
type ValueBox struct {
	Value Value
}

// Kind discriminates the three-address statement variants of spec.md §3.
type Kind string

const (
	KindAssign   Kind = "ASSIGN"
	KindInvoke   Kind = "INVOKE"
	KindIdentity Kind = "IDENTITY"
	KindReturn   Kind = "RETURN"
	KindIf       Kind = "IF"
	KindGoto     Kind = "GOTO"
	KindThrow    Kind = "THROW"
)

// PatchTag records that a patcher matched this statement and synthesized (or
// reused) a bridge method for it. Multiple patchers may tag the same
// statement (spec.md §9 Open Question); tags are multi-valued and ordered by
// registration order of the patcher that attached them.
type PatchTag struct {
	Kind   string // patcher Kind tag, e.g. "SERVICE", "ACTIVITY"
	Bridge MethodRef
}

// Statement is one three-address instruction within a Body. Statements are
// identified by their stable Index within the owning Body's ordered
// sequence; Index is what ir.Hash-based identity keys are built from.
type Statement struct {
	Index int
	Kind  Kind

	// ASSIGN
	LHS *ValueBox
	RHS *ValueBox

	// INVOKE (standalone, result discarded) or the RHS of an ASSIGN
	Invoke *ValueBox // holds an InvokeExpr

	// IDENTITY: local := @parameterN / @this
	IdentityLocal *ValueBox
	ParamRef      *ValueBox

	// RETURN
	ReturnValue *ValueBox // nil for bare "return"

	// IF / GOTO: Target is the index of the branch target statement within
	// the same Body.
	Cond   *ValueBox
	Target int

	// THROW
	ThrowValue *ValueBox

	body *Body
	tags []PatchTag
}

// Body returns the owning Body; useful when a Statement is handed to code
// that did not receive the Body separately (e.g. plugin callbacks).
func (s *Statement) Body() *Body { return s.body }

// AddTag attaches a patch tag to the statement. A statement can carry
// several tags of the same Kind when a dispatch site resolves to several
// distinct target components, each getting its own bridge; AddTag is
// idempotent per (kind, bridge) pair so re-running a patcher over unchanged
// IR never appends a duplicate, per the patch-idempotence invariant.
func (s *Statement) AddTag(tag PatchTag) {
	for _, existing := range s.tags {
		if existing.Kind == tag.Kind && existing.Bridge.String() == tag.Bridge.String() {
			return
		}
	}
	s.tags = append(s.tags, tag)
}

// Tags returns every patch tag attached to this statement, in the order
// patchers registered and matched it.
func (s *Statement) Tags() []PatchTag {
	out := make([]PatchTag, len(s.tags))
	copy(out, s.tags)
	return out
}

// HasTag reports whether a patcher of the given kind already tagged this
// statement, used by the idempotence check in patch.Patcher implementations.
func (s *Statement) HasTag(kind string) (PatchTag, bool) {
	for _, t := range s.tags {
		if t.Kind == kind {
			return t, true
		}
	}
	return PatchTag{}, false
}

// InvokeExprOf extracts the InvokeExpr carried by a statement, whether it is
// a standalone INVOKE or the RHS of an ASSIGN. Returns ok=false for
// statements with no invocation.
func (s *Statement) InvokeExprOf() (InvokeExpr, bool) {
	var box *ValueBox
	switch s.Kind {
	case KindInvoke:
		box = s.Invoke
	case KindAssign:
		box = s.RHS
	}
	if box == nil {
		return InvokeExpr{}, false
	}
	inv, ok := box.Value.(InvokeExpr)
	return inv, ok
}

func (s *Statement) String() string {
	switch s.Kind {
	case KindAssign:
		return fmt.Sprintf("%d: %s = %s", s.Index, s.LHS.Value, s.RHS.Value)
	case KindInvoke:
		return fmt.Sprintf("%d: %s", s.Index, s.Invoke.Value)
	case KindIdentity:
		return fmt.Sprintf("%d: %s := %s", s.Index, s.IdentityLocal.Value, s.ParamRef.Value)
	case KindReturn:
		if s.ReturnValue == nil {
			return fmt.Sprintf("%d: return", s.Index)
		}
		return fmt.Sprintf("%d: return %s", s.Index, s.ReturnValue.Value)
	case KindIf:
		return fmt.Sprintf("%d: if %s goto %d", s.Index, s.Cond.Value, s.Target)
	case KindGoto:
		return fmt.Sprintf("%d: goto %d", s.Index, s.Target)
	case KindThrow:
		return fmt.Sprintf("%d: throw %s", s.Index, s.ThrowValue.Value)
	}
	return fmt.Sprintf("%d: <unknown>", s.Index)
}
