package patch

import (
	"strings"

	"github.com/pathsentinel/icc/ir"
)

// Kind aliases ir.EdgeKind: a patcher's Kind is both the PatchTag.Kind it
// writes and the EdgeKind of the synthetic edge the orchestrator's finalize
// pass inserts for it (§9 "tagged-variant patcher family" supplement).
type Kind = ir.EdgeKind

// Patcher is CallGraphPatcher (spec.md §4.2): ShouldPatch decides whether a
// statement is a dispatch site this patcher recognizes (the orchestrator
// skips statements already tagged with the patcher's Kind before asking);
// Patch synthesizes (or reuses) the bridge method and tags the statement.
// The dispatch-site-to-bridge edges are inserted later, serialized, in the
// orchestrator's finalize pass; the only edge added during Patch is the
// bridge-to-target edge synthesizeBridgeBody inserts when a bridge is first
// built, under the Context's bridge lock.
type Patcher interface {
	Kind() Kind
	ShouldPatch(ctx *Context, stmt *ir.Statement) bool
	Patch(ctx *Context, stmt *ir.Statement) error
}

// ClassPatcher is an optional capability a Patcher implements when it also
// needs a one-time, statement-independent pass over every application
// class — for recording facts that aren't tied to any particular dispatch
// site, such as MessengerPatcher's standalone handleMessage match
// (spec.md §4.2).
type ClassPatcher interface {
	PatchClass(ctx *Context, cls *ir.Class) error
}

// invokeNamed extracts stmt's InvokeExpr if its method name is one of names.
func invokeNamed(stmt *ir.Statement, names ...string) (ir.InvokeExpr, bool) {
	inv, ok := stmt.InvokeExprOf()
	if !ok {
		return ir.InvokeExpr{}, false
	}
	for _, n := range names {
		if inv.Method.Name == n {
			return inv, true
		}
	}
	return ir.InvokeExpr{}, false
}

// alreadyTagged reports whether stmt already carries a tag of kind, so a
// repeated orchestrator run is a no-op for statements it already patched.
func alreadyTagged(stmt *ir.Statement, kind Kind) bool {
	_, ok := stmt.HasTag(string(kind))
	return ok
}

// bridgeName builds the deterministic `bridge_<...>` name spec.md §4.2
// names: "bridge_<dotted-class-name-with-underscores>_<kind-tag>". Naming
// is by (target, kind) only, never by call site, so every dispatch site
// that resolves to the same target and kind shares the one bridge — this
// is what makes bridge creation idempotent by name (invariant #2: at most
// one bridge per (receiverClass, kind)).
func bridgeName(parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	out = append(out, "bridge")
	for _, p := range parts {
		out = append(out, strings.ReplaceAll(p, ".", "_"))
	}
	return strings.Join(out, "_")
}

func tag(stmt *ir.Statement, kind Kind, bridge *ir.Method) {
	stmt.AddTag(ir.PatchTag{Kind: string(kind), Bridge: bridge.Ref()})
}
