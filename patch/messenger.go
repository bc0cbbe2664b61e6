package patch

import (
	"fmt"

	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// MessengerPatcher bridges Messenger.send(Message) sites to the target
// Handler/Messenger's handleMessage, scanning the sent Message for a
// constant `what` tag so multiple logical message types sharing one
// handleMessage can still be told apart in the summary table.
type MessengerPatcher struct{}

func (MessengerPatcher) Kind() Kind { return ir.EdgeMessenger }

func (p MessengerPatcher) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	_, ok := invokeNamed(stmt, "send")
	if !ok {
		return false
	}
	inv, _ := stmt.InvokeExprOf()
	return inv.Base != nil && inv.Base.Value != nil
}

func (p MessengerPatcher) Patch(ctx *Context, stmt *ir.Statement) error {
	inv, _ := invokeNamed(stmt, "send")
	caller := stmt.Body().Method

	what := p.resolveWhat(stmt, inv)

	targetLocal, ok := inv.Base.Value.(ir.Local)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "messenger base is not a traceable local")
		return nil
	}
	targetType, ok := stmt.Body().LocalType(targetLocal.Name)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "messenger target type unknown")
		return nil
	}
	cls, ok := ctx.Scene.LookupClass(targetType)
	if !ok {
		ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "messenger target "+targetType+" not found in scene")
		return nil
	}
	entry, ok := firstEntryPoint(cls, handleMessageSub)
	if !ok {
		ctx.Report(diag.MissingBody, caller, stmt, "messenger target "+targetType+" has no handleMessage")
		return nil
	}

	bridge := ctx.EnsureBridge(bridgeName("messenger", targetType, what), "void", nil, func(m *ir.Method) {
		synthesizeBridgeBody(ctx, m, entry)
	})
	tag(stmt, ir.EdgeMessenger, bridge)
	recordMessengerSummary(ctx, targetType, what, caller, stmt, entry)
	return nil
}

// PatchClass implements ClassPatcher: spec.md §4.2 matches "any body
// implementing Handler.handleMessage(Message)" independently of whether a
// send site resolves to it, recording the callee-only summary entry but
// emitting no bridge (there's no call-graph edge to synthesize when there's
// no known caller to bridge from).
func (p MessengerPatcher) PatchClass(ctx *Context, cls *ir.Class) error {
	entry, ok := firstEntryPoint(cls, handleMessageSub)
	if !ok {
		return nil
	}
	ctx.Summaries.Component(cls.Name).AddCallee(icc.ChannelICC, icc.MessengerCallee{
		CalleeMethod: entry,
		What:         intent.AnyToken,
		Exported:     ctx.Manifest.Exported(cls.Name),
		Permissions:  ctx.Manifest.Permissions(cls.Name),
	})
	return nil
}

// resolveWhat scans the sent Message's statement-adjacent defs for a
// setData/what-style field assignment. The Message's `what` field is set by
// direct field assignment rather than a builder call, so this walks the
// argument's reaching definitions for an IntConstant assigned to a field
// named "what" rather than reusing the Intent builder walk.
func (p MessengerPatcher) resolveWhat(stmt *ir.Statement, inv ir.InvokeExpr) string {
	arg := inv.Arg(0)
	local, ok := arg.(ir.Local)
	if !ok {
		return intent.AnyToken
	}
	defs := stmt.Body().DefsOfAt(local.Name, stmt)
	for _, d := range defs {
		for _, use := range stmt.Body().UsesOf(d) {
			assign, ok := use.Stmt.LHS, use.Stmt.Kind == ir.KindAssign
			if !ok || assign == nil {
				continue
			}
			fr, ok := assign.Value.(ir.InstanceFieldRef)
			if !ok || fr.Field != "what" {
				continue
			}
			if iv, ok := use.Stmt.RHS.Value.(ir.IntConstant); ok {
				return fmt.Sprintf("%d", iv.Value)
			}
		}
	}
	return intent.AnyToken
}
