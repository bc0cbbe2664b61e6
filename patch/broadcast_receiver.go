package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// BroadcastReceiverPatcher handles two distinct dispatch shapes: the send
// side (sendBroadcast and its variants, bridged against statically
// manifest-declared receivers) and the dynamic-registration side
// (registerReceiver, bridged directly to the registered receiver's
// onReceive, since matching a later send site back to this specific
// registration is inter-procedural and out of scope per spec.md §1).
type BroadcastReceiverPatcher struct{}

func (BroadcastReceiverPatcher) Kind() Kind { return ir.EdgeBroadcastReceiver }

var sendBroadcastMethods = []string{"sendBroadcast", "sendOrderedBroadcast", "sendStickyBroadcast"}

func (p BroadcastReceiverPatcher) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	if _, ok := invokeNamed(stmt, sendBroadcastMethods...); ok {
		return true
	}
	_, ok := invokeNamed(stmt, "registerReceiver")
	return ok
}

func (p BroadcastReceiverPatcher) Patch(ctx *Context, stmt *ir.Statement) error {
	if inv, ok := invokeNamed(stmt, sendBroadcastMethods...); ok {
		return p.patchSend(ctx, stmt, inv)
	}
	if inv, ok := invokeNamed(stmt, "registerReceiver"); ok {
		return p.patchRegister(ctx, stmt, inv)
	}
	return nil
}

func (p BroadcastReceiverPatcher) patchSend(ctx *Context, stmt *ir.Statement, inv ir.InvokeExpr) error {
	caller := stmt.Body().Method

	local, ok := inv.Arg(0).(ir.Local)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "broadcast intent argument is not a traceable local")
		return nil
	}

	contents := intent.ExtractIntentContents(local, stmt, stmt.Body())
	targets, fellBack := targetsOrManifestFallback(ctx, stmt, contents, ctx.Manifest.ReceiverNames())

	var firstContent *intent.Content
	if len(contents) > 0 {
		firstContent = contents[0]
	}

	tagWord := "broadcast"
	if fellBack {
		tagWord = "broadcast_fallback"
	}

	for _, target := range targets {
		cls, ok := ctx.Scene.LookupClass(target)
		if !ok {
			ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "broadcast receiver "+target+" not found in scene")
			continue
		}
		entry, ok := firstEntryPoint(cls, receiverOnReceiveSub)
		if !ok {
			continue
		}
		bridge := ctx.EnsureBridge(bridgeName(target, tagWord), "void", nil, func(m *ir.Method) {
			synthesizeBridgeBody(ctx, m, entry)
		})
		tag(stmt, ir.EdgeBroadcastReceiver, bridge)
		recordIntentSummary(ctx, icc.ChannelICC, caller, stmt, firstContent, target, entry)
	}
	return nil
}

// patchRegister bridges a registerReceiver(receiver, filter) call directly
// to the registered receiver's onReceive. If the receiver object's concrete
// type can't be traced back to a NewExpr (passed in from a parameter, built
// conditionally, etc.) the site is skipped rather than guessed at — the
// dynamic-receiver-skip exception.
func (p BroadcastReceiverPatcher) patchRegister(ctx *Context, stmt *ir.Statement, inv ir.InvokeExpr) error {
	caller := stmt.Body().Method

	receiverLocal, ok := inv.Arg(0).(ir.Local)
	if !ok {
		return nil
	}
	defs := stmt.Body().DefsOfAt(receiverLocal.Name, stmt)
	var typeName string
	for _, d := range defs {
		if d.Kind != ir.KindAssign {
			continue
		}
		if n, ok := d.RHS.Value.(ir.NewExpr); ok {
			if typeName != "" && typeName != n.Type {
				return nil // ambiguous: more than one distinct receiver type reaches this site
			}
			typeName = n.Type
		}
	}
	if typeName == "" {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "dynamic receiver type not traceable, skipping")
		return nil
	}

	cls, ok := ctx.Scene.LookupClass(typeName)
	if !ok {
		ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "dynamic receiver "+typeName+" not found in scene")
		return nil
	}
	entry, ok := firstEntryPoint(cls, receiverOnReceiveSub)
	if !ok {
		return nil
	}

	var filter intent.IntentFilter
	if filterLocal, ok := inv.Arg(1).(ir.Local); ok {
		filter = intent.ExtractIntentFilter(filterLocal, stmt, stmt.Body(), typeName)
	}

	bridge := ctx.EnsureBridge(bridgeName(typeName, "dynamic_registration"), "void", nil, func(m *ir.Method) {
		synthesizeBridgeBody(ctx, m, entry)
	})
	tag(stmt, ir.EdgeBroadcastReceiver, bridge)
	recordDynamicReceiverRegistration(ctx, caller, stmt, typeName, filter, entry)
	return nil
}
