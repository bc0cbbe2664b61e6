package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// ServicePatcher recognizes startService/bindService dispatch sites and
// bridges them to the target Service's entry point: onStartCommand for
// start sites and onBind for bind sites, each falling back to the other
// when the target declares only one of them.
type ServicePatcher struct{}

func (ServicePatcher) Kind() Kind { return ir.EdgeService }

func (p ServicePatcher) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	_, ok := invokeNamed(stmt, "startService", "bindService", "stopService")
	return ok
}

func (p ServicePatcher) Patch(ctx *Context, stmt *ir.Statement) error {
	inv, _ := invokeNamed(stmt, "startService", "bindService", "stopService")
	caller := stmt.Body().Method

	local, ok := inv.Arg(0).(ir.Local)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "service dispatch argument is not a traceable local")
		return nil
	}

	contents := intent.ExtractIntentContents(local, stmt, stmt.Body())
	targets, fellBack := targetsOrManifestFallback(ctx, stmt, contents, ctx.Manifest.ServiceNames())

	var firstContent *intent.Content
	if len(contents) > 0 {
		firstContent = contents[0]
	}

	isBind := inv.Method.Name == "bindService"
	tagWord := "service"
	if fellBack {
		tagWord = "service_fallback"
	}

	for _, target := range targets {
		cls, ok := ctx.Scene.LookupClass(target)
		if !ok {
			ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "service "+target+" not found in scene")
			continue
		}
		candidates := []string{serviceOnStartSub, serviceOnBindSub}
		if isBind {
			candidates = []string{serviceOnBindSub, serviceOnStartSub}
		}
		entry, ok := firstEntryPoint(cls, candidates...)
		if !ok {
			ctx.Report(diag.MissingBody, caller, stmt, "service "+target+" has no recognized entry point")
			continue
		}
		bridge := ctx.EnsureBridge(bridgeName(target, tagWord), "void", nil, func(m *ir.Method) {
			synthesizeBridgeBody(ctx, m, entry)
		})
		tag(stmt, ir.EdgeService, bridge)
		recordIntentSummary(ctx, icc.ChannelICC, caller, stmt, firstContent, target, entry)
	}
	return nil
}
