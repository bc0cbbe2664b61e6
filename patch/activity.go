package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// ActivityPatcher recognizes startActivity/startActivityForResult dispatch
// sites and bridges them to the target Activity's onCreate.
type ActivityPatcher struct{}

func (ActivityPatcher) Kind() Kind { return ir.EdgeActivity }

func (p ActivityPatcher) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	_, ok := invokeNamed(stmt, "startActivity", "startActivityForResult")
	return ok
}

func (p ActivityPatcher) Patch(ctx *Context, stmt *ir.Statement) error {
	inv, _ := invokeNamed(stmt, "startActivity", "startActivityForResult")
	caller := stmt.Body().Method

	msgArg := inv.Arg(0)
	local, ok := msgArg.(ir.Local)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "startActivity argument is not a traceable local")
		return nil
	}

	contents := intent.ExtractIntentContents(local, stmt, stmt.Body())
	targets, fellBack := targetsOrManifestFallback(ctx, stmt, contents, ctx.Manifest.ActivityNames())

	var firstContent *intent.Content
	if len(contents) > 0 {
		firstContent = contents[0]
	}

	tagWord := "activity"
	if fellBack {
		tagWord = "activity_fallback"
	}
	for _, target := range targets {
		cls, ok := ctx.Scene.LookupClass(target)
		if !ok {
			ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "activity "+target+" not found in scene")
			continue
		}
		entry, ok := firstEntryPoint(cls, activityOnCreateSub)
		if !ok {
			ctx.Report(diag.MissingBody, caller, stmt, "activity "+target+" has no onCreate")
			continue
		}
		bridge := ctx.EnsureBridge(bridgeName(target, tagWord), "void", nil, func(m *ir.Method) {
			synthesizeBridgeBody(ctx, m, entry)
		})
		tag(stmt, ir.EdgeActivity, bridge)
		recordIntentSummary(ctx, icc.ChannelICC, caller, stmt, firstContent, target, entry)
	}
	return nil
}
