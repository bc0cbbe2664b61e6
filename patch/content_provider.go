package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// providerEntryRemap maps a ContentResolver call's method name to the
// ContentProvider entry point it actually dispatches to — the file-access
// variants don't share a name with their provider-side handler.
var providerEntryRemap = map[string]string{
	"query":                   "query",
	"insert":                  "insert",
	"update":                  "update",
	"delete":                  "delete",
	"getType":                 "getType",
	"openFileDescriptor":      "openFile",
	"openAssetFileDescriptor": "openAssetFile",
}

// ContentProviderPatcher resolves a ContentResolver call's Uri argument to
// an authority via the manifest's authority map, then bridges to the
// matching entry point on the owning provider.
type ContentProviderPatcher struct{}

func (ContentProviderPatcher) Kind() Kind { return ir.EdgeContentProvider }

func (p ContentProviderPatcher) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	inv, ok := stmt.InvokeExprOf()
	if !ok {
		return false
	}
	_, known := providerEntryRemap[inv.Method.Name]
	return known
}

func (p ContentProviderPatcher) Patch(ctx *Context, stmt *ir.Statement) error {
	inv, _ := stmt.InvokeExprOf()
	caller := stmt.Body().Method
	entryName := providerEntryRemap[inv.Method.Name]

	uriArg := inv.Arg(0)
	if uriArg == nil {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "content provider call missing uri argument")
		return nil
	}
	uri := intent.ResolveUri(uriArg, stmt, stmt.Body())
	if uri.Host == intent.AnyToken {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "content uri authority not resolved")
		return nil
	}

	authorities := ctx.Manifest.ProviderAuthorities()
	target, ok := authorities[uri.Host]
	if !ok {
		return nil
	}

	cls, ok := ctx.Scene.LookupClass(target)
	if !ok {
		ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "provider "+target+" not found in scene")
		return nil
	}
	entry, ok := findMethodByName(cls, entryName)
	if !ok {
		ctx.Report(diag.MissingBody, caller, stmt, "provider "+target+" has no "+entryName)
		return nil
	}

	bridge := ctx.EnsureBridge(bridgeName(target, "content_provider"), "void", nil, func(m *ir.Method) {
		synthesizeBridgeBody(ctx, m, entry)
	})
	tag(stmt, ir.EdgeContentProvider, bridge)
	recordIntentSummary(ctx, icc.ChannelICC, caller, stmt, nil, target, entry)
	return nil
}

// findMethodByName scans cls's declared methods for one named name,
// ignoring parameter types since provider entry points are looked up by
// name alone in this module's IR model.
func findMethodByName(cls *ir.Class, name string) (*ir.Method, bool) {
	for _, m := range cls.Methods() {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
