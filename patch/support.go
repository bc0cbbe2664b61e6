package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// synthesizeBridgeBody gives m a single-statement body that invokes target,
// and wires a matching call-graph edge from m to target so traversal can
// actually follow the bridge into target's real body rather than dead-ending
// on an IR statement with no graph counterpart. Bridges have no real
// receiver (they exist purely so traversal has a concrete edge to follow
// across the ICC boundary), so the invocation is modeled as static
// regardless of target's actual dispatch kind.
func synthesizeBridgeBody(ctx *Context, m *ir.Method, target *ir.Method) {
	body := ir.NewBody(m)
	m.SetBody(body)
	stmt := body.AddStatement(&ir.Statement{Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, target.Ref()))})
	ctx.Scene.CallGraph().AddEdge(&ir.Edge{Caller: m, Callee: target, Kind: ir.EdgeStatic, Src: stmt})
}

// recordIntentSummary records both directions of an Intent-carried dispatch
// in the shared summary table: the target component gains a caller, and the
// dispatching method's own declaring class gains a callee, carrying the
// manifest-declared exported/permission facts spec.md §3 attaches to every
// IntentCallee.
func recordIntentSummary(ctx *Context, channel icc.Channel, caller *ir.Method, stmt *ir.Statement, content *intent.Content, component string, entry *ir.Method) {
	if component == "" {
		return
	}
	ctx.Summaries.Component(component).AddCaller(channel, icc.IntentCaller{CallerMethod: caller, Stmt: stmt, Content: content})
	if caller.DeclaringClass != nil {
		ctx.Summaries.Component(caller.DeclaringClass.Name).AddCallee(channel, icc.IntentCallee{
			CalleeMethod: entry,
			Component:    component,
			Exported:     ctx.Manifest.Exported(component),
			Permissions:  ctx.Manifest.Permissions(component),
		})
	}
}

// recordDynamicReceiverRegistration is recordIntentSummary's analogue for
// BroadcastReceiverPatcher's register-receiver case (spec.md §4.2, E3): a
// dynamically registered receiver is always exported (any component can
// address it without a manifest declaration) and carries whatever
// IntentFilter the localized builder walk recovered.
func recordDynamicReceiverRegistration(ctx *Context, caller *ir.Method, stmt *ir.Statement, component string, filter intent.IntentFilter, entry *ir.Method) {
	ctx.Summaries.Component(component).AddCaller(icc.ChannelICC, icc.IntentCaller{CallerMethod: caller, Stmt: stmt})
	if caller.DeclaringClass != nil {
		ctx.Summaries.Component(caller.DeclaringClass.Name).AddCallee(icc.ChannelICC, icc.IntentCallee{
			CalleeMethod: entry,
			Component:    component,
			Exported:     true,
			Filters:      []intent.IntentFilter{filter},
		})
	}
}

// recordMessengerSummary is recordIntentSummary's analogue for the
// Messenger channel, tagged by `what` value instead of a component name.
func recordMessengerSummary(ctx *Context, component, what string, caller *ir.Method, stmt *ir.Statement, entry *ir.Method) {
	if component == "" {
		return
	}
	ctx.Summaries.Component(component).AddCaller(icc.ChannelICC, icc.MessengerCaller{CallerMethod: caller, Stmt: stmt, What: what})
	if caller.DeclaringClass != nil {
		ctx.Summaries.Component(caller.DeclaringClass.Name).AddCallee(icc.ChannelICC, icc.MessengerCallee{
			CalleeMethod: entry,
			What:         what,
			Exported:     ctx.Manifest.Exported(component),
			Permissions:  ctx.Manifest.Permissions(component),
		})
	}
}

// targetsOrManifestFallback resolves contents to concrete target classes,
// falling back to the full manifest-declared set of the given role when
// resolution yields nothing (implicit intents, or an explicit target the
// scene can't qualify), matching spec.md §4.2's manifest-fallback edge case.
// The second return value reports whether the fallback path was taken, so
// callers can fold "_fallback" into the bridge name they synthesize.
func targetsOrManifestFallback(ctx *Context, stmt *ir.Statement, contents []*intent.Content, manifestNames []string) ([]string, bool) {
	targets := intent.ResolveTargetClasses(ctx.Scene, contents)
	if len(targets) > 0 {
		return targets, false
	}
	ctx.Report(diag.ResolutionIncomplete, stmt.Body().Method, stmt, "no precise target resolved, falling back to manifest-declared components")
	return manifestNames, true
}
