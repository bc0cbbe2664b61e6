// Package patch implements CallGraphPatcher and its eight concrete
// variants, plus PatchingOrchestrator (spec.md §4.2/§4.4). Patching augments
// a frozen IR: it only ever adds bridge methods and call-graph edges, never
// removes or rewrites anything a patcher didn't itself create.
package patch

import (
	"sync"

	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/manifest"
)

// Context is the IrContext design note of spec.md §9: the single object a
// patcher receives, bundling the frozen scene, the mutable patch-container
// class bridge methods are synthesized onto, the shared ICC summary table,
// the manifest fallback, and the diagnostic sink. It lives here rather than
// in package ir because it depends on icc/manifest/diag, which themselves
// depend on ir.
type Context struct {
	Scene     ir.IRProvider
	Container *ir.Class
	Summaries *icc.SummaryTable
	Manifest  manifest.Analysis
	Sink      diag.Sink

	mu sync.Mutex // guards Container mutation under concurrent-by-body patching
}

// NewContext constructs a patching Context. sink may be nil, in which case
// diagnostics are discarded.
func NewContext(scene ir.IRProvider, container *ir.Class, summaries *icc.SummaryTable, man manifest.Analysis, sink diag.Sink) *Context {
	if sink == nil {
		sink = diag.NopSink{}
	}
	return &Context{Scene: scene, Container: container, Summaries: summaries, Manifest: man, Sink: sink}
}

// Report forwards a non-fatal diagnostic to the configured sink.
func (c *Context) Report(kind diag.Kind, method *ir.Method, stmt *ir.Statement, detail string) {
	c.Sink.Report(diag.Diagnostic{Kind: kind, Method: method, Stmt: stmt, Detail: detail})
}

// EnsureBridge returns the existing bridge method on the patch-container
// class matching (name, paramTypes, returnType) if one was already
// synthesized, or builds a fresh one via build and installs it. Bridge
// lookup and installation are serialized so concurrent-by-body patching
// never races on the shared container, satisfying the bridge-uniqueness
// invariant (spec.md §8).
func (c *Context) EnsureBridge(name, returnType string, paramTypes []string, build func(m *ir.Method)) *ir.Method {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := (ir.MethodRef{Class: c.Container.Name, Name: name, ParamTypes: paramTypes, ReturnType: returnType}).Subsignature()
	if existing, ok := c.Container.Method(sub); ok {
		return existing
	}
	m := c.Scene.MakeMethod(c.Container, name, paramTypes, returnType)
	if build != nil {
		build(m)
	}
	return c.Container.AddMethod(m)
}
