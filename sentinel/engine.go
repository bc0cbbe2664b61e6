// Package sentinel wires the IR provider, manifest, registered patchers and
// traversal plugins into the single pipeline entry point: patch the call
// graph, then traverse it for sink witnesses. Its functional-options
// constructor mirrors the teacher's analyzer.NewAnalyzer(options ...Option)
// pattern (analyzer/option.go) exactly.
package sentinel

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/manifest"
	"github.com/pathsentinel/icc/patch"
	"github.com/pathsentinel/icc/traverse"
)

// Engine is the top-level entry point: it owns the patching orchestrator
// and the traversal driver, and exposes Run to patch-then-traverse a
// freshly loaded scene in one call.
type Engine struct {
	scene       ir.IRProvider
	manifest    manifest.Analysis
	container   *ir.Class
	sink        diag.Sink
	patchers    []patch.Patcher
	concurrency int
	bounds      traverse.Bounds
	whitelist   traverse.PlatformWhitelist
	plugins     []traverse.Plugin
	entries     []*ir.Edge
}

// Option configures an Engine, following the functional-options pattern
// used throughout this module (patch.Option, traverse.Option).
type Option func(*Engine)

// WithManifest supplies the ManifestAnalysis fallback source.
func WithManifest(m manifest.Analysis) Option {
	return func(e *Engine) { e.manifest = m }
}

// WithPatchContainer names the dedicated class all synthesized bridge
// methods are added to (spec.md §3's "patch container class").
func WithPatchContainer(c *ir.Class) Option {
	return func(e *Engine) { e.container = c }
}

// WithPatcher registers one CallGraphPatcher, in the order patchers should
// be tried against each statement.
func WithPatcher(p patch.Patcher) Option {
	return func(e *Engine) { e.patchers = append(e.patchers, p) }
}

// WithDefaultPatchers registers the eight concrete patchers of spec.md
// §4.2 in their spec-documented order.
func WithDefaultPatchers() Option {
	return func(e *Engine) {
		e.patchers = append(e.patchers,
			patch.ActivityPatcher{},
			patch.ServicePatcher{},
			patch.BroadcastReceiverPatcher{},
			patch.ContentProviderPatcher{},
			patch.MessengerPatcher{},
			patch.NewAsyncTaskPatcher(),
			patch.NewExecutorPatcher(),
			patch.NewThreadPatcher(),
		)
	}
}

// WithConcurrency sets the patching concurrency (see patch.WithConcurrency).
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithDiagnosticSink overrides the default diagnostic sink.
func WithDiagnosticSink(s diag.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithBounds overrides the default traversal bounds.
func WithBounds(b traverse.Bounds) Option {
	return func(e *Engine) { e.bounds = b }
}

// WithPlatformWhitelist names platform package prefixes traversal may
// descend into.
func WithPlatformWhitelist(prefixes ...string) Option {
	return func(e *Engine) { e.whitelist = append(e.whitelist, prefixes...) }
}

// WithPlugin registers one traversal plugin.
func WithPlugin(p traverse.Plugin) Option {
	return func(e *Engine) { e.plugins = append(e.plugins, p) }
}

// WithEntryPoints seeds the traversal's entry edges. Each entry method
// should already exist in scene's call graph as a synthetic root edge
// (see ir.CallGraph.AddRootEdge).
func WithEntryPoints(edges ...*ir.Edge) Option {
	return func(e *Engine) { e.entries = append(e.entries, edges...) }
}

// NewEngine constructs an Engine over scene. A nil manifest defaults to an
// empty manifest.Static; a nil diagnostic sink discards diagnostics.
func NewEngine(scene ir.IRProvider, opts ...Option) *Engine {
	e := &Engine{
		scene:       scene,
		manifest:    &manifest.Static{},
		sink:        diag.NopSink{},
		concurrency: 1,
		bounds:      traverse.DefaultBounds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one Engine.Run: the summary table populated
// during patching, plus every emitted CallPath collected during traversal.
type Result struct {
	Summaries *icc.SummaryTable
	Paths     []traverse.CallPath
}

// Run patches scene's call graph with the registered patchers, then drives
// a bounded traversal from the registered entry points, collecting every
// emitted path in addition to whatever side effects the registered plugins
// themselves perform. Patching always completes before traversal begins,
// so traversal observes a frozen graph regardless of patch concurrency
// (spec.md §5).
func (e *Engine) Run() (*Result, error) {
	summaries := icc.NewSummaryTable()
	ctx := patch.NewContext(e.scene, e.container, summaries, e.manifest, e.sink)

	orchestrator := patch.NewOrchestrator(e.patchers, patch.WithConcurrency(e.concurrency))
	if err := orchestrator.Run(ctx); err != nil {
		return nil, err
	}

	driverOpts := []traverse.Option{
		traverse.WithBounds(e.bounds),
		traverse.WithPlatformWhitelist(e.whitelist...),
		traverse.WithBoundExceededHook(func(m *ir.Method, detail string) {
			e.sink.Report(diag.Diagnostic{Kind: diag.BoundExceeded, Method: m, Detail: detail})
		}),
	}
	for _, p := range e.plugins {
		driverOpts = append(driverOpts, traverse.WithPlugin(p))
	}
	driver := traverse.NewDriver(e.scene, driverOpts...)
	paths := driver.Run(e.entries)

	return &Result{Summaries: summaries, Paths: paths}, nil
}
