package traverse

import (
	"github.com/google/uuid"

	"github.com/pathsentinel/icc/ir"
)

// Plugin is consumed strictly from the traversal thread (spec.md §6):
// ProcessUnit decides whether a given statement in a candidate edge's
// target method is a sink this plugin cares about; OnTargetPath receives
// one CallPath per statement the plugin accepted along an emitted path.
type Plugin interface {
	ProcessUnit(method *ir.Method, stmt *ir.Statement) bool
	OnTargetPath(path CallPath)
}

// CallPath is the produced witness of spec.md §6: the edge sequence from an
// entry point to TargetUnit, which some plugin accepted.
type CallPath struct {
	RunID      string
	Edges      []*ir.Edge
	TargetUnit *ir.Statement
}

// EdgePredicate is want(e) from spec.md §4.6: the finder calls Want once per
// candidate top-of-stack edge. A true result means at least one plugin
// accepted at least one statement in e.Callee's body; the accepted
// statements are then readable, per plugin, via the driver's snapshot until
// the next call to Want.
type EdgePredicate interface {
	Want(e *ir.Edge) bool
}

// pluginPredicate implements EdgePredicate by asking every registered
// plugin about every statement in the candidate edge's target body,
// recording a per-want, per-plugin snapshot of accepted statements.
type pluginPredicate struct {
	plugins []Plugin
	// snapshot[i] holds the statements plugins[i] accepted for the most
	// recent Want call; it is overwritten (not appended to) on each call,
	// per the per-call-to-want snapshot invariant of spec.md §4.6.
	snapshot [][]*ir.Statement
}

func newPluginPredicate(plugins []Plugin) *pluginPredicate {
	return &pluginPredicate{plugins: plugins, snapshot: make([][]*ir.Statement, len(plugins))}
}

func (p *pluginPredicate) Want(e *ir.Edge) bool {
	for i := range p.snapshot {
		p.snapshot[i] = nil
	}
	if e.Callee == nil || !e.Callee.HasBody() {
		return false
	}
	matched := false
	body := e.Callee.Body()
	for _, stmt := range body.Statements {
		for i, pl := range p.plugins {
			if pl.ProcessUnit(e.Callee, stmt) {
				p.snapshot[i] = append(p.snapshot[i], stmt)
				matched = true
			}
		}
	}
	return matched
}

func (p *pluginPredicate) targetUnitsForPlugin(i int) []*ir.Statement {
	out := make([]*ir.Statement, len(p.snapshot[i]))
	copy(out, p.snapshot[i])
	return out
}

// Driver is TraversalDriver (spec.md §4.6): it composes the registered
// plugins into a single EdgePredicate, constructs a BoundedAnyPathFinder
// over the patched scene, and streams emitted paths to each plugin that
// matched along them.
type Driver struct {
	scene     ir.IRProvider
	whitelist PlatformWhitelist
	bounds    Bounds
	plugins   []Plugin
	onBound   func(method *ir.Method, detail string)
}

// Option configures a Driver, mirroring the functional-options style used
// throughout this module.
type Option func(*Driver)

// WithBounds overrides the default traversal bounds.
func WithBounds(b Bounds) Option {
	return func(d *Driver) { d.bounds = b }
}

// WithPlatformWhitelist names platform package prefixes traversal may
// descend into despite their classes having no application body.
func WithPlatformWhitelist(prefixes ...string) Option {
	return func(d *Driver) { d.whitelist = append(d.whitelist, prefixes...) }
}

// WithPlugin registers one traversal plugin.
func WithPlugin(p Plugin) Option {
	return func(d *Driver) { d.plugins = append(d.plugins, p) }
}

// WithBoundExceededHook registers a callback invoked whenever the finder
// abandons an entry point's exploration on a bound, so the caller can
// surface a diag.BoundExceeded diagnostic.
func WithBoundExceededHook(fn func(method *ir.Method, detail string)) Option {
	return func(d *Driver) { d.onBound = fn }
}

// NewDriver constructs a Driver over scene with DefaultBounds unless
// overridden by opts.
func NewDriver(scene ir.IRProvider, opts ...Option) *Driver {
	d := &Driver{scene: scene, bounds: DefaultBounds()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives the full traversal from entries to exhaustion (or the global
// wall-clock bound), dispatching every emitted path's accepted target units
// to each matching plugin and returning the full stream of emitted
// CallPaths. Each run is tagged with a fresh UUID so its CallPaths and any
// correlated diagnostics can be tied together in logs.
func (d *Driver) Run(entries []*ir.Edge) []CallPath {
	runID := uuid.NewString()
	pred := newPluginPredicate(d.plugins)
	finder := NewBoundedAnyPathFinder(d.scene, entries, d.whitelist, d.bounds, pred)
	if d.onBound != nil {
		finder.OnBoundExceeded(d.onBound)
	}

	var emitted []CallPath
	for {
		path := finder.Next()
		if path == nil {
			return emitted
		}
		for i, pl := range d.plugins {
			for _, unit := range pred.targetUnitsForPlugin(i) {
				cp := CallPath{RunID: runID, Edges: path.Edges, TargetUnit: unit}
				pl.OnTargetPath(cp)
				emitted = append(emitted, cp)
			}
		}
	}
}
