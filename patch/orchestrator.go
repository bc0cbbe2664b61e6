package patch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pathsentinel/icc/ir"
)

// Option configures an Orchestrator, mirroring the functional-options style
// of the teacher's analyzer/option.go.
type Option func(*Orchestrator)

// WithConcurrency sets how many method bodies are patched in parallel. n<=1
// (the default) runs strictly serially. Concurrency only applies to the
// patch pass; the finalize pass that inserts call-graph edges is always
// serialized, per spec.md §5's safety requirement.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 1 {
			o.concurrency = n
		}
	}
}

// Orchestrator is PatchingOrchestrator (spec.md §4.4): it applies every
// registered Patcher, in fixed registration order, to every statement of
// every application-class method body, then finalizes by turning the tags
// patchers attached into call-graph edges.
type Orchestrator struct {
	patchers    []Patcher
	concurrency int
}

// NewOrchestrator registers patchers in the order they should be tried
// against each statement. Registration order is part of the orchestrator's
// observable behavior: spec.md §8 requires deterministic tag ordering.
func NewOrchestrator(patchers []Patcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{patchers: append([]Patcher(nil), patchers...), concurrency: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run patches every application class's method bodies and finalizes the
// resulting tags into call-graph edges.
func (o *Orchestrator) Run(ctx *Context) error {
	bodies := o.collectBodies(ctx)

	if o.concurrency <= 1 {
		for _, b := range bodies {
			if err := o.patchBody(ctx, b); err != nil {
				return err
			}
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(o.concurrency)
		for _, b := range bodies {
			b := b
			g.Go(func() error { return o.patchBody(ctx, b) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if err := o.patchClasses(ctx); err != nil {
		return err
	}

	return o.finalize(ctx, bodies)
}

// patchClasses runs every registered patcher's optional ClassPatcher
// capability once per application class, independent of the body-statement
// pass above.
func (o *Orchestrator) patchClasses(ctx *Context) error {
	for _, cls := range ctx.Scene.ApplicationClasses() {
		for _, p := range o.patchers {
			cp, ok := p.(ClassPatcher)
			if !ok {
				continue
			}
			if err := cp.PatchClass(ctx, cls); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) collectBodies(ctx *Context) []*ir.Body {
	var bodies []*ir.Body
	for _, cls := range ctx.Scene.ApplicationClasses() {
		for _, m := range cls.Methods() {
			if m.HasBody() {
				bodies = append(bodies, m.Body())
			}
		}
	}
	return bodies
}

// patchBody applies every patcher, in registration order, to every
// statement of b. A statement already tagged for a given Kind is skipped
// for that patcher, preserving idempotence across repeated runs.
func (o *Orchestrator) patchBody(ctx *Context, b *ir.Body) error {
	for _, stmt := range b.Statements {
		for _, p := range o.patchers {
			if alreadyTagged(stmt, p.Kind()) {
				continue
			}
			if !p.ShouldPatch(ctx, stmt) {
				continue
			}
			if err := p.Patch(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalize turns every PatchTag attached during the patch pass into a
// call-graph edge: one edge per tag, serialized regardless of how the patch
// pass itself was scheduled.
func (o *Orchestrator) finalize(ctx *Context, bodies []*ir.Body) error {
	cg := ctx.Scene.CallGraph()
	for _, b := range bodies {
		caller := b.Method
		for _, stmt := range b.Statements {
			for _, t := range stmt.Tags() {
				bridge, ok := ctx.Container.Method(t.Bridge.Subsignature())
				if !ok {
					continue
				}
				cg.AddEdge(&ir.Edge{Caller: caller, Callee: bridge, Kind: ir.EdgeKind(t.Kind), Src: stmt})
			}
		}
	}
	return nil
}
