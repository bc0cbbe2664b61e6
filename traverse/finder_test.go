package traverse_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/ir/irtest"
	"github.com/pathsentinel/icc/traverse"
)

// alwaysFalsePredicate never accepts a candidate edge, forcing the finder
// to exhaust an entry point's exploration entirely on its bounds.
type alwaysFalsePredicate struct{}

func (alwaysFalsePredicate) Want(*ir.Edge) bool { return false }

func chainMethod(p *irtest.Provider, i int) *ir.Method {
	name := fmt.Sprintf("com.example.Chain%d", i)
	m := p.Class(name, ir.OriginApplication).Method("step", "void")
	return m.Method()
}

// buildChain wires n application methods step0 -> step1 -> ... -> step(n-1),
// each edge carrying a non-nil Src so computeChildren doesn't drop it, and
// returns the root entry edge into step0.
func buildChain(t *testing.T, n int) (*irtest.Provider, *ir.Edge) {
	t.Helper()
	p := irtest.New()
	methods := make([]*ir.Method, n)
	for i := 0; i < n; i++ {
		methods[i] = chainMethod(p, i)
	}
	cg := p.CallGraph()
	for i := 0; i+1 < n; i++ {
		src := &ir.Statement{Index: 0, Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, methods[i+1].Ref()))}
		cg.AddEdge(&ir.Edge{Caller: methods[i], Callee: methods[i+1], Kind: ir.EdgeService, Src: src})
	}
	entry := cg.AddRootEdge(methods[0], ir.EdgeService)
	return p, entry
}

func TestBoundedAnyPathFinder_E4_DepthBoundStopsExploration(t *testing.T) {
	p, entry := buildChain(t, 60)

	var boundHits []string
	finder := traverse.NewBoundedAnyPathFinder(p, []*ir.Edge{entry}, nil, traverse.DefaultBounds(), alwaysFalsePredicate{})
	finder.OnBoundExceeded(func(m *ir.Method, detail string) {
		boundHits = append(boundHits, detail)
	})

	path := finder.Next()
	assert.Nil(t, path, "no statement is ever accepted, so no path should be emitted")
	require.NotEmpty(t, boundHits, "a 60-deep chain must trip the 50-deep default bound")
}

func TestBoundedAnyPathFinder_E4_ShallowChainNeverTripsBound(t *testing.T) {
	p, entry := buildChain(t, 5)

	var boundHits []string
	finder := traverse.NewBoundedAnyPathFinder(p, []*ir.Edge{entry}, nil, traverse.DefaultBounds(), alwaysFalsePredicate{})
	finder.OnBoundExceeded(func(m *ir.Method, detail string) { boundHits = append(boundHits, detail) })

	path := finder.Next()
	assert.Nil(t, path)
	assert.Empty(t, boundHits, "a 5-deep chain fits comfortably under the 50-deep default bound")
}

// sinkPlugin accepts exactly the one statement it was constructed to find.
type sinkPlugin struct {
	target *ir.Statement
	hits   []traverse.CallPath
}

func (p *sinkPlugin) ProcessUnit(_ *ir.Method, stmt *ir.Statement) bool { return stmt == p.target }
func (p *sinkPlugin) OnTargetPath(path traverse.CallPath)               { p.hits = append(p.hits, path) }

// buildICCChain wires three methods resembling a service-to-receiver hop:
// entry -> service (EdgeService) -> receiver (EdgeBroadcastReceiver), with
// the receiver body holding one sink statement.
func buildICCChain(t *testing.T) (*irtest.Provider, *ir.Edge, *ir.Statement) {
	t.Helper()
	p := irtest.New()
	svc := p.Class("com.example.TestService", ir.OriginApplication).Method("onStartCommand", "void")
	recv := p.Class("com.example.Receiver", ir.OriginApplication).Method("onReceive", "void")

	sinkStmt := recv.Invoke(ir.NewInvoke(ir.InvokeStatic, nil, ir.MethodRef{Class: "java.io.File", Name: "delete", ReturnType: "void"}))

	cg := p.CallGraph()
	svcToReceiverSrc := &ir.Statement{Index: 0, Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, recv.Method().Ref()))}
	cg.AddEdge(&ir.Edge{Caller: svc.Method(), Callee: recv.Method(), Kind: ir.EdgeBroadcastReceiver, Src: svcToReceiverSrc})
	entry := cg.AddRootEdge(svc.Method(), ir.EdgeService)

	return p, entry, sinkStmt
}

func TestDriver_E5_MultiHopICCChainYieldsOnePath(t *testing.T) {
	p, entry, sinkStmt := buildICCChain(t)
	plugin := &sinkPlugin{target: sinkStmt}

	driver := traverse.NewDriver(p, traverse.WithPlugin(plugin))
	paths := driver.Run([]*ir.Edge{entry})

	require.Len(t, paths, 1)
	assert.Len(t, paths[0].Edges, 2, "entry edge plus the service-to-receiver edge")
	assert.Same(t, sinkStmt, paths[0].TargetUnit)
	assert.NotEmpty(t, paths[0].RunID)
	require.Len(t, plugin.hits, 1)
	assert.Equal(t, paths[0], plugin.hits[0])
}

func TestDriver_Determinism(t *testing.T) {
	p, entry, sinkStmt := buildICCChain(t)

	run := func() []traverse.CallPath {
		plugin := &sinkPlugin{target: sinkStmt}
		driver := traverse.NewDriver(p, traverse.WithPlugin(plugin))
		return driver.Run([]*ir.Edge{entry})
	}

	first := run()
	second := run()
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].TargetUnit, second[0].TargetUnit)
	assert.Equal(t, len(first[0].Edges), len(second[0].Edges))
	for i := range first[0].Edges {
		assert.Same(t, first[0].Edges[i], second[0].Edges[i])
	}
}

// TestBoundedAnyPathFinder_VisitedSetPreventsCycles builds A -> B -> A and
// confirms the finder terminates instead of looping forever, because
// pending acts as the per-entry-point visited set.
func TestBoundedAnyPathFinder_VisitedSetPreventsCycles(t *testing.T) {
	p := irtest.New()
	a := p.Class("com.example.A", ir.OriginApplication).Method("run", "void")
	b := p.Class("com.example.B", ir.OriginApplication).Method("run", "void")

	cg := p.CallGraph()
	aToB := &ir.Statement{Index: 0, Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, b.Method().Ref()))}
	bToA := &ir.Statement{Index: 0, Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, a.Method().Ref()))}
	cg.AddEdge(&ir.Edge{Caller: a.Method(), Callee: b.Method(), Kind: ir.EdgeService, Src: aToB})
	cg.AddEdge(&ir.Edge{Caller: b.Method(), Callee: a.Method(), Kind: ir.EdgeService, Src: bToA})
	entry := cg.AddRootEdge(a.Method(), ir.EdgeService)

	finder := traverse.NewBoundedAnyPathFinder(p, []*ir.Edge{entry}, nil, traverse.DefaultBounds(), alwaysFalsePredicate{})
	var hits []string
	finder.OnBoundExceeded(func(m *ir.Method, detail string) { hits = append(hits, detail) })

	path := finder.Next()
	assert.Nil(t, path)
	assert.Empty(t, hits, "the cycle is small enough that the visited set, not a bound, ends the walk")
}

// anyStatementPlugin accepts every statement it's shown, used to probe
// whether a given method body was reachable at all.
type anyStatementPlugin struct{ hits []traverse.CallPath }

func (p *anyStatementPlugin) ProcessUnit(*ir.Method, *ir.Statement) bool { return true }
func (p *anyStatementPlugin) OnTargetPath(path traverse.CallPath)       { p.hits = append(p.hits, path) }

func TestPlatformWhitelist_FiltersUnlistedPlatformClasses(t *testing.T) {
	p := irtest.New()
	app := p.Class("com.example.Caller", ir.OriginApplication).Method("run", "void")
	platform := p.Class("android.os.AsyncTask", ir.OriginPlatform).Method("execute", "void")
	platform.Invoke(ir.NewInvoke(ir.InvokeStatic, nil, ir.MethodRef{Class: "java.io.File", Name: "delete", ReturnType: "void"}))

	cg := p.CallGraph()
	src := &ir.Statement{Index: 0, Kind: ir.KindInvoke, Invoke: ir.Box(ir.NewInvoke(ir.InvokeStatic, nil, platform.Method().Ref()))}
	cg.AddEdge(&ir.Edge{Caller: app.Method(), Callee: platform.Method(), Kind: ir.EdgeAsyncTask, Src: src})
	entry := cg.AddRootEdge(app.Method(), ir.EdgeAsyncTask)

	withoutPlugin := &anyStatementPlugin{}
	withoutDriver := traverse.NewDriver(p, traverse.WithPlugin(withoutPlugin))
	assert.Empty(t, withoutDriver.Run([]*ir.Edge{entry}), "an unlisted platform class must never be descended into")

	withPlugin := &anyStatementPlugin{}
	withDriver := traverse.NewDriver(p, traverse.WithPlatformWhitelist("android.os."), traverse.WithPlugin(withPlugin))
	assert.NotEmpty(t, withDriver.Run([]*ir.Edge{entry}), "a whitelisted platform prefix must be descended into")
}
