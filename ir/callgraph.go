package ir

// CallGraph is a multigraph over Methods. Edges are tagged with
// (src_stmt, kind); an edge's Src may be nil for synthetic root edges.
// Patching only ever adds edges (spec.md §3 lifecycle: monotonic, nothing
// is removed).
type CallGraph struct {
	out  map[*Method][]*Edge
	in   map[*Method][]*Edge
	seen map[uint64]bool
}

// NewCallGraph returns an empty call graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		out:  map[*Method][]*Edge{},
		in:   map[*Method][]*Edge{},
		seen: map[uint64]bool{},
	}
}

// AddEdge inserts e into the graph unless an equal edge (same caller,
// callee, kind and source statement) already exists, preserving the
// idempotence invariant required of repeated patching runs. Returns true
// when the edge was newly added.
func (g *CallGraph) AddEdge(e *Edge) bool {
	key := e.hashKey()
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	g.out[e.Caller] = append(g.out[e.Caller], e)
	g.in[e.Callee] = append(g.in[e.Callee], e)
	return true
}

// EdgesOutOf returns a snapshot of every edge leaving m.
func (g *CallGraph) EdgesOutOf(m *Method) []*Edge {
	src := g.out[m]
	out := make([]*Edge, len(src))
	copy(out, src)
	return out
}

// EdgesInto returns a snapshot of every edge entering m.
func (g *CallGraph) EdgesInto(m *Method) []*Edge {
	src := g.in[m]
	out := make([]*Edge, len(src))
	copy(out, src)
	return out
}

// AddRootEdge inserts a synthetic root edge with no source statement,
// typically used to seed the traversal's entry points.
func (g *CallGraph) AddRootEdge(entry *Method, kind EdgeKind) *Edge {
	e := &Edge{Callee: entry, Kind: kind}
	g.AddEdge(e)
	return e
}
