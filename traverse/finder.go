// Package traverse implements BoundedAnyPathFinder and the TraversalDriver
// plugin API of spec.md §4.5/§4.6: a stack-based DFS over the patched call
// graph that yields any-path witnesses to plugin-accepted sink statements,
// subject to per-entry-point and global bounds.
package traverse

import (
	"time"

	"github.com/pathsentinel/icc/ir"
)

// Bounds configures the finder's depth/iteration/wall-clock limits. The
// zero value is not usable; construct with DefaultBounds or fill in every
// field explicitly.
type Bounds struct {
	MaxDepth          int
	MaxIterations     int
	PerEntryWallClock time.Duration
	GlobalWallClock   time.Duration
}

// DefaultBounds are the literal bounds named in spec.md §4.5.
func DefaultBounds() Bounds {
	return Bounds{
		MaxDepth:          50,
		MaxIterations:     1000,
		PerEntryWallClock: 30 * time.Second,
		GlobalWallClock:   300 * time.Second,
	}
}

// PlatformWhitelist is the set of platform package prefixes whose classes
// are still worth walking into during traversal even though they carry no
// application body — e.g. java.io. for surfacing file-I/O sinks. An empty
// whitelist means only application-origin classes are followed.
type PlatformWhitelist []string

func (w PlatformWhitelist) allows(className string) bool {
	for _, prefix := range w {
		if len(className) >= len(prefix) && className[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// childSnapshot caches one method's out-edges, taken once on first visit so
// a long traversal never observes edges inserted after it started (spec.md
// §9 fourth bullet).
type childSnapshot struct {
	edges []*ir.Edge
}

// clock abstracts wall-clock reads so bound-exhaustion tests don't need to
// sleep for real seconds.
type clock func() time.Time

// BoundedAnyPathFinder is the stack-based any-path DFS of spec.md §4.5. It
// is not safe for concurrent use: the traversal is single-threaded by
// design (spec.md §5).
type BoundedAnyPathFinder struct {
	scene      ir.IRProvider
	whitelist  PlatformWhitelist
	bounds     Bounds
	predicate  EdgePredicate
	now        clock
	onBound    func(method *ir.Method, detail string)

	entries   []*ir.Edge
	entryIdx  int

	stack    []*ir.Edge
	pending  map[*ir.Method]*childSnapshot
	snapshot map[*ir.Method]int // index into snapshot.edges of the next untried child

	iterations    int
	entryStart    time.Time
	globalStart   time.Time
	globalExpired bool
}

// NewBoundedAnyPathFinder constructs a finder over scene's call graph,
// starting exploration from entries in order. predicate decides which
// candidate edges are accepted as path-terminating (want); whitelist names
// the platform package prefixes computeChildren may descend into.
func NewBoundedAnyPathFinder(scene ir.IRProvider, entries []*ir.Edge, whitelist PlatformWhitelist, bounds Bounds, predicate EdgePredicate) *BoundedAnyPathFinder {
	return &BoundedAnyPathFinder{
		scene:     scene,
		whitelist: whitelist,
		bounds:    bounds,
		predicate: predicate,
		now:       time.Now,
		entries:   entries,
		pending:   map[*ir.Method]*childSnapshot{},
		snapshot:  map[*ir.Method]int{},
	}
}

// OnBoundExceeded registers a callback invoked whenever a per-entry-point
// bound forces the finder to abandon the current stack, so callers can
// surface a diag.BoundExceeded diagnostic without the finder depending on
// package diag directly.
func (f *BoundedAnyPathFinder) OnBoundExceeded(fn func(method *ir.Method, detail string)) {
	f.onBound = fn
}

// terminator is returned by Next to signal the global bound was hit or
// every entry point has been exhausted.
var terminator = (*Path)(nil)

// Path is a snapshot of the finder's stack at the moment a predicate
// accepted the top edge: a sequence of edges from an entry point to the
// accepting edge's target.
type Path struct {
	Edges []*ir.Edge
}

// Next returns the next witness path, or nil (the terminator) once the
// global bound is hit or every entry point is exhausted.
func (f *BoundedAnyPathFinder) Next() *Path {
	if f.globalStart.IsZero() {
		f.globalStart = f.now()
	}
	for {
		if f.globalExpired || f.now().Sub(f.globalStart) > f.bounds.GlobalWallClock {
			f.globalExpired = true
			return terminator
		}
		if len(f.stack) == 0 {
			if !f.initNextEntry() {
				return terminator
			}
		}
		if p := f.stepUntilMatchOrExhausted(); p != nil {
			return p
		}
		// current entry point's stack ran dry (or was abandoned on a bound);
		// loop back to initNextEntry.
	}
}

// initNextEntry consumes the next entry edge and resets per-entry-point
// state. Returns false once every entry edge has been consumed.
func (f *BoundedAnyPathFinder) initNextEntry() bool {
	if f.entryIdx >= len(f.entries) {
		return false
	}
	e := f.entries[f.entryIdx]
	f.entryIdx++

	f.stack = []*ir.Edge{e}
	f.pending = map[*ir.Method]*childSnapshot{}
	f.snapshot = map[*ir.Method]int{}
	f.iterations = 0
	f.entryStart = f.now()

	f.enter(e)
	return true
}

// enter records tgt as visited for this entry-point exploration by
// snapshotting its out-edges.
func (f *BoundedAnyPathFinder) enter(e *ir.Edge) {
	if e.Callee == nil {
		return
	}
	if _, ok := f.pending[e.Callee]; ok {
		return
	}
	f.pending[e.Callee] = f.computeChildren(e.Callee)
	f.snapshot[e.Callee] = 0
}

// computeChildren snapshots every out-edge of m whose source statement is
// non-null, dropping edges into bodyless methods and applying the
// application/whitelisted-platform filter of spec.md §4.5.
func (f *BoundedAnyPathFinder) computeChildren(m *ir.Method) *childSnapshot {
	var out []*ir.Edge
	for _, e := range f.scene.CallGraph().EdgesOutOf(m) {
		if e.Src == nil {
			continue
		}
		if e.Callee == nil || !e.Callee.HasBody() {
			continue
		}
		if !f.classAllowed(e.Callee) {
			continue
		}
		out = append(out, e)
	}
	return &childSnapshot{edges: out}
}

func (f *BoundedAnyPathFinder) classAllowed(m *ir.Method) bool {
	cls := m.DeclaringClass
	if cls == nil {
		return false
	}
	if cls.Origin == ir.OriginApplication {
		return true
	}
	return f.whitelist.allows(cls.Name)
}

// stepUntilMatchOrExhausted repeatedly advances the DFS until either the
// predicate accepts the top edge (returns the witness path) or the current
// entry point's exploration runs out of stack (returns nil).
func (f *BoundedAnyPathFinder) stepUntilMatchOrExhausted() *Path {
	for len(f.stack) > 0 {
		if f.entryBoundExceeded() {
			top := f.stack[len(f.stack)-1]
			f.reportBound(top.Callee, "entry-point bound exceeded")
			f.stack = nil
			return nil
		}
		f.iterations++

		top := f.stack[len(f.stack)-1]
		if f.predicate.Want(top) {
			path := &Path{Edges: append([]*ir.Edge(nil), f.stack...)}
			f.advance()
			return path
		}
		f.advance()
	}
	return nil
}

func (f *BoundedAnyPathFinder) entryBoundExceeded() bool {
	if f.iterations >= f.bounds.MaxIterations {
		return true
	}
	if len(f.stack) > f.bounds.MaxDepth {
		return true
	}
	if f.now().Sub(f.entryStart) > f.bounds.PerEntryWallClock {
		return true
	}
	return false
}

func (f *BoundedAnyPathFinder) reportBound(m *ir.Method, detail string) {
	if f.onBound != nil {
		f.onBound(m, detail)
	}
}

// advance performs one DFS step: push the next unvisited child of the top
// edge's target, or backtrack if the top's children are exhausted.
func (f *BoundedAnyPathFinder) advance() {
	for len(f.stack) > 0 {
		top := f.stack[len(f.stack)-1]
		snap := f.pending[top.Callee]
		idx := f.snapshot[top.Callee]

		for idx < len(snap.edges) {
			c := snap.edges[idx]
			idx++
			if _, visited := f.pending[c.Callee]; visited {
				continue // already-visited target: skip to avoid cycles/re-exploration
			}
			f.snapshot[top.Callee] = idx
			f.stack = append(f.stack, c)
			f.enter(c)
			return
		}
		f.snapshot[top.Callee] = idx
		// exhausted: backtrack
		f.stack = f.stack[:len(f.stack)-1]
	}
}
