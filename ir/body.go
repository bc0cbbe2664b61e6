package ir

// Body is the ordered sequence of statements belonging to a Method,
// together with the set of locals it declares. It provides def/use queries
// over a flow graph built from If/Goto/fallthrough edges. Bodies are
// intra-procedural: spec.md §1 explicitly excludes inter-procedural
// dataflow beyond a single method body.
type Body struct {
	Method     *Method
	Statements []*Statement
	locals     map[string]string // name -> declared type

	reach reachResult // lazily computed, memoized on first def/use query
}

// NewBody constructs an empty Body for the given Method. Statements are
// appended with AddStatement, which assigns each one its stable Index.
func NewBody(m *Method) *Body {
	return &Body{Method: m, locals: map[string]string{}}
}

// AddStatement appends stmt to the body, assigning it the next Index.
func (b *Body) AddStatement(stmt *Statement) *Statement {
	stmt.Index = len(b.Statements)
	stmt.body = b
	b.Statements = append(b.Statements, stmt)
	b.reach = reachResult{} // invalidate memoized dataflow
	return stmt
}

// DeclareLocal registers a local's static type so type-directed resolution
// (e.g. the async and messenger patchers resolving a dispatch target's
// class) can consult it.
func (b *Body) DeclareLocal(name, typ string) {
	b.locals[name] = typ
}

// LocalType returns the declared type of a local, if known.
func (b *Body) LocalType(name string) (string, bool) {
	t, ok := b.locals[name]
	return t, ok
}

// Locals returns every local name declared in this body.
func (b *Body) Locals() []string {
	out := make([]string, 0, len(b.locals))
	for n := range b.locals {
		out = append(out, n)
	}
	return out
}

// At returns the statement at index i, or nil if out of range.
func (b *Body) At(i int) *Statement {
	if i < 0 || i >= len(b.Statements) {
		return nil
	}
	return b.Statements[i]
}

// successors returns the statement indices control can flow to directly
// after executing stmt.
func (b *Body) successors(stmt *Statement) []int {
	switch stmt.Kind {
	case KindGoto:
		return []int{stmt.Target}
	case KindIf:
		succ := []int{stmt.Target}
		if stmt.Index+1 < len(b.Statements) {
			succ = append(succ, stmt.Index+1)
		}
		return succ
	case KindReturn, KindThrow:
		return nil
	default:
		if stmt.Index+1 < len(b.Statements) {
			return []int{stmt.Index + 1}
		}
		return nil
	}
}

// definedLocal returns the local name stmt defines, if any.
func definedLocal(stmt *Statement) (string, bool) {
	switch stmt.Kind {
	case KindAssign:
		if l, ok := stmt.LHS.Value.(Local); ok {
			return l.Name, true
		}
	case KindIdentity:
		if l, ok := stmt.IdentityLocal.Value.(Local); ok {
			return l.Name, true
		}
	}
	return "", false
}

// useBoxes returns every ValueBox read (not defined) by stmt, recursing into
// invoke expressions so call bases and arguments are individually
// addressable use sites.
func useBoxes(stmt *Statement) []*ValueBox {
	var boxes []*ValueBox
	add := func(b *ValueBox) {
		if b == nil {
			return
		}
		boxes = append(boxes, b)
		if inv, ok := b.Value.(InvokeExpr); ok {
			if inv.Base != nil {
				add(inv.Base)
			}
			for _, a := range inv.Args {
				add(a)
			}
		}
		if fr, ok := b.Value.(InstanceFieldRef); ok && fr.Base != nil {
			add(fr.Base)
		}
	}
	switch stmt.Kind {
	case KindAssign:
		add(stmt.RHS)
		if fr, ok := stmt.LHS.Value.(InstanceFieldRef); ok && fr.Base != nil {
			add(fr.Base)
		}
	case KindInvoke:
		add(stmt.Invoke)
	case KindReturn:
		if stmt.ReturnValue != nil {
			add(stmt.ReturnValue)
		}
	case KindIf:
		add(stmt.Cond)
	case KindThrow:
		add(stmt.ThrowValue)
	}
	return boxes
}

type reachResult struct {
	computed bool
	// in[s] is the set of definition-statement indices reaching the start of statement s.
	in [][]int
}

// ensureReach computes the classic iterative reaching-definitions dataflow
// over the body's control-flow graph, memoizing the result until the next
// AddStatement invalidates it.
func (b *Body) ensureReach() {
	if b.reach.computed {
		return
	}
	n := len(b.Statements)
	in := make([][]int, n)
	out := make([][]int, n)

	// gen[s] = {s} if s defines a local; kill[s] = every other def of that local.
	defOf := make([]string, n)
	hasDef := make([]bool, n)
	for i, s := range b.Statements {
		if name, ok := definedLocal(s); ok {
			defOf[i] = name
			hasDef[i] = true
		}
	}
	defsByLocal := map[string][]int{}
	for i := 0; i < n; i++ {
		if hasDef[i] {
			defsByLocal[defOf[i]] = append(defsByLocal[defOf[i]], i)
		}
	}

	changed := true
	for changed {
		changed = false
		for i, stmt := range b.Statements {
			// recompute in[i] as the union of out[pred] for every predecessor.
			var newIn []int
			seen := map[int]bool{}
			for p := 0; p < n; p++ {
				for _, succ := range b.successors(b.Statements[p]) {
					if succ == i {
						for _, d := range out[p] {
							if !seen[d] {
								seen[d] = true
								newIn = append(newIn, d)
							}
						}
					}
				}
			}
			in[i] = newIn

			newOut := make([]int, 0, len(newIn)+1)
			if hasDef[i] {
				for _, d := range newIn {
					if defOf[d] != defOf[i] {
						newOut = append(newOut, d)
					}
				}
				newOut = append(newOut, i)
			} else {
				newOut = append(newOut, newIn...)
			}
			if !sameSet(out[i], newOut) {
				out[i] = newOut
				changed = true
			}
			_ = stmt
		}
	}
	b.reach = reachResult{computed: true, in: in}
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	am := map[int]bool{}
	for _, x := range a {
		am[x] = true
	}
	for _, x := range b {
		if !am[x] {
			return false
		}
	}
	return true
}

// DefsOfAt returns every statement whose definition of local reaches the use
// at stmt. The invariant from spec.md §3 holds: for each Local use of local
// at stmt, every reaching definition is contained in this set.
func (b *Body) DefsOfAt(local string, stmt *Statement) []*Statement {
	b.ensureReach()
	var out []*Statement
	for _, d := range b.reach.in[stmt.Index] {
		if defOf, ok := definedLocal(b.Statements[d]); ok && defOf == local {
			out = append(out, b.Statements[d])
		}
	}
	return out
}

// Use pairs a statement with the specific operand slot inside it that reads
// a value, per spec.md §3's usesOf(stmt) -> set<(Stmt, ValueBox)>.
type Use struct {
	Stmt *Statement
	Box  *ValueBox
}

// UsesOf returns every use reached by the definition at defStmt: for each
// statement u in the body, if defStmt's definition reaches u and u reads the
// local defStmt defines, the (u, box) pair is included.
func (b *Body) UsesOf(defStmt *Statement) []Use {
	local, ok := definedLocal(defStmt)
	if !ok {
		return nil
	}
	b.ensureReach()
	var uses []Use
	for _, u := range b.Statements {
		reaches := false
		for _, d := range b.reach.in[u.Index] {
			if d == defStmt.Index {
				reaches = true
				break
			}
		}
		if !reaches {
			continue
		}
		for _, box := range useBoxes(u) {
			if l, ok := box.Value.(Local); ok && l.Name == local {
				uses = append(uses, Use{Stmt: u, Box: box})
			}
		}
	}
	return uses
}
