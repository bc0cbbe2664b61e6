// Package irtest provides a fluent builder for constructing tiny ir.* graphs
// directly, without parsing source. spec.md §1 places IR construction
// outside the core's scope, so tests exercise the resolver, patchers and
// traversal against hand-built fixtures instead of a frontend, mirroring
// how the teacher repository builds linage.Identifier/linage.DataFlowEdge
// values programmatically in analyzer/identifier.go.
package irtest

import "github.com/pathsentinel/icc/ir"

// Provider is a minimal in-memory ir.IRProvider used by tests.
type Provider struct {
	classes map[string]*ir.Class
	cg      *ir.CallGraph
}

// New returns an empty Provider with an empty call graph.
func New() *Provider {
	return &Provider{classes: map[string]*ir.Class{}, cg: ir.NewCallGraph()}
}

// Class declares (or returns the existing) class named name with the given
// origin and returns a ClassBuilder for adding methods to it.
func (p *Provider) Class(name string, origin ir.Origin) *ClassBuilder {
	c, ok := p.classes[name]
	if !ok {
		c = ir.NewClass(name, origin)
		p.classes[name] = c
	}
	return &ClassBuilder{class: c, provider: p}
}

func (p *Provider) ApplicationClasses() []*ir.Class {
	var out []*ir.Class
	for _, c := range p.classes {
		if c.Origin == ir.OriginApplication {
			out = append(out, c)
		}
	}
	return out
}

func (p *Provider) LookupClass(name string) (*ir.Class, bool) {
	c, ok := p.classes[name]
	return c, ok
}

func (p *Provider) MakeMethod(class *ir.Class, name string, paramTypes []string, returnType string) *ir.Method {
	sig := (ir.MethodRef{Name: name, ParamTypes: paramTypes, ReturnType: returnType}).Subsignature()
	if m, ok := class.Method(sig); ok {
		return m
	}
	m := ir.NewMethod(name, returnType, paramTypes...)
	class.AddMethod(m)
	return m
}

func (p *Provider) CallGraph() *ir.CallGraph { return p.cg }

func (p *Provider) ClassHierarchy() ir.ClassHierarchy { return hierarchy{p} }

type hierarchy struct{ p *Provider }

func (h hierarchy) IsSubclassOfIncluding(c, sup *ir.Class) bool {
	for cur := c; cur != nil; {
		if cur == sup || cur.Name == sup.Name {
			return true
		}
		for _, iface := range cur.Interfaces {
			if iface == sup.Name {
				return true
			}
		}
		next, ok := h.p.classes[cur.Super]
		if !ok {
			break
		}
		cur = next
	}
	return false
}

func (h hierarchy) IsSuperclassOfIncluding(c, sub *ir.Class) bool {
	return h.IsSubclassOfIncluding(sub, c)
}

// ClassBuilder adds methods to a class under construction.
type ClassBuilder struct {
	class    *ir.Class
	provider *Provider
}

func (b *ClassBuilder) Class() *ir.Class { return b.class }

func (b *ClassBuilder) Extends(super string) *ClassBuilder {
	b.class.Super = super
	return b
}

func (b *ClassBuilder) Implements(ifaces ...string) *ClassBuilder {
	b.class.Interfaces = append(b.class.Interfaces, ifaces...)
	return b
}

// Method declares a method with a body and returns a MethodBuilder for
// appending statements to it.
func (b *ClassBuilder) Method(name, returnType string, paramTypes ...string) *MethodBuilder {
	m := ir.NewMethod(name, returnType, paramTypes...)
	b.class.AddMethod(m)
	body := ir.NewBody(m)
	m.SetBody(body)
	return &MethodBuilder{method: m, body: body}
}

// MethodBuilder appends statements to a method body in order.
type MethodBuilder struct {
	method *ir.Method
	body   *ir.Body
}

func (m *MethodBuilder) Method() *ir.Method { return m.method }
func (m *MethodBuilder) Body() *ir.Body     { return m.body }

// Local declares name with typ and returns an ir.Local referencing it.
func (m *MethodBuilder) Local(name, typ string) ir.Local {
	m.body.DeclareLocal(name, typ)
	return ir.Local{Name: name, Type: typ}
}

// Identity appends `local := @parameterN` with N = paramIndex.
func (m *MethodBuilder) Identity(local ir.Local, paramIndex int, typ string) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{
		Kind:          ir.KindIdentity,
		IdentityLocal: ir.Box(local),
		ParamRef:      ir.Box(ir.ParameterRef{Index: paramIndex, Type: typ}),
	})
}

// Assign appends `lhs = rhs`.
func (m *MethodBuilder) Assign(lhs ir.Local, rhs ir.Value) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{
		Kind: ir.KindAssign,
		LHS:  ir.Box(lhs),
		RHS:  ir.Box(rhs),
	})
}

// New appends `lhs = new typeName` and declares lhs's type.
func (m *MethodBuilder) New(lhs ir.Local, typeName string) *ir.Statement {
	m.body.DeclareLocal(lhs.Name, typeName)
	return m.Assign(lhs, ir.NewExpr{Type: typeName})
}

// Invoke appends a standalone invocation statement (result discarded).
func (m *MethodBuilder) Invoke(expr ir.InvokeExpr) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{
		Kind:   ir.KindInvoke,
		Invoke: ir.Box(expr),
	})
}

// Return appends `return value`.
func (m *MethodBuilder) Return(value ir.Value) *ir.Statement {
	var box *ir.ValueBox
	if value != nil {
		box = ir.Box(value)
	}
	return m.body.AddStatement(&ir.Statement{Kind: ir.KindReturn, ReturnValue: box})
}

// If appends `if cond goto target`.
func (m *MethodBuilder) If(cond ir.Value, target int) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{Kind: ir.KindIf, Cond: ir.Box(cond), Target: target})
}

// Goto appends an unconditional jump to target.
func (m *MethodBuilder) Goto(target int) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{Kind: ir.KindGoto, Target: target})
}

// Throw appends `throw value`.
func (m *MethodBuilder) Throw(value ir.Value) *ir.Statement {
	return m.body.AddStatement(&ir.Statement{Kind: ir.KindThrow, ThrowValue: ir.Box(value)})
}
