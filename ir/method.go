package ir

// Method is identified by its declaring class plus subsignature (return
// type, name, ordered parameter types). A method with no Body is never a
// traversal-continuation target (spec.md §3 invariant) — callers must check
// HasBody before descending into it.
type Method struct {
	Name           string
	ParamTypes     []string
	ReturnType     string
	DeclaringClass *Class
	body           *Body
}

// NewMethod constructs a bodyless method declaration. Attach a body with
// SetBody once the method's statements are known.
func NewMethod(name, returnType string, paramTypes ...string) *Method {
	return &Method{Name: name, ReturnType: returnType, ParamTypes: paramTypes}
}

// Ref returns a MethodRef describing this method's subsignature.
func (m *Method) Ref() MethodRef {
	class := ""
	if m.DeclaringClass != nil {
		class = m.DeclaringClass.Name
	}
	return MethodRef{Class: class, Name: m.Name, ParamTypes: m.ParamTypes, ReturnType: m.ReturnType}
}

// SetBody attaches a body to the method and points the body back at it.
func (m *Method) SetBody(b *Body) {
	m.body = b
	if b != nil {
		b.Method = m
	}
}

// Body returns the method's body, or nil if absent (platform methods).
func (m *Method) Body() *Body { return m.body }

// HasBody reports whether the method has a loaded body and is therefore a
// valid traversal-continuation target.
func (m *Method) HasBody() bool { return m.body != nil }
