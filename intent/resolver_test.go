package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/ir/irtest"
)

// buildExplicitServiceIntent constructs the E1 scenario body:
//
//	i = new Intent(this, TestService.class)
//	i.setAction("ACTION_TEST_1")
//	i.putExtra("auth_level", "user")
//	startService(i)
func buildExplicitServiceIntent(t *testing.T) (*ir.Body, ir.Local, *ir.Statement) {
	t.Helper()
	p := irtest.New()
	p.Class("com.example.TestService", ir.OriginApplication)
	cls := p.Class("com.example.Caller", ir.OriginApplication)
	m := cls.Method("run", "void")

	i := m.Local("i", "android.content.Intent")
	m.New(i, "android.content.Intent")
	m.Invoke(ir.NewInvoke(ir.InvokeVirtual, i, ir.MethodRef{Name: "setClass", ParamTypes: []string{"android.content.Context", "java.lang.Class"}},
		ir.NullConstant{}, ir.ClassConstant{Name: "com.example.TestService"}))
	m.Invoke(ir.NewInvoke(ir.InvokeVirtual, i, ir.MethodRef{Name: "setAction", ParamTypes: []string{"java.lang.String"}},
		ir.StringConstant{Value: "ACTION_TEST_1"}))
	m.Invoke(ir.NewInvoke(ir.InvokeVirtual, i, ir.MethodRef{Name: "putExtra", ParamTypes: []string{"java.lang.String", "java.lang.String"}},
		ir.StringConstant{Value: "auth_level"}, ir.StringConstant{Value: "user"}))
	startStmt := m.Invoke(ir.NewInvoke(ir.InvokeVirtual, nil, ir.MethodRef{Name: "startService", ParamTypes: []string{"android.content.Intent"}}, i))

	return m.Body(), i, startStmt
}

func TestExtractIntentContents_ExplicitServiceDispatch(t *testing.T) {
	body, i, stmt := buildExplicitServiceIntent(t)

	contents := intent.ExtractIntentContents(i, stmt, body)
	require.Len(t, contents, 1)

	c := contents[0]
	assert.True(t, c.Explicit)
	assert.True(t, c.Precise)
	assert.Equal(t, []string{"com.example.TestService"}, c.ComponentNames())
	assert.Equal(t, []string{"ACTION_TEST_1"}, c.Actions())
	extra, ok := c.Extras()["auth_level"]
	require.True(t, ok)
	assert.Equal(t, intent.OriginConstant, extra.Origin)
	assert.Equal(t, "user", extra.Literal)
}

func TestExtractIntentContents_ParameterSourcedIntentIsImprecise(t *testing.T) {
	p := irtest.New()
	cls := p.Class("com.example.Caller", ir.OriginApplication)
	m := cls.Method("onReceive", "void", "android.content.Context", "android.content.Intent")

	a := m.Local("a", "android.content.Intent")
	m.Identity(a, 1, "android.content.Intent")
	stmt := m.Invoke(ir.NewInvoke(ir.InvokeVirtual, nil, ir.MethodRef{Name: "sendBroadcast", ParamTypes: []string{"android.content.Intent"}}, a))

	contents := intent.ExtractIntentContents(a, stmt, m.Body())
	require.Len(t, contents, 1)
	assert.False(t, contents[0].Precise)
	assert.False(t, contents[0].Explicit)
}

func TestResolveTargetClasses_OnlyCountsClassesLoadedInScene(t *testing.T) {
	p := irtest.New()
	p.Class("com.example.Known", ir.OriginApplication)

	cls := p.Class("com.example.Caller", ir.OriginApplication)
	m := cls.Method("run", "void")
	i := m.Local("i", "android.content.Intent")
	m.New(i, "android.content.Intent")
	m.Invoke(ir.NewInvoke(ir.InvokeVirtual, i, ir.MethodRef{Name: "setClass", ParamTypes: []string{"android.content.Context", "java.lang.Class"}},
		ir.NullConstant{}, ir.ClassConstant{Name: "com.example.Unknown"}))
	stmt := m.Invoke(ir.NewInvoke(ir.InvokeVirtual, nil, ir.MethodRef{Name: "startActivity", ParamTypes: []string{"android.content.Intent"}}, i))

	contents := intent.ExtractIntentContents(i, stmt, m.Body())
	targets := intent.ResolveTargetClasses(p, contents)
	assert.Empty(t, targets, "com.example.Unknown was never loaded into the scene")
}

func TestResolveUri_ParsesConstantUriString(t *testing.T) {
	p := irtest.New()
	cls := p.Class("com.example.Caller", ir.OriginApplication)
	m := cls.Method("run", "void")

	u := m.Local("u", "android.net.Uri")
	m.Assign(u, ir.InvokeExpr{Kind: ir.InvokeStatic, Method: ir.MethodRef{Name: "parse", ParamTypes: []string{"java.lang.String"}},
		Args: []*ir.ValueBox{ir.Box(ir.StringConstant{Value: "content://com.example.provider/items"})}})
	stmt := m.Invoke(ir.NewInvoke(ir.InvokeVirtual, nil, ir.MethodRef{Name: "query"}, u))

	data := intent.ResolveUri(u, stmt, m.Body())
	assert.Equal(t, "content", data.Scheme)
	assert.Equal(t, "com.example.provider", data.Host)
	assert.Equal(t, "/items", data.Path)
}
