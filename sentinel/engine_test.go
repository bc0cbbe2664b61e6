package sentinel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/ir/irtest"
	"github.com/pathsentinel/icc/sentinel"
	"github.com/pathsentinel/icc/traverse"
)

// recordingPlugin accepts any sink-shaped statement (a static invoke on
// java.io.File) and records every emitted path.
type recordingPlugin struct{ hits []traverse.CallPath }

func (p *recordingPlugin) ProcessUnit(_ *ir.Method, stmt *ir.Statement) bool {
	inv, ok := stmt.InvokeExprOf()
	return ok && inv.Method.Class == "java.io.File"
}

func (p *recordingPlugin) OnTargetPath(path traverse.CallPath) { p.hits = append(p.hits, path) }

func TestEngine_Run_PatchesThenTraversesExplicitServiceDispatch(t *testing.T) {
	p := irtest.New()
	svc := p.Class("com.example.TestService", ir.OriginApplication)
	svc.Method("onStartCommand", "int", "android.content.Intent", "int", "int").
		Invoke(ir.NewInvoke(ir.InvokeStatic, nil, ir.MethodRef{Class: "java.io.File", Name: "delete", ReturnType: "void"}))

	caller := p.Class("com.example.Caller", ir.OriginApplication).Method("run", "void")
	i := caller.Local("i", "android.content.Intent")
	caller.New(i, "android.content.Intent")
	caller.Invoke(ir.NewInvoke(ir.InvokeVirtual, i, ir.MethodRef{Name: "setClass", ParamTypes: []string{"android.content.Context", "java.lang.Class"}},
		ir.NullConstant{}, ir.ClassConstant{Name: "com.example.TestService"}))
	caller.Invoke(ir.NewInvoke(ir.InvokeVirtual, nil, ir.MethodRef{Name: "startService", ParamTypes: []string{"android.content.Intent"}}, i))

	container := ir.NewClass("com.example.patch.Bridges", ir.OriginApplication)
	plugin := &recordingPlugin{}
	entry := p.CallGraph().AddRootEdge(caller.Method(), ir.EdgeStatic)

	engine := sentinel.NewEngine(p,
		sentinel.WithPatchContainer(container),
		sentinel.WithDefaultPatchers(),
		sentinel.WithPlugin(plugin),
		sentinel.WithEntryPoints(entry),
	)

	result, err := engine.Run()
	require.NoError(t, err)

	callers := result.Summaries.Component("com.example.TestService").Callers(icc.ChannelICC)
	require.Len(t, callers, 1)

	require.Len(t, result.Paths, 1)
	assert.Len(t, plugin.hits, 1)
	assert.Equal(t, result.Paths[0], plugin.hits[0])
}
