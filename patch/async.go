package patch

import (
	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
)

// asyncTrigger is the shared implementation behind AsyncTaskPatcher,
// ExecutorPatcher and ThreadPatcher: three same-process asynchronous
// dispatch mechanisms that never cross a component boundary but still
// break a naive direct call graph. Each resolves its target purely from
// the dispatching object's static type; no Intent content is involved.
type asyncTrigger struct {
	kind      ir.EdgeKind
	method    string // triggering method name: execute/submit/start
	entrySub  string
	tagWord   string
	argDriven bool // true when the target is an argument (submit(Runnable)) rather than the call's own base (execute()/start())
}

func (t asyncTrigger) Kind() Kind { return t.kind }

func (t asyncTrigger) ShouldPatch(ctx *Context, stmt *ir.Statement) bool {
	inv, ok := invokeNamed(stmt, t.method)
	if !ok {
		return false
	}
	if t.argDriven {
		return len(inv.Args) > 0
	}
	return inv.Base != nil
}

func (t asyncTrigger) Patch(ctx *Context, stmt *ir.Statement) error {
	inv, _ := invokeNamed(stmt, t.method)
	caller := stmt.Body().Method

	var targetVal ir.Value
	if t.argDriven {
		targetVal = inv.Arg(0)
	} else {
		targetVal = inv.Base.Value
	}
	local, ok := targetVal.(ir.Local)
	if !ok {
		ctx.Report(diag.ResolutionIncomplete, caller, stmt, "async dispatch target is not a traceable local")
		return nil
	}
	targetType, ok := stmt.Body().LocalType(local.Name)
	if !ok {
		return nil
	}
	cls, ok := ctx.Scene.LookupClass(targetType)
	if !ok {
		ctx.Report(diag.ClassHierarchyLookupFailure, caller, stmt, "async dispatch target "+targetType+" not found in scene")
		return nil
	}
	entry, ok := firstEntryPoint(cls, t.entrySub)
	if !ok {
		return nil
	}

	bridge := ctx.EnsureBridge(bridgeName(targetType, t.tagWord), "void", nil, func(m *ir.Method) {
		synthesizeBridgeBody(ctx, m, entry)
	})
	tag(stmt, t.kind, bridge)
	ctx.Summaries.Component(targetType).AddCaller(icc.ChannelICC, icc.IntentCaller{CallerMethod: caller, Stmt: stmt})
	if caller.DeclaringClass != nil {
		ctx.Summaries.Component(caller.DeclaringClass.Name).AddCallee(icc.ChannelICC, icc.IntentCallee{CalleeMethod: entry, Component: targetType})
	}
	return nil
}

// AsyncTaskPatcher bridges AsyncTask.execute() to the task's doInBackground.
type AsyncTaskPatcher struct{ asyncTrigger }

// NewAsyncTaskPatcher constructs an AsyncTaskPatcher.
func NewAsyncTaskPatcher() AsyncTaskPatcher {
	return AsyncTaskPatcher{asyncTrigger{kind: ir.EdgeAsyncTask, method: "execute", entrySub: asyncTaskDoInBackSub, tagWord: "async_task"}}
}

// ExecutorPatcher bridges Executor.submit(Runnable) to the Runnable's run.
type ExecutorPatcher struct{ asyncTrigger }

// NewExecutorPatcher constructs an ExecutorPatcher.
func NewExecutorPatcher() ExecutorPatcher {
	return ExecutorPatcher{asyncTrigger{kind: ir.EdgeExecutor, method: "submit", entrySub: runnableRunSub, tagWord: "executor", argDriven: true}}
}

// ThreadPatcher bridges Thread.start() to the thread's run.
type ThreadPatcher struct{ asyncTrigger }

// NewThreadPatcher constructs a ThreadPatcher.
func NewThreadPatcher() ThreadPatcher {
	return ThreadPatcher{asyncTrigger{kind: ir.EdgeThread, method: "start", entrySub: runnableRunSub, tagWord: "thread"}}
}
