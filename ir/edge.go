package ir

import "strconv"

// EdgeKind tags a CallGraph edge with either a direct-dispatch mechanism or
// the ICC channel that synthesized it.
type EdgeKind string

const (
	EdgeStatic    EdgeKind = "STATIC"
	EdgeVirtual   EdgeKind = "VIRTUAL"
	EdgeSpecial   EdgeKind = "SPECIAL"
	EdgeInterface EdgeKind = "INTERFACE"

	EdgeActivity          EdgeKind = "ACTIVITY"
	EdgeService           EdgeKind = "SERVICE"
	EdgeBroadcastReceiver EdgeKind = "BROADCAST_RECEIVER"
	EdgeContentProvider   EdgeKind = "CONTENT_PROVIDER"
	EdgeExecutor          EdgeKind = "EXECUTOR"
	EdgeAsyncTask         EdgeKind = "ASYNC_TASK"
	EdgeIntent            EdgeKind = "INTENT"
	EdgeThread            EdgeKind = "THREAD"
	EdgeMessenger         EdgeKind = "MESSENGER"
)

// synthetic reports whether kind is one of the ICC-synthesized kinds rather
// than a direct-dispatch kind inherited from the initial call graph.
func (k EdgeKind) synthetic() bool {
	switch k {
	case EdgeActivity, EdgeService, EdgeBroadcastReceiver, EdgeContentProvider, EdgeExecutor, EdgeAsyncTask, EdgeIntent, EdgeThread, EdgeMessenger:
		return true
	default:
		return false
	}
}

// Edge is one directed edge of the CallGraph multigraph. Src may be nil for
// synthetic root edges (spec.md §3); traversal must filter those out before
// treating Src.Index as meaningful.
type Edge struct {
	Caller *Method
	Callee *Method
	Kind   EdgeKind
	Src    *Statement // nil for synthetic root edges
}

// hashKey returns the stable identity of this edge for dedup purposes: two
// edges with the same caller, callee, kind and source statement are the
// same edge.
func (e *Edge) hashKey() uint64 {
	srcIdx := -1
	if e.Src != nil {
		srcIdx = e.Src.Index
	}
	callerName, calleeName := "", ""
	if e.Caller != nil {
		callerName = e.Caller.Ref().String()
	}
	if e.Callee != nil {
		calleeName = e.Callee.Ref().String()
	}
	return HashStrings(callerName, calleeName, string(e.Kind), strconv.Itoa(srcIdx))
}
