package intent

// TargetKind distinguishes the three ways a builder call can set a message
// object's explicit target, per spec.md §4.1/§4.3.
type TargetKind string

const (
	TargetClassConstant TargetKind = "CLASS_CONSTANT"
	TargetClassName     TargetKind = "CLASS_NAME"
	TargetComponentName TargetKind = "COMPONENT_NAME"
)

// targetSetter describes one IR method recognized as setting an explicit
// target, and which argument slot carries the target value.
type targetSetter struct {
	method   string
	kind     TargetKind
	argIndex int
}

// targetSetters is the closed table of builder calls that set an explicit
// dispatch target (spec.md §4.1 step 2, §4.3). It is deliberately closed:
// any call not named here is treated as not contributing to the target.
var targetSetters = map[string]targetSetter{
	"setClass":     {method: "setClass", kind: TargetClassConstant, argIndex: 1},
	"setClassName": {method: "setClassName", kind: TargetClassName, argIndex: 1},
	"setComponent": {method: "setComponent", kind: TargetComponentName, argIndex: 0},
}

func lookupTargetSetter(name string) (targetSetter, bool) {
	s, ok := targetSetters[name]
	return s, ok
}

// filterSetters is the closed table of non-target builder calls whose
// effect is recorded on a Content: its action/category/data/type slots,
// extras and flags (spec.md §4.1 step 2).
var filterSetters = map[string]bool{
	"setAction":      true,
	"addCategory":    true,
	"setData":        true,
	"setType":        true,
	"setDataAndType": true,
	"putExtra":       true,
	"addFlags":       true,
	"setFlags":       true,
}

func isFilterSetter(name string) bool { return filterSetters[name] }
