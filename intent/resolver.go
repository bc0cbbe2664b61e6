package intent

import (
	"fmt"

	"github.com/pathsentinel/icc/ir"
)

// ExtractIntentContents is IntentAnalysisHelper.extractIntentContents
// (spec.md §4.1): it collects the NewExpr allocation sites reaching value at
// atStmt, then for each one walks forward through every builder call made on
// the resulting object (same local, no intervening redefinition) to recover
// the target/action/category/data/extras it accumulates.
//
// A value with no reaching NewExpr definition (parameter-sourced,
// field-sourced, returned from a call, etc.) yields a single imprecise,
// implicit Content with every slot empty, matching the "give up, not crash"
// posture of spec.md §7.
func ExtractIntentContents(value ir.Local, atStmt *ir.Statement, body *ir.Body) []*Content {
	defs := body.DefsOfAt(value.Name, atStmt)

	var newSites []*ir.Statement
	for _, d := range defs {
		if d.Kind != ir.KindAssign {
			continue
		}
		if _, ok := d.RHS.Value.(ir.NewExpr); ok {
			newSites = append(newSites, d)
		}
	}
	if len(newSites) == 0 {
		c := newContent()
		c.Precise = false
		return []*Content{c}
	}

	out := make([]*Content, 0, len(newSites))
	for _, site := range newSites {
		out = append(out, walkNewSite(site, body))
	}
	return out
}

// walkNewSite performs the forward half of the walk: every use of the
// allocated local whose use site is exactly the base of an invocation is a
// builder call and is interpreted per the closed tables in methods.go.
func walkNewSite(site *ir.Statement, body *ir.Body) *Content {
	c := newContent()
	if _, ok := site.LHS.Value.(ir.Local); !ok {
		c.Precise = false
		return c
	}
	for _, use := range body.UsesOf(site) {
		inv, ok := use.Stmt.InvokeExprOf()
		if !ok || inv.Base != use.Box {
			continue
		}
		applyBuilderCall(c, inv, use.Stmt, body)
	}
	return c
}

func applyBuilderCall(c *Content, inv ir.InvokeExpr, atStmt *ir.Statement, body *ir.Body) {
	name := inv.Method.Name
	if setter, ok := lookupTargetSetter(name); ok {
		c.Explicit = true
		resolveTarget(c, setter, inv, atStmt, body)
		return
	}
	if !isFilterSetter(name) {
		return
	}
	switch name {
	case "setAction":
		c.addAction(resolveStringArg(inv.Arg(0), atStmt, body, c))
	case "addCategory":
		c.addCategory(resolveStringArg(inv.Arg(0), atStmt, body, c))
	case "setData":
		c.addData(resolveUriArg(inv, 0, atStmt, body, c))
	case "setType":
		d := anyUriData()
		d.MimeType = resolveStringArg(inv.Arg(0), atStmt, body, c)
		c.addData(d)
	case "setDataAndType":
		d := resolveUriArg(inv, 0, atStmt, body, c)
		d.MimeType = resolveStringArg(inv.Arg(1), atStmt, body, c)
		c.addData(d)
	case "putExtra":
		key := resolveStringArg(inv.Arg(0), atStmt, body, c)
		c.putExtra(key, classifyExtraValue(inv.Arg(1)))
	case "addFlags", "setFlags":
		c.addFlag(resolveStringArg(inv.Arg(0), atStmt, body, c))
	}
}

// resolveStringConst is the pure (side-effect free) backward constant walk
// shared by every slot resolver: follow a Local to its unique reaching
// definition and recurse, succeeding only on a literal StringConstant.
func resolveStringConst(v ir.Value, atStmt *ir.Statement, body *ir.Body) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case ir.StringConstant:
		return val.Value, true
	case ir.Local:
		defs := body.DefsOfAt(val.Name, atStmt)
		if len(defs) != 1 {
			return "", false
		}
		d := defs[0]
		if d.Kind != ir.KindAssign {
			return "", false
		}
		return resolveStringConst(d.RHS.Value, d, body)
	default:
		return "", false
	}
}

func resolveStringArg(v ir.Value, atStmt *ir.Statement, body *ir.Body, c *Content) string {
	s, ok := resolveStringConst(v, atStmt, body)
	if !ok {
		c.Precise = false
		return AnyToken
	}
	return s
}

// resolveClassConstant follows a Local back to a literal ClassConstant
// (the `Foo.class` site of setClass's target argument).
func resolveClassConstant(v ir.Value, atStmt *ir.Statement, body *ir.Body) (string, bool) {
	switch val := v.(type) {
	case ir.ClassConstant:
		return val.Name, true
	case ir.Local:
		defs := body.DefsOfAt(val.Name, atStmt)
		if len(defs) != 1 {
			return "", false
		}
		d := defs[0]
		if d.Kind != ir.KindAssign {
			return "", false
		}
		return resolveClassConstant(d.RHS.Value, d, body)
	default:
		return "", false
	}
}

// resolveComponentNameValue implements spec.md §4.3's target-class recovery
// from a ComponentName object: recurse into the local's own definition to
// find the package+class string-constant arguments of its
// ComponentName.<init>(String, String) constructor call.
func resolveComponentNameValue(v ir.Value, atStmt *ir.Statement, body *ir.Body) (string, bool) {
	local, ok := v.(ir.Local)
	if !ok {
		return "", false
	}
	defs := body.DefsOfAt(local.Name, atStmt)
	if len(defs) != 1 {
		return "", false
	}
	d := defs[0]
	if d.Kind != ir.KindAssign {
		return "", false
	}
	inv, ok := d.RHS.Value.(ir.InvokeExpr)
	if !ok || inv.Method.Name != "<init>" || len(inv.Args) < 2 {
		return "", false
	}
	pkg, ok1 := resolveStringConst(inv.Arg(0), d, body)
	cls, ok2 := resolveStringConst(inv.Arg(1), d, body)
	if !ok1 || !ok2 {
		return "", false
	}
	return pkg + "." + cls, true
}

func resolveTarget(c *Content, setter targetSetter, inv ir.InvokeExpr, atStmt *ir.Statement, body *ir.Body) {
	argVal := inv.Arg(setter.argIndex)
	if argVal == nil {
		c.Precise = false
		return
	}
	switch setter.kind {
	case TargetClassConstant:
		name, ok := resolveClassConstant(argVal, atStmt, body)
		if !ok {
			c.Precise = false
			return
		}
		c.addComponentName(name)
	case TargetClassName:
		if len(inv.Args) < 2 {
			c.Precise = false
			return
		}
		pkg := resolveStringArg(inv.Arg(0), atStmt, body, c)
		cls := resolveStringArg(inv.Arg(1), atStmt, body, c)
		if pkg == AnyToken || cls == AnyToken {
			return
		}
		c.addComponentName(pkg + "." + cls)
	case TargetComponentName:
		name, ok := resolveComponentNameValue(argVal, atStmt, body)
		if !ok {
			c.Precise = false
			return
		}
		c.addComponentName(name)
	}
}

func resolveUriArg(inv ir.InvokeExpr, idx int, atStmt *ir.Statement, body *ir.Body, c *Content) UriData {
	v := inv.Arg(idx)
	if v == nil {
		c.Precise = false
		return anyUriData()
	}
	d := resolveUriValue(v, atStmt, body)
	if d.Scheme == AnyToken || d.Host == AnyToken || d.Path == AnyToken {
		c.Precise = false
	}
	return d
}

// ResolveUri exposes UriAnalysis directly for callers outside this package
// that need to resolve a bare Uri-typed value (e.g. the ContentProvider
// patcher resolving a ContentResolver call's first argument, which carries
// a Uri rather than an Intent).
func ResolveUri(v ir.Value, atStmt *ir.Statement, body *ir.Body) UriData {
	return resolveUriValue(v, atStmt, body)
}

// resolveUriValue is UriAnalysis: a constant walk over Uri.parse(String)
// arguments, following Locals back through their reaching definition.
func resolveUriValue(v ir.Value, atStmt *ir.Statement, body *ir.Body) UriData {
	switch val := v.(type) {
	case ir.StringConstant:
		return parseUriString(val.Value)
	case ir.Local:
		defs := body.DefsOfAt(val.Name, atStmt)
		if len(defs) != 1 {
			return anyUriData()
		}
		d := defs[0]
		if d.Kind != ir.KindAssign {
			return anyUriData()
		}
		return resolveUriValue(d.RHS.Value, d, body)
	case ir.InvokeExpr:
		if val.Method.Name == "parse" && len(val.Args) >= 1 {
			return resolveUriValue(val.Arg(0), atStmt, body)
		}
		return anyUriData()
	default:
		return anyUriData()
	}
}

func classifyExtraValue(v ir.Value) ExtraValue {
	switch val := v.(type) {
	case ir.StringConstant:
		return ExtraValue{Origin: OriginConstant, Literal: val.Value}
	case ir.IntConstant:
		return ExtraValue{Origin: OriginConstant, Literal: fmt.Sprintf("%d", val.Value)}
	case ir.ParameterRef:
		return ExtraValue{Origin: OriginParam}
	default:
		return ExtraValue{Origin: OriginLocal}
	}
}

// ResolveTargetClasses narrows the component names recovered across contents
// to those the scene can actually confirm exist, per spec.md §4.3's
// qualification rule: a class-name string only counts as a target if the
// named class is already loaded in the scene.
func ResolveTargetClasses(scene ir.IRProvider, contents []*Content) []string {
	set := newStringSet()
	for _, c := range contents {
		for _, name := range c.ComponentNames() {
			if _, ok := scene.LookupClass(name); ok {
				set.add(name)
			}
		}
	}
	return set.slice()
}
