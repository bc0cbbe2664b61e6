package intent

import "github.com/pathsentinel/icc/ir"

// IntentFilter is the IntentFilter data type of spec.md §3: the
// action/category/data-scheme criteria a dynamically registered receiver
// declares interest in. A slot containing AnyToken matches anything.
type IntentFilter struct {
	ComponentRole string
	Actions       []string
	Categories    []string
	Data          []UriData
}

// ExtractIntentFilter performs the "localized builder walk over
// addAction/addCategory/addDataScheme" spec.md §4.2 names for the
// register-receiver case: it finds the IntentFilter local's NewExpr
// definition sites reaching atStmt, then walks forward through every call
// made on the resulting object, same shape as ExtractIntentContents but
// over the smaller addAction/addCategory/addDataScheme vocabulary.
func ExtractIntentFilter(value ir.Local, atStmt *ir.Statement, body *ir.Body, componentRole string) IntentFilter {
	f := IntentFilter{ComponentRole: componentRole}
	actions := newStringSet()
	categories := newStringSet()

	for _, d := range body.DefsOfAt(value.Name, atStmt) {
		if d.Kind != ir.KindAssign {
			continue
		}
		if _, ok := d.RHS.Value.(ir.NewExpr); !ok {
			continue
		}
		for _, use := range body.UsesOf(d) {
			inv, ok := use.Stmt.InvokeExprOf()
			if !ok || inv.Base != use.Box {
				continue
			}
			switch inv.Method.Name {
			case "addAction":
				actions.add(resolveFilterArg(inv.Arg(0), use.Stmt, body))
			case "addCategory":
				categories.add(resolveFilterArg(inv.Arg(0), use.Stmt, body))
			case "addDataScheme":
				scheme := resolveFilterArg(inv.Arg(0), use.Stmt, body)
				f.Data = append(f.Data, UriData{Scheme: scheme, Host: AnyToken, Path: AnyToken, MimeType: AnyToken})
			}
		}
	}

	f.Actions = actions.slice()
	f.Categories = categories.slice()
	return f
}

func resolveFilterArg(v ir.Value, atStmt *ir.Statement, body *ir.Body) string {
	s, ok := resolveStringConst(v, atStmt, body)
	if !ok {
		return AnyToken
	}
	return s
}
