package codegen

import "icuc/internal/jsast"

// Declarations renders a .d.ts module describing the exported functions of
// prog. Hoisted constants are private and do not appear.
func Declarations(prog *jsast.Program) string {
	e := newEmitter()
	wrote := false
	for _, s := range prog.Body {
		if imp, ok := s.(*jsast.ImportNamespace); ok {
			e.println("import type * as " + imp.Local + " from " + quote(imp.Source) + ";")
			wrote = true
		}
	}
	if wrote {
		e.println("")
	}
	for _, s := range prog.Body {
		fn, ok := s.(*jsast.FunctionDecl)
		if !ok {
			continue
		}
		ret := fn.ReturnType
		if ret == "" {
			ret = "string"
		}
		e.print("declare function " + fn.Name + "(")
		if len(fn.Params) > 0 {
			e.print("args: " + paramsType(fn.Params))
		}
		e.println("): " + ret + ";")
	}
	for _, s := range prog.Body {
		if list, ok := s.(*jsast.ExportList); ok {
			e.println("")
			e.println("export " + exportClause(list) + ";")
		}
	}
	return e.source()
}
