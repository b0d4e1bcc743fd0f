package codegen

import (
	"strings"

	"icuc/internal/jsast"
	"icuc/internal/skeleton"
	"icuc/internal/symbols"
)

// Operator precedence levels, higher binds tighter.
const (
	precLowest      = 0
	precConditional = 2
	precEquality    = 10
	precAdditive    = 13
	precUnary       = 15
	precCall        = 18
	precPrimary     = 20
)

type printer struct {
	e    *emitter
	opts Options
}

type stmtGroup uint8

const (
	groupNone stmtGroup = iota
	groupImport
	groupConst
	groupFunction
	groupExport
)

func groupOf(s jsast.Stmt) stmtGroup {
	switch s.(type) {
	case *jsast.ImportNamespace:
		return groupImport
	case *jsast.VarDecl:
		return groupConst
	case *jsast.FunctionDecl:
		return groupFunction
	case *jsast.ExportList:
		return groupExport
	default:
		return groupNone
	}
}

func (p *printer) program(prog *jsast.Program) {
	prev := groupNone
	for _, s := range prog.Body {
		g := groupOf(s)
		// blank line between groups and between functions
		if prev != groupNone && (g != prev || g == groupFunction) {
			p.e.println("")
		}
		p.stmt(s)
		prev = g
	}
}

func (p *printer) stmt(s jsast.Stmt) {
	switch s := s.(type) {
	case *jsast.ImportNamespace:
		p.e.println("import * as " + s.Local + " from " + quote(s.Source) + ";")
	case *jsast.VarDecl:
		p.e.print("const " + s.Name + " = ")
		p.expr(s.Init, precConditional)
		p.e.println(";")
	case *jsast.Return:
		p.e.print("return ")
		p.expr(s.Value, precLowest)
		p.e.println(";")
	case *jsast.FunctionDecl:
		p.function(s)
	case *jsast.ExportList:
		p.e.println("export " + exportClause(s) + ";")
	}
}

func (p *printer) function(fn *jsast.FunctionDecl) {
	p.e.print("function " + fn.Name + "(")
	if len(fn.Params) > 0 {
		p.e.print(destructuring(fn.Params))
		if p.opts.TypeScript {
			p.e.print(": " + paramsType(fn.Params))
		}
	}
	p.e.print(")")
	if p.opts.TypeScript && fn.ReturnType != "" {
		p.e.print(": " + fn.ReturnType)
	}
	p.e.println(" {")
	p.e.incIndent()
	for _, s := range fn.Body {
		p.stmt(s)
	}
	p.e.decIndent()
	p.e.println("}")
}

// destructuring renders `{ a, default: _default }`.
func destructuring(params []jsast.Param) string {
	parts := make([]string, 0, len(params))
	for _, prm := range params {
		if prm.Local == "" || prm.Local == prm.Name {
			parts = append(parts, prm.Name)
			continue
		}
		parts = append(parts, propertyKey(prm.Name)+": "+prm.Local)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// paramsType renders the object type of the destructured argument.
func paramsType(params []jsast.Param) string {
	parts := make([]string, 0, len(params))
	for _, prm := range params {
		typ := prm.Type
		if typ == "" {
			typ = "unknown"
		}
		parts = append(parts, propertyKey(prm.Name)+": "+typ)
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func exportClause(list *jsast.ExportList) string {
	if len(list.Specifiers) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(list.Specifiers))
	for _, es := range list.Specifiers {
		switch {
		case es.Exported == "" || es.Exported == es.Local:
			parts = append(parts, es.Local)
		case symbols.IsIdentifier(es.Exported):
			parts = append(parts, es.Local+" as "+es.Exported)
		default:
			parts = append(parts, es.Local+" as "+quote(es.Exported))
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func precedence(e *jsast.Expr) int {
	switch data := e.Data.(type) {
	case jsast.NumberData:
		if data.Value < 0 {
			return precUnary
		}
		return precPrimary
	case jsast.MemberData, jsast.CallData:
		return precCall
	case jsast.BinaryData:
		if data.Op == jsast.OpStrictEq {
			return precEquality
		}
		return precAdditive
	case jsast.ConditionalData:
		return precConditional
	default:
		return precPrimary
	}
}

// expr prints e, parenthesized when it binds looser than minPrec.
func (p *printer) expr(e *jsast.Expr, minPrec int) {
	if e == nil {
		p.e.print("undefined")
		return
	}
	if precedence(e) < minPrec {
		p.e.print("(")
		p.expr(e, precLowest)
		p.e.print(")")
		return
	}
	switch data := e.Data.(type) {
	case jsast.StringData:
		p.e.print(quote(data.Value))
	case jsast.NumberData:
		p.e.print(skeleton.FormatNumber(data.Value))
	case jsast.BoolData:
		if data.Value {
			p.e.print("true")
		} else {
			p.e.print("false")
		}
	case jsast.IdentData:
		p.e.print(data.Name)
	case jsast.MemberData:
		if data.Object != nil && data.Object.Kind == jsast.ExprNumber {
			p.e.print("(")
			p.expr(data.Object, precLowest)
			p.e.print(")")
		} else {
			p.expr(data.Object, precCall)
		}
		if symbols.IsIdentifier(data.Property) {
			p.e.print("." + data.Property)
		} else {
			p.e.print("[" + quote(data.Property) + "]")
		}
	case jsast.CallData:
		if e.Kind == jsast.ExprNew {
			p.e.print("new ")
			if data.Callee != nil && data.Callee.Kind == jsast.ExprCall {
				p.e.print("(")
				p.expr(data.Callee, precLowest)
				p.e.print(")")
			} else {
				p.expr(data.Callee, precCall)
			}
		} else {
			p.expr(data.Callee, precCall)
		}
		p.args(data.Args)
	case jsast.BinaryData:
		prec := precedence(e)
		p.expr(data.Left, prec)
		p.e.print(" " + data.Op.String() + " ")
		p.expr(data.Right, prec+1)
	case jsast.ConditionalData:
		p.expr(data.Test, precConditional+1)
		p.e.print(" ? ")
		p.expr(data.Consequent, precConditional)
		p.e.print(" : ")
		p.expr(data.Alternate, precConditional)
	case jsast.ObjectData:
		p.object(data)
	case jsast.FragmentData:
		p.fragment(data)
	}
}

func (p *printer) args(args []*jsast.Expr) {
	p.e.print("(")
	for i, a := range args {
		if i > 0 {
			p.e.print(", ")
		}
		p.expr(a, precConditional)
	}
	p.e.print(")")
}

func (p *printer) object(data jsast.ObjectData) {
	if len(data.Props) == 0 {
		p.e.print("{}")
		return
	}
	p.e.print("{ ")
	for i, prop := range data.Props {
		if i > 0 {
			p.e.print(", ")
		}
		p.e.print(propertyKey(prop.Key) + ": ")
		p.expr(prop.Value, precConditional)
	}
	p.e.print(" }")
}

func (p *printer) fragment(data jsast.FragmentData) {
	if p.opts.JSX == JSXClassic {
		ns := jsast.Ident(p.opts.namespace())
		args := make([]*jsast.Expr, 0, len(data.Children)+2)
		args = append(args, jsast.Member(ns, "Fragment"), jsast.Ident("null"))
		for _, child := range data.Children {
			if child.Kind == jsast.JSXText {
				args = append(args, jsast.String(child.Text))
				continue
			}
			args = append(args, child.Expr)
		}
		p.expr(jsast.Call(jsast.Member(ns, "createElement"), args...), precLowest)
		return
	}
	p.e.print("<>")
	for _, child := range data.Children {
		switch {
		case child.Kind == jsast.JSXText && jsxSafeText(child.Text):
			p.e.print(child.Text)
		case child.Kind == jsast.JSXText:
			if child.Text != "" {
				p.e.print("{" + quote(child.Text) + "}")
			}
		default:
			p.e.print("{")
			p.expr(child.Expr, precLowest)
			p.e.print("}")
		}
	}
	p.e.print("</>")
}
