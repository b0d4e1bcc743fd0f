package testkit

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"icuc/internal/jsast"
	"icuc/internal/skeleton"
)

// ErrUnknownExport is returned by Call for names the program does not export.
var ErrUnknownExport = errors.New("unknown export")

// builtin is a host function callable from generated code.
type builtin func(args []any) (any, error)

// constructor is a host class instantiable with new.
type constructor func(args []any) (any, error)

// object is a plain host object with named members.
type object map[string]any

// Object is an evaluated object literal with keys in source order.
type Object struct {
	Keys   []string
	Values map[string]any
}

// env is a lexical environment of the evaluated program.
type env struct {
	parent *env
	vars   map[string]any
}

func (e *env) lookup(name string) (any, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Runtime evaluates compiled message programs. It understands exactly the
// subset of JavaScript the compiler emits and backs Intl with x/text.
type Runtime struct {
	module  *env
	funcs   map[string]*jsast.FunctionDecl
	exports map[string]string
}

// Load evaluates the program's imports and hoisted constants.
func Load(prog *jsast.Program) (*Runtime, error) {
	globals := &env{vars: map[string]any{
		"Intl":      intlNamespace(),
		"undefined": nil,
		"null":      nil,
		"NaN":       math.NaN(),
		"Infinity":  math.Inf(1),
	}}
	r := &Runtime{
		module:  &env{parent: globals, vars: make(map[string]any)},
		funcs:   make(map[string]*jsast.FunctionDecl),
		exports: make(map[string]string),
	}
	for _, s := range prog.Body {
		switch s := s.(type) {
		case *jsast.ImportNamespace:
			if s.Source != "react" {
				return nil, fmt.Errorf("import of %q is not supported", s.Source)
			}
			r.module.vars[s.Local] = reactNamespace()
		case *jsast.VarDecl:
			v, err := r.eval(s.Init, r.module)
			if err != nil {
				return nil, fmt.Errorf("const %s: %w", s.Name, err)
			}
			r.module.vars[s.Name] = v
		case *jsast.FunctionDecl:
			r.funcs[s.Name] = s
		case *jsast.ExportList:
			for _, es := range s.Specifiers {
				r.exports[es.Exported] = es.Local
			}
		default:
			return nil, fmt.Errorf("unexpected top-level statement %T", s)
		}
	}
	return r, nil
}

// Exports lists exported names.
func (r *Runtime) Exports() []string {
	out := make([]string, 0, len(r.exports))
	for name := range r.exports {
		out = append(out, name)
	}
	return out
}

// Call invokes an exported message function. Missing arguments are undefined.
// Numbers may be passed as any Go integer or float type.
func (r *Runtime) Call(export string, args map[string]any) (any, error) {
	local, ok := r.exports[export]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExport, export)
	}
	fn, ok := r.funcs[local]
	if !ok {
		return nil, fmt.Errorf("export %q refers to missing function %q", export, local)
	}
	scope := &env{parent: r.module, vars: make(map[string]any, len(fn.Params))}
	for _, p := range fn.Params {
		local := p.Local
		if local == "" {
			local = p.Name
		}
		scope.vars[local] = normalizeArg(args[p.Name])
	}
	for _, s := range fn.Body {
		switch s := s.(type) {
		case *jsast.VarDecl:
			v, err := r.eval(s.Init, scope)
			if err != nil {
				return nil, fmt.Errorf("%s: const %s: %w", export, s.Name, err)
			}
			scope.vars[s.Name] = v
		case *jsast.Return:
			return r.eval(s.Value, scope)
		default:
			return nil, fmt.Errorf("%s: unexpected statement %T", export, s)
		}
	}
	return nil, nil
}

func normalizeArg(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case float32:
		return float64(n)
	case func(string) string:
		return builtin(func(args []any) (any, error) {
			if len(args) == 0 {
				return n(""), nil
			}
			return n(toString(args[0])), nil
		})
	}
	return v
}

func (r *Runtime) eval(e *jsast.Expr, scope *env) (any, error) {
	if e == nil {
		return nil, nil
	}
	switch data := e.Data.(type) {
	case jsast.StringData:
		return data.Value, nil
	case jsast.NumberData:
		return data.Value, nil
	case jsast.BoolData:
		return data.Value, nil
	case jsast.IdentData:
		v, ok := scope.lookup(data.Name)
		if !ok {
			return nil, fmt.Errorf("%s is not defined", data.Name)
		}
		return v, nil
	case jsast.MemberData:
		obj, err := r.eval(data.Object, scope)
		if err != nil {
			return nil, err
		}
		return member(obj, data.Property)
	case jsast.CallData:
		callee, err := r.eval(data.Callee, scope)
		if err != nil {
			return nil, err
		}
		args := make([]any, 0, len(data.Args))
		for _, a := range data.Args {
			v, err := r.eval(a, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		if e.Kind == jsast.ExprNew {
			ctor, ok := callee.(constructor)
			if !ok {
				return nil, fmt.Errorf("%T is not a constructor", callee)
			}
			return ctor(args)
		}
		fn, ok := callee.(builtin)
		if !ok {
			return nil, fmt.Errorf("%T is not a function", callee)
		}
		return fn(args)
	case jsast.BinaryData:
		left, err := r.eval(data.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := r.eval(data.Right, scope)
		if err != nil {
			return nil, err
		}
		return binary(data.Op, left, right)
	case jsast.ConditionalData:
		test, err := r.eval(data.Test, scope)
		if err != nil {
			return nil, err
		}
		if truthy(test) {
			return r.eval(data.Consequent, scope)
		}
		return r.eval(data.Alternate, scope)
	case jsast.ObjectData:
		obj := &Object{Values: make(map[string]any, len(data.Props))}
		for _, p := range data.Props {
			v, err := r.eval(p.Value, scope)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.Values[p.Key]; !dup {
				obj.Keys = append(obj.Keys, p.Key)
			}
			obj.Values[p.Key] = v
		}
		return obj, nil
	case jsast.FragmentData:
		el := &Element{}
		for _, child := range data.Children {
			if child.Kind == jsast.JSXText {
				el.Children = append(el.Children, child.Text)
				continue
			}
			v, err := r.eval(child.Expr, scope)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, v)
		}
		return el, nil
	default:
		return nil, fmt.Errorf("unsupported expression %s", e.Kind)
	}
}

func member(obj any, prop string) (any, error) {
	switch o := obj.(type) {
	case object:
		if v, ok := o[prop]; ok {
			return v, nil
		}
		return nil, nil
	case interface{ member(string) (any, bool) }:
		if v, ok := o.member(prop); ok {
			return v, nil
		}
		return nil, nil
	case nil:
		return nil, fmt.Errorf("cannot read %q of undefined", prop)
	default:
		return nil, nil
	}
}

func binary(op jsast.BinaryOp, left, right any) (any, error) {
	switch op {
	case jsast.OpAdd:
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			return toString(left) + toString(right), nil
		}
		return toNumber(left) + toNumber(right), nil
	case jsast.OpSub:
		return toNumber(left) - toNumber(right), nil
	case jsast.OpStrictEq:
		return strictEqual(left, right), nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", op)
	}
}

func strictEqual(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case nil:
		return b == nil
	default:
		return a == b
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case nil:
		return math.NaN()
	default:
		if d, ok := asDate(v); ok {
			return float64(d.UnixMilli())
		}
		return math.NaN()
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return skeleton.FormatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "undefined"
	case *Element:
		return Render(x)
	default:
		return fmt.Sprint(x)
	}
}
