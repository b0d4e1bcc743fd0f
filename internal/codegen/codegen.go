// Package codegen prints jsast programs as JavaScript or TypeScript modules
// and derives .d.ts declarations from them.
package codegen

import (
	"fmt"

	"icuc/internal/jsast"
)

// JSXMode selects how fragments are printed.
type JSXMode uint8

const (
	// JSXPreserve prints <>…</> and leaves JSX to a later tool.
	JSXPreserve JSXMode = iota
	// JSXClassic lowers fragments to React.createElement(React.Fragment, null, …).
	JSXClassic
)

// String returns the flag spelling of the mode.
func (m JSXMode) String() string {
	switch m {
	case JSXPreserve:
		return "preserve"
	case JSXClassic:
		return "classic"
	default:
		return "unknown"
	}
}

// ParseJSXMode parses a --jsx flag value.
func ParseJSXMode(s string) (JSXMode, error) {
	switch s {
	case "", "preserve":
		return JSXPreserve, nil
	case "classic", "react":
		return JSXClassic, nil
	default:
		return JSXPreserve, fmt.Errorf("unknown jsx mode %q (want preserve or classic)", s)
	}
}

// Options control printing.
type Options struct {
	TypeScript bool
	JSX        JSXMode
	// Namespace is the markup namespace identifier used by JSXClassic.
	Namespace string
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return "React"
	}
	return o.Namespace
}

// Print renders prog as module source text.
func Print(prog *jsast.Program, opts Options) string {
	p := &printer{e: newEmitter(), opts: opts}
	p.program(prog)
	return p.e.source()
}

// Extension returns the file extension for generated modules. Programs that
// contain fragments need a JSX-capable extension when fragments are preserved.
func Extension(prog *jsast.Program, opts Options) string {
	jsx := opts.JSX == JSXPreserve && HasFragments(prog)
	switch {
	case opts.TypeScript && jsx:
		return ".tsx"
	case opts.TypeScript:
		return ".ts"
	case jsx:
		return ".jsx"
	default:
		return ".js"
	}
}

// HasFragments reports whether any expression in prog is a JSX fragment.
func HasFragments(prog *jsast.Program) bool {
	found := false
	var walk func(e *jsast.Expr)
	walk = func(e *jsast.Expr) {
		if e == nil || found {
			return
		}
		switch data := e.Data.(type) {
		case jsast.FragmentData:
			found = true
		case jsast.MemberData:
			walk(data.Object)
		case jsast.CallData:
			walk(data.Callee)
			for _, a := range data.Args {
				walk(a)
			}
		case jsast.BinaryData:
			walk(data.Left)
			walk(data.Right)
		case jsast.ConditionalData:
			walk(data.Test)
			walk(data.Consequent)
			walk(data.Alternate)
		case jsast.ObjectData:
			for _, prop := range data.Props {
				walk(prop.Value)
			}
		}
	}
	var stmts func(body []jsast.Stmt)
	stmts = func(body []jsast.Stmt) {
		for _, s := range body {
			switch s := s.(type) {
			case *jsast.VarDecl:
				walk(s.Init)
			case *jsast.Return:
				walk(s.Value)
			case *jsast.FunctionDecl:
				stmts(s.Body)
			}
		}
	}
	stmts(prog.Body)
	return found
}
