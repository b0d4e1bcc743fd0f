package compiler

import (
	"fmt"

	"icuc/internal/jsast"
)

// Case is one branch of a conditional chain.
type Case struct {
	Test       *jsast.Expr
	Consequent *jsast.Expr
}

// BuildTernaryChain folds cases into nested conditionals, first case
// outermost, ending in alternate.
func BuildTernaryChain(cases []Case, alternate *jsast.Expr) *jsast.Expr {
	out := alternate
	for i := len(cases) - 1; i >= 0; i-- {
		out = jsast.Conditional(cases[i].Test, cases[i].Consequent, out)
	}
	return out
}

// BuildBinaryChain left-folds operands with op. It needs at least two operands.
func BuildBinaryChain(op jsast.BinaryOp, operands ...*jsast.Expr) *jsast.Expr {
	if len(operands) < 2 {
		panic(fmt.Sprintf("compiler: binary chain needs at least 2 operands, got %d", len(operands)))
	}
	out := operands[0]
	for _, e := range operands[1:] {
		out = jsast.Binary(op, out, e)
	}
	return out
}

// BuildMarkupElement clones tag with new children: ns.cloneElement(tag,
// undefined, children). A nil children keeps the element's own children.
func BuildMarkupElement(ns, tag, children *jsast.Expr) *jsast.Expr {
	callee := jsast.Member(ns, "cloneElement")
	if children == nil {
		return jsast.Call(callee, tag)
	}
	return jsast.Call(callee, tag, jsast.Undefined(), children)
}
