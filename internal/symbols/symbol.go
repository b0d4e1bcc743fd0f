package symbols

import (
	"icuc/internal/source"
)

// SymbolKind classifies what a binding holds in generated code.
type SymbolKind uint8

const (
	SymbolInvalid  SymbolKind = iota
	SymbolImport              // namespace import such as React
	SymbolConst               // hoisted constant (formatter, plural rules, derived value)
	SymbolFunction            // message function
	SymbolParam               // destructured message argument
	SymbolGlobal              // platform global the generated code reads, such as Intl
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolImport:
		return "import"
	case SymbolConst:
		return "const"
	case SymbolFunction:
		return "function"
	case SymbolParam:
		return "param"
	case SymbolGlobal:
		return "global"
	default:
		return "invalid"
	}
}

// Symbol is a single name bound in a scope.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
}
