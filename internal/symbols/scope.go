package symbols

import (
	"icuc/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeModule            // one per compiled module, holds hoisted constants
	ScopeMessage           // one per message function
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeMessage:
		return "message"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	NameIndex map[string]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
