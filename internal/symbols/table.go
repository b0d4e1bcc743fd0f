package symbols

import (
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"icuc/internal/source"
)

// ErrDuplicateBinding reports an attempt to bind a name twice in one scope.
var ErrDuplicateBinding = errors.New("duplicate binding")

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas of one module.
// It is not safe for concurrent use; every module owns its own Table.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	taken   map[string]struct{}
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		taken:   make(map[string]struct{}),
	}
}

// NewScope allocates a scope below parent (NoScopeID for a root).
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(kind, parent, span)
}

// Declare binds name in scope. The name must not already be bound in that exact
// scope; shadowing an ancestor binding is allowed.
func (t *Table) Declare(scope ScopeID, name string, kind SymbolKind, span source.Span) (SymbolID, error) {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, fmt.Errorf("declare %q: unknown scope %d", name, scope)
	}
	if _, ok := s.NameIndex[name]; ok {
		return NoSymbolID, fmt.Errorf("%w: %q in %s scope %d", ErrDuplicateBinding, name, s.Kind, scope)
	}
	id := t.Symbols.New(&Symbol{Name: name, Kind: kind, Scope: scope, Span: span})
	s.NameIndex[name] = id
	s.Symbols = append(s.Symbols, id)
	t.taken[name] = struct{}{}
	return id, nil
}

// CreateBinding binds name in scope and returns it.
func (t *Table) CreateBinding(scope ScopeID, name string, kind SymbolKind) (string, error) {
	if _, err := t.Declare(scope, name, kind, source.Span{}); err != nil {
		return "", err
	}
	return name, nil
}

// Lookup finds name in scope or its ancestors.
func (t *Table) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	for s := t.Scopes.Get(scope); s != nil; s = t.Scopes.Get(s.Parent) {
		if id, ok := s.NameIndex[name]; ok {
			return id, true
		}
	}
	return NoSymbolID, false
}

// HasBinding reports whether name is visible from scope: bound here, in an
// ancestor, or one of the always-bound globals.
func (t *Table) HasBinding(scope ScopeID, name string) bool {
	if IsGlobalBinding(name) {
		return true
	}
	_, ok := t.Lookup(scope, name)
	return ok
}

// GenerateUID returns a fresh identifier derived from base: "_base", then
// "_base_1", "_base_2" and so on. A candidate is rejected when it is visible
// from scope or bound anywhere else in the table. Nothing is bound.
func (t *Table) GenerateUID(scope ScopeID, base string) string {
	stem := "_" + uidStem(base)
	candidate := stem
	for i := 1; t.isTaken(scope, candidate); i++ {
		candidate = stem + "_" + strconv.Itoa(i)
	}
	return candidate
}

// CreateUniqueBinding is GenerateUID followed by CreateBinding.
func (t *Table) CreateUniqueBinding(scope ScopeID, base string, kind SymbolKind) string {
	name := t.GenerateUID(scope, base)
	if _, err := t.CreateBinding(scope, name, kind); err != nil {
		// GenerateUID only returns unbound names
		panic(err)
	}
	return name
}

func (t *Table) isTaken(scope ScopeID, name string) bool {
	if _, ok := t.taken[name]; ok {
		return true
	}
	return t.HasBinding(scope, name) || IsReservedWord(name)
}
