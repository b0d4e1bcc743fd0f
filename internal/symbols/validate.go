package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate checks that parent/child links, name indexes and symbol owners
// agree. All problems found are joined into one error.
func (t *Table) Validate() error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		id, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.validateLinks(id, report)
		t.validateNames(id, report)
	}
	for idx := 1; idx < len(t.Symbols.data); idx++ {
		id, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sym := &t.Symbols.data[idx]
		owner := t.Scopes.Get(sym.Scope)
		switch {
		case owner == nil:
			report("symbol %d (%q) has invalid scope %d", id, sym.Name, sym.Scope)
		case !slices.Contains(owner.Symbols, id):
			report("symbol %d (%q) is missing from scope %d", id, sym.Name, sym.Scope)
		}
	}
	return errors.Join(errs...)
}

func (t *Table) validateLinks(id ScopeID, report func(string, ...any)) {
	scope := t.Scopes.Get(id)
	if scope.Kind == ScopeInvalid {
		report("scope %d has invalid kind", id)
	}
	if scope.Parent.IsValid() {
		parent := t.Scopes.Get(scope.Parent)
		switch {
		case parent == nil || scope.Parent == id:
			report("scope %d has invalid parent %d", id, scope.Parent)
		case !slices.Contains(parent.Children, id):
			report("scope %d parent %d missing backlink", id, scope.Parent)
		}
	}
	for _, child := range scope.Children {
		c := t.Scopes.Get(child)
		switch {
		case c == nil || child == id:
			report("scope %d has invalid child %d", id, child)
		case c.Parent != id:
			report("scope %d child %d missing parent backlink", id, child)
		}
	}
}

// validateNames: NameIndex and Symbols must describe the same set.
func (t *Table) validateNames(id ScopeID, report func(string, ...any)) {
	scope := t.Scopes.Get(id)
	indexed := make(map[SymbolID]struct{}, len(scope.NameIndex))
	for name, sid := range scope.NameIndex {
		if !slices.Contains(scope.Symbols, sid) {
			report("scope %d name %q references missing symbol %d", id, name, sid)
			continue
		}
		if sym := t.Symbols.Get(sid); sym == nil || sym.Name != name {
			report("scope %d name %q points at symbol %d with another name", id, name, sid)
		}
		indexed[sid] = struct{}{}
	}
	for _, sid := range scope.Symbols {
		if _, ok := indexed[sid]; !ok {
			report("scope %d symbol %d missing in name index", id, sid)
		}
	}
}

func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflow: %w", idx, err)
	}
	return SymbolID(value), nil
}
