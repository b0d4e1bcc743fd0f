package symbols

import (
	"errors"
	"testing"

	"icuc/internal/source"
)

func newModuleAndMessage(t *testing.T) (*Table, ScopeID, ScopeID) {
	t.Helper()
	table := NewTable(Hints{})
	module := table.NewScope(ScopeModule, NoScopeID, source.Span{})
	message := table.NewScope(ScopeMessage, module, source.Span{})
	return table, module, message
}

func TestCreateBindingRejectsDuplicateInSameScope(t *testing.T) {
	table, module, message := newModuleAndMessage(t)

	if _, err := table.CreateBinding(module, "React", SymbolImport); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := table.CreateBinding(module, "React", SymbolImport)
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
	// shadowing an ancestor is allowed
	if _, err := table.CreateBinding(message, "React", SymbolParam); err != nil {
		t.Fatalf("shadowing must be allowed: %v", err)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestHasBindingWalksAncestors(t *testing.T) {
	table, module, message := newModuleAndMessage(t)
	if _, err := table.CreateBinding(module, "_number", SymbolConst); err != nil {
		t.Fatal(err)
	}

	if !table.HasBinding(message, "_number") {
		t.Errorf("binding in parent must be visible from child")
	}
	if _, err := table.CreateBinding(message, "count", SymbolParam); err != nil {
		t.Fatal(err)
	}
	if table.HasBinding(module, "count") {
		t.Errorf("binding in child must not be visible from parent")
	}
	for _, name := range []string{"arguments", "undefined", "Infinity", "NaN"} {
		if !table.HasBinding(module, name) {
			t.Errorf("%s must always be bound", name)
		}
	}
}

func TestGenerateUID(t *testing.T) {
	table, module, message := newModuleAndMessage(t)

	tests := []struct {
		base string
		want string
	}{
		{"number", "_number"},
		{"home.title", "_home_title"},
		{"__x__", "_x"},
		{"a--b", "_a_b"},
		{"", "_ref"},
		{"1st", "_1st"},
	}
	for _, tt := range tests {
		if got := table.GenerateUID(message, tt.base); got != tt.want {
			t.Errorf("GenerateUID(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}

	// side-effect free
	if table.GenerateUID(message, "number") != "_number" {
		t.Fatalf("GenerateUID must not bind")
	}

	first := table.CreateUniqueBinding(module, "number", SymbolConst)
	second := table.CreateUniqueBinding(module, "number", SymbolConst)
	third := table.CreateUniqueBinding(message, "number", SymbolConst)
	if first != "_number" || second != "_number_1" || third != "_number_2" {
		t.Fatalf("unexpected names: %s %s %s", first, second, third)
	}
}

func TestGenerateUIDAvoidsNamesBoundInSiblingScopes(t *testing.T) {
	table, module, message := newModuleAndMessage(t)
	other := table.NewScope(ScopeMessage, module, source.Span{})

	if _, err := table.CreateBinding(other, "_n_offset", SymbolConst); err != nil {
		t.Fatal(err)
	}
	// a module constant named _n_offset would shadow the sibling's binding
	if got := table.GenerateUID(module, "n_offset"); got != "_n_offset_1" {
		t.Fatalf("expected sibling binding to be avoided, got %s", got)
	}
	if got := table.GenerateUID(message, "n_offset"); got != "_n_offset_1" {
		t.Fatalf("expected sibling binding to be avoided, got %s", got)
	}
}

func TestIdentifierHelpers(t *testing.T) {
	tests := []struct {
		name       string
		identifier bool
		bindable   bool
	}{
		{"count", true, true},
		{"$el", true, true},
		{"grüße", true, true},
		{"default", true, false},
		{"undefined", true, false},
		{"home.title", false, false},
		{"my-link", false, false},
		{"9lives", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.name); got != tt.identifier {
			t.Errorf("IsIdentifier(%q) = %v", tt.name, got)
		}
		if got := IsBindableName(tt.name); got != tt.bindable {
			t.Errorf("IsBindableName(%q) = %v", tt.name, got)
		}
	}
}

func TestValidateDetectsBrokenBacklink(t *testing.T) {
	table, module, _ := newModuleAndMessage(t)
	table.Scopes.Get(module).Children = nil
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
