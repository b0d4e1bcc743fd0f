package testkit

import (
	"errors"
	"testing"

	"icuc/internal/jsast"
	"icuc/internal/parser"
	"icuc/internal/source"
)

func TestPluralOperands(t *testing.T) {
	tests := []struct {
		n             float64
		i, v, w, f, t int
	}{
		{1, 1, 0, 0, 0, 0},
		{1.5, 1, 1, 1, 5, 5},
		{0.25, 0, 2, 2, 25, 25},
	}
	for _, tt := range tests {
		i, v, w, f, tr := pluralOperands(tt.n)
		if i != tt.i || v != tt.v || w != tt.w || f != tt.f || tr != tt.t {
			t.Errorf("pluralOperands(%v) = %d %d %d %d %d", tt.n, i, v, w, f, tr)
		}
	}
}

func TestPluralRulesSelect(t *testing.T) {
	rules, err := newPluralRules([]any{"en"})
	if err != nil {
		t.Fatal(err)
	}
	pr := rules.(*pluralRules)
	for n, want := range map[float64]string{0: "other", 1: "one", 2: "other", 1.5: "other"} {
		if got := pr.Select(n); got != want {
			t.Errorf("Select(%v) = %q, want %q", n, got, want)
		}
	}
}

func TestNumberFormatCurrency(t *testing.T) {
	tests := []struct {
		opts map[string]any
		v    float64
		want string
	}{
		{map[string]any{"style": "currency", "currency": "EUR"}, 3.5, "€3.50"},
		{map[string]any{"style": "currency", "currency": "USD"}, 1234.5, "$1,234.50"},
		{map[string]any{"style": "currency", "currency": "USD"}, -2, "-$2.00"},
		{map[string]any{"style": "currency", "currency": "EUR", "maximumFractionDigits": 0.0}, 3.5, "€4"},
	}
	for _, tt := range tests {
		nf, err := newNumberFormat([]any{"en", &Object{Values: tt.opts}})
		if err != nil {
			t.Fatal(err)
		}
		if got := nf.(*numberFormat).format(tt.v); got != tt.want {
			t.Errorf("format(%v, %v) = %q, want %q", tt.v, tt.opts, got, tt.want)
		}
	}
}

func TestRuntimeEvaluatesProgram(t *testing.T) {
	prog := &jsast.Program{Body: []jsast.Stmt{
		&jsast.VarDecl{Name: "_rules", Init: jsast.New(jsast.Member(jsast.Ident("Intl"), "PluralRules"), jsast.String("en"))},
		&jsast.FunctionDecl{
			Name:   "items",
			Params: []jsast.Param{{Name: "n", Local: "n"}},
			Body: []jsast.Stmt{
				&jsast.VarDecl{Name: "_c", Init: jsast.Call(jsast.Member(jsast.Ident("_rules"), "select"), jsast.Ident("n"))},
				&jsast.Return{Value: jsast.Conditional(
					jsast.Binary(jsast.OpStrictEq, jsast.Ident("_c"), jsast.String("one")),
					jsast.String("one item"),
					jsast.Binary(jsast.OpAdd, jsast.Ident("n"), jsast.String(" items")),
				)},
			},
		},
		&jsast.ExportList{Specifiers: []jsast.ExportSpecifier{{Local: "items", Exported: "items"}}},
	}}

	rt, err := Load(prog)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for n, want := range map[int]string{1: "one item", 4: "4 items"} {
		v, err := rt.Call("items", map[string]any{"n": n})
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		if Render(v) != want {
			t.Errorf("items(%d) = %q, want %q", n, Render(v), want)
		}
	}
	if _, err := rt.Call("missing", nil); !errors.Is(err, ErrUnknownExport) {
		t.Fatalf("want ErrUnknownExport, got %v", err)
	}
}

func TestRender(t *testing.T) {
	v := &Element{Children: []any{"a ", Tag("b", "bold", Tag("i", 2.0)), nil, true, Tag("br")}}
	if got := Render(v); got != "a <b>bold<i>2</i></b><br/>" {
		t.Fatalf("Render = %q", got)
	}
}

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id, nodes, ok := parser.ParseString(fs, "m", "Hi {n, plural, one {<b>#</b>} other {{x, number, percent}}}!", parser.Options{})
	if !ok {
		t.Fatalf("parse failed")
	}
	if err := CheckSpanInvariants(nodes, fs.Get(id)); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}
