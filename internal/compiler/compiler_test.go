package compiler

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"icuc/internal/ast"
	"icuc/internal/codegen"
	"icuc/internal/diag"
	"icuc/internal/jsast"
	"icuc/internal/skeleton"
	"icuc/internal/source"
	"icuc/internal/testkit"
)

const greet = "Hi {name}, you have {count, plural, =0 {no messages} one {one message} other {# messages}}."

func compileOne(t *testing.T, target Target, text string) *Result {
	t.Helper()
	res, err := Compile([]Message{{Name: "msg", Text: text}}, Options{Target: target})
	if err != nil {
		t.Fatalf("compile %q: %v", text, err)
	}
	return res
}

func render(t *testing.T, res *Result, export string, args map[string]any) string {
	t.Helper()
	out, err := testkit.RenderMessage(res.Program, export, args)
	if err != nil {
		t.Fatalf("render %s: %v", export, err)
	}
	return out
}

func compileErr(t *testing.T, target Target, text string) *Error {
	t.Helper()
	_, err := Compile([]Message{{Name: "msg", Text: text}}, Options{Target: target})
	if err == nil {
		t.Fatalf("compile %q: expected error", text)
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("compile %q: want *Error, got %T: %v", text, err, err)
	}
	return cerr
}

func TestGreetEndToEnd(t *testing.T) {
	for _, target := range []Target{TargetString, TargetTree} {
		t.Run(target.String(), func(t *testing.T) {
			res, err := Compile([]Message{{Name: "greet", Text: greet}}, Options{Locale: "en", Target: target})
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			tests := []struct {
				count int
				want  string
			}{
				{3, "Hi Ann, you have 3 messages."},
				{0, "Hi Ann, you have no messages."},
				{1, "Hi Ann, you have one message."},
			}
			for _, tt := range tests {
				got := render(t, res, "greet", map[string]any{"name": "Ann", "count": tt.count})
				if got != tt.want {
					t.Errorf("count=%d: got %q, want %q", tt.count, got, tt.want)
				}
			}
		})
	}
}

func TestGreetProgram(t *testing.T) {
	res, err := Compile([]Message{{Name: "greet", Text: greet}}, Options{Target: TargetString})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := codegen.Print(res.Program, codegen.Options{})
	want := `const _pluralRules = new Intl.PluralRules("en");
const _number = new Intl.NumberFormat("en");

function greet({ name, count }) {
  const _count_category = _pluralRules.select(count);
  const _count_number = _number.format(count);
  return "Hi " + name + ", you have " + (count === 0 ? "no messages" : _count_category === "one" ? "one message" : _count_number + " messages") + ".";
}

export { greet };
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}

	wantArgs := map[string][]Argument{"greet": {
		{Name: "name", Local: "name", Type: TypeText},
		{Name: "count", Local: "count", Type: TypeNumber},
	}}
	if diff := cmp.Diff(wantArgs, res.Arguments); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeTargetProgram(t *testing.T) {
	res := compileOne(t, TargetTree, "Click <b>here</b>, {name}")
	got := codegen.Print(res.Program, codegen.Options{})
	want := `import * as React from "react";

function msg({ b, name }) {
  return <>Click {React.cloneElement(b, undefined, "here")}, {name}</>;
}

export { msg };
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}
	out := render(t, res, "msg", map[string]any{"b": testkit.Tag("b"), "name": "Ann"})
	if out != "Click <b>here</b>, Ann" {
		t.Fatalf("render: %q", out)
	}
}

func TestSharedValueDedup(t *testing.T) {
	res := compileOne(t, TargetString, "{score, number, percent} and again {score, number, percent}")

	var moduleConsts, formatted int
	for _, s := range res.Program.Body {
		switch s := s.(type) {
		case *jsast.VarDecl:
			moduleConsts++
		case *jsast.FunctionDecl:
			for _, b := range s.Body {
				if _, ok := b.(*jsast.VarDecl); ok {
					formatted++
				}
			}
		}
	}
	if moduleConsts != 1 || formatted != 1 {
		t.Fatalf("want 1 formatter and 1 formatted value, got %d and %d", moduleConsts, formatted)
	}
	if got := render(t, res, "msg", map[string]any{"score": 0.5}); got != "50% and again 50%" {
		t.Fatalf("render: %q", got)
	}
}

func TestFormatterSharedAcrossMessagesAndSpellings(t *testing.T) {
	res, err := Compile([]Message{
		{Name: "a", Text: "{p, number, percent}"},
		{Name: "b", Text: "{q, number, ::percent}"},
	}, Options{Target: TargetString})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	src := codegen.Print(res.Program, codegen.Options{})
	if n := strings.Count(src, "new Intl.NumberFormat"); n != 1 {
		t.Fatalf("want one shared formatter, got %d:\n%s", n, src)
	}
}

func TestRendering(t *testing.T) {
	tests := []struct {
		name string
		text string
		args map[string]any
		want string
	}{
		{"exact before category", "{n, plural, =0 {Z} one {O} other {X}}", map[string]any{"n": 0}, "Z"},
		{"category", "{n, plural, =0 {Z} one {O} other {X}}", map[string]any{"n": 1}, "O"},
		{"numbers concatenate", "{a}{b}", map[string]any{"a": 2, "b": 3}, "23"},
		{"nested pound", "{x, plural, other {#-{y, plural, other {#}}-#}}", map[string]any{"x": 1, "y": 2}, "1-2-1"},
		{"pound through select", "{n, plural, other {{g, select, other {# items}}}}", map[string]any{"n": 4, "g": "x"}, "4 items"},
		{"select other first", "{g, select, other {They} female {She}}", map[string]any{"g": "female"}, "She"},
		{"select falls to other", "{g, select, other {They} female {She}}", map[string]any{"g": "male"}, "They"},
		{"offset exact uses raw value", offsetMsg, map[string]any{"n": 1, "who": "Ann"}, "just Ann"},
		{"offset category", offsetMsg, map[string]any{"n": 2, "who": "Ann"}, "Ann and 1 other"},
		{"offset pound", offsetMsg, map[string]any{"n": 3, "who": "Ann"}, "Ann and 2 others"},
		{"ordinal one", ordinalMsg, map[string]any{"n": 21}, "21st"},
		{"ordinal two", ordinalMsg, map[string]any{"n": 2}, "2nd"},
		{"ordinal few", ordinalMsg, map[string]any{"n": 23}, "23rd"},
		{"ordinal teen", ordinalMsg, map[string]any{"n": 11}, "11th"},
		{"grouping", "{n, number}", map[string]any{"n": 1234567}, "1,234,567"},
		{"integer preset", "{n, number, integer}", map[string]any{"n": 2.7}, "3"},
		{"date preset", "{d, date, medium}", map[string]any{"d": time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)}, "Jan 2, 2024"},
		{"time default", "{d, time}", map[string]any{"d": time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)}, "3:04:05 PM"},
		{"empty", "", nil, ""},
		{"quoted braces", "'{'literal'}'", nil, "{literal}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range []Target{TargetString, TargetTree} {
				res := compileOne(t, target, tt.text)
				if got := render(t, res, "msg", tt.args); got != tt.want {
					t.Errorf("%s: got %q, want %q", target, got, tt.want)
				}
			}
		})
	}
}

const (
	offsetMsg  = "{n, plural, offset:1 =0 {nobody} =1 {just {who}} one {{who} and # other} other {{who} and # others}}"
	ordinalMsg = "{n, selectordinal, one {#st} two {#nd} few {#rd} other {#th}}"
)

func TestLiteralMessage(t *testing.T) {
	res := compileOne(t, TargetString, "hello")
	if len(res.Program.Body) != 2 {
		t.Fatalf("want function and export only, got %d statements", len(res.Program.Body))
	}
	fn, ok := res.Program.Body[0].(*jsast.FunctionDecl)
	if !ok {
		t.Fatalf("first statement is %T", res.Program.Body[0])
	}
	if len(fn.Params) != 0 || len(fn.Body) != 1 {
		t.Fatalf("want no params and a single return, got %d params, %d statements", len(fn.Params), len(fn.Body))
	}
	ret := fn.Body[0].(*jsast.Return)
	if ret.Value.Kind != jsast.ExprString || ret.Value.Data.(jsast.StringData).Value != "hello" {
		t.Fatalf("unexpected return %+v", ret.Value)
	}
}

func TestStringTargetTags(t *testing.T) {
	res := compileOne(t, TargetString, "Click <b>here</b> or <br/>")
	bold := func(s string) string { return "**" + s + "**" }
	brk := func(string) string { return "\n" }
	if got := render(t, res, "msg", map[string]any{"b": bold, "br": brk}); got != "Click **here** or \n" {
		t.Fatalf("render: %q", got)
	}
	want := []Argument{
		{Name: "b", Local: "b", Type: TypeTagFunction},
		{Name: "br", Local: "br", Type: TypeTagFunction},
	}
	if diff := cmp.Diff(want, res.Arguments["msg"]); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeSelfClosingTagKeepsChildren(t *testing.T) {
	res := compileOne(t, TargetTree, "a<br/>b")
	if got := render(t, res, "msg", map[string]any{"br": testkit.Tag("br")}); got != "a<br/>b" {
		t.Fatalf("render: %q", got)
	}
}

func TestNameDisambiguation(t *testing.T) {
	res, err := Compile([]Message{
		{Name: "home.title", Text: "{default} and {undefined}"},
		{Name: "React", Text: "{_number} is {n, number}"},
	}, Options{Target: TargetTree})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := codegen.Print(res.Program, codegen.Options{})
	for _, line := range []string{
		`function _home_title({ default: _default, undefined: _undefined }) {`,
		`const _number_1 = new Intl.NumberFormat("en");`,
		`export { _home_title as "home.title", _React as React };`,
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	out := render(t, res, "React", map[string]any{"_number": "x", "n": 5})
	if out != "x is 5" {
		t.Fatalf("render: %q", out)
	}
}

func TestIntlExportDoesNotShadowGlobal(t *testing.T) {
	res, err := Compile([]Message{{Name: "Intl", Text: "{n, number}"}}, Options{Target: TargetString})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := codegen.Print(res.Program, codegen.Options{})
	for _, line := range []string{
		`const _number = new Intl.NumberFormat("en");`,
		`function _Intl({ n }) {`,
		`export { _Intl as Intl };`,
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "function Intl(") {
		t.Errorf("message function shadows Intl:\n%s", got)
	}
	if out := render(t, res, "Intl", map[string]any{"n": 1234}); out != "1,234" {
		t.Fatalf("render: %q", out)
	}
}

func TestBuildRejectsBrokenScopeTable(t *testing.T) {
	m := NewModule(nil, Options{Target: TargetString})
	if err := m.AddMessage("a", "{x}"); err != nil {
		t.Fatal(err)
	}
	m.table.Scopes.Get(m.root).Children = nil
	if _, err := m.Build(); err == nil || !strings.Contains(err.Error(), "missing backlink") {
		t.Fatalf("expected scope validation error, got %v", err)
	}
}

func TestArgumentTypeMerge(t *testing.T) {
	res := compileOne(t, TargetString, "{n} is {n, number}")
	want := []Argument{{Name: "n", Local: "n", Type: TypeNumber}}
	if diff := cmp.Diff(want, res.Arguments["msg"]); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diag.Code
		at   Position
	}{
		{"missing other in select", "{g, select, male {He}}", diag.CompMissingDefaultCase, Position{1, 1}},
		{"missing other in plural", "x {n, plural, one {a}}", diag.CompMissingDefaultCase, Position{1, 3}},
		{"invalid tag name", "<my-tag>x</my-tag>", diag.CompInvalidIdentifier, Position{1, 2}},
		{"type conflict", "{n, plural, other {#}} {n, select, other {x}}", diag.CompArgumentTypeConflict, Position{1, 25}},
		{"unknown style", "{n, number, fancy}", diag.CompUnknownFormatStyle, Position{1, 13}},
		{"duplicate selector", "{n, plural, one {a} one {b} other {c}}", diag.SynDuplicateSelector, Position{1, 21}},
		{"unclosed brace", "{n", diag.SynUnclosedBrace, Position{1, 1}},
		{"stray close brace", "}", diag.SynUnmatchedCloseBrace, Position{1, 1}},
		{"unclosed tag", "<b>x", diag.SynUnclosedTag, Position{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileErr(t, TargetString, tt.text)
			if err.Code != tt.code {
				t.Fatalf("code = %s, want %s (%v)", err.Code.ID(), tt.code.ID(), err)
			}
			if err.Location.Start != tt.at {
				t.Fatalf("start = %+v, want %+v", err.Location.Start, tt.at)
			}
			if err.Export != "msg" {
				t.Fatalf("export = %q", err.Export)
			}
		})
	}
}

func TestMissingOtherFixAndRecovery(t *testing.T) {
	err := compileErr(t, TargetString, "{g, select, male {He}}")
	if len(err.Diagnostic.Fixes) != 1 {
		t.Fatalf("want one fix, got %d", len(err.Diagnostic.Fixes))
	}
	edit := err.Diagnostic.Fixes[0].Edits[0]
	if edit.NewText != " other {}" || edit.Span.Start != 21 {
		t.Fatalf("unexpected fix edit %+v", edit)
	}

	res := compileOne(t, TargetString, "{g, select, male {He} other {They}}")
	if got := render(t, res, "msg", map[string]any{"g": "x"}); got != "They" {
		t.Fatalf("render: %q", got)
	}
}

func TestPoundOutsideOfPlural(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("hand", []byte("#"))
	m := NewModule(fs, Options{Target: TargetString})
	err := m.AddNodes("hand", []*ast.Node{ast.Pound(source.Span{File: id, Start: 0, End: 1})})
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != diag.CompPoundOutsideOfPlural {
		t.Fatalf("want PoundOutsideOfPlural, got %v", err)
	}
}

func TestModuleLifecycle(t *testing.T) {
	m := NewModule(nil, Options{Target: TargetString})
	if err := m.AddMessage("a", "x"); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := m.AddMessage("a", "y")
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != diag.CompDuplicateExport {
		t.Fatalf("want DuplicateExport, got %v", err)
	}
	if _, err := m.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := m.AddMessage("b", "z"); !errors.Is(err, ErrModuleFinalized) {
		t.Fatalf("want ErrModuleFinalized, got %v", err)
	}
	if _, err := m.Build(); !errors.Is(err, ErrModuleFinalized) {
		t.Fatalf("want ErrModuleFinalized on second build, got %v", err)
	}
}

func TestFailedMessageRollsBackConstants(t *testing.T) {
	m := NewModule(nil, Options{Target: TargetString})
	if err := m.AddMessage("bad", "{n, number, percent} {g, select, x {y}}"); err == nil {
		t.Fatalf("expected error")
	}
	if err := m.AddMessage("good", "ok"); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := m.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, s := range res.Program.Body {
		if _, ok := s.(*jsast.VarDecl); ok {
			t.Fatalf("constant of failed message survived: %+v", s)
		}
	}
}

func TestFormatOverrides(t *testing.T) {
	var fancy skeleton.Options
	fancy = fancy.Set("minimumFractionDigits", 2)
	res, err := Compile([]Message{{Name: "msg", Text: "{n, number, fancy}"}}, Options{
		Target:  TargetString,
		Formats: Formats{Number: map[string]skeleton.Options{"fancy": fancy}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := render(t, res, "msg", map[string]any{"n": 3}); got != "3.00" {
		t.Fatalf("render: %q", got)
	}
	if _, ok := DefaultFormats().Number["fancy"]; ok {
		t.Fatalf("overrides leaked into defaults")
	}
}

func TestBuilders(t *testing.T) {
	chain := BuildTernaryChain([]Case{
		{Test: jsast.Ident("a"), Consequent: jsast.String("A")},
		{Test: jsast.Ident("b"), Consequent: jsast.String("B")},
	}, jsast.String("C"))
	outer := chain.Data.(jsast.ConditionalData)
	if outer.Test.Data.(jsast.IdentData).Name != "a" {
		t.Fatalf("first case must be outermost")
	}
	inner := outer.Alternate.Data.(jsast.ConditionalData)
	if inner.Alternate.Data.(jsast.StringData).Value != "C" {
		t.Fatalf("alternate must be innermost")
	}

	sum := BuildBinaryChain(jsast.OpAdd, jsast.Ident("a"), jsast.Ident("b"), jsast.Ident("c"))
	left := sum.Data.(jsast.BinaryData).Left
	if left.Kind != jsast.ExprBinary {
		t.Fatalf("binary chain must fold left")
	}

	el := BuildMarkupElement(jsast.Ident("React"), jsast.Ident("b"), jsast.String("x")).Data.(jsast.CallData)
	if callee := el.Callee.Data.(jsast.MemberData); callee.Property != "cloneElement" || len(el.Args) != 3 {
		t.Fatalf("unexpected markup element: %+v", el)
	}
	if self := BuildMarkupElement(jsast.Ident("React"), jsast.Ident("br"), nil).Data.(jsast.CallData); len(self.Args) != 1 {
		t.Fatalf("self-closing tag must keep its own children, got %d args", len(self.Args))
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a single operand")
		}
	}()
	BuildBinaryChain(jsast.OpAdd, jsast.Ident("a"))
}

func TestMergeTypes(t *testing.T) {
	tests := []struct {
		a, b ArgType
		want ArgType
		ok   bool
	}{
		{TypeText, TypeNumber, TypeNumber, true},
		{TypeDate, TypeMarkupNode, TypeDate, true},
		{TypeString, TypeString, TypeString, true},
		{TypeNumber, TypeString, TypeNumber, false},
		{TypeMarkupElement, TypeMarkupNode, TypeMarkupElement, false},
	}
	for _, tt := range tests {
		got, ok := mergeTypes(tt.a, tt.b)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("mergeTypes(%s, %s) = %s, %v; want %s, %v", tt.a, tt.b, got, ok, tt.want, tt.ok)
		}
	}
}
