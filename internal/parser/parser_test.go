package parser

import (
	"strings"
	"testing"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/source"
)

func parse(t *testing.T, text string) ([]*ast.Node, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(8)
	_, nodes, _ := ParseString(fs, "msg", text, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return nodes, bag, fs
}

func dump(t *testing.T, nodes []*ast.Node) string {
	t.Helper()
	var b strings.Builder
	if err := ast.Fprint(&b, nodes); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestParseTrees(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "literal",
			text: "hello",
			want: []string{`└─ Literal "hello"`},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "arguments",
			text: "{a}{ b }",
			want: []string{`├─ Argument a`, `└─ Argument b`},
		},
		{
			name: "greet",
			text: "Hi {name}, you have {count, plural, =0 {no messages} one {one message} other {# messages}}.",
			want: []string{
				`├─ Literal "Hi "`,
				`├─ Argument name`,
				`├─ Literal ", you have "`,
				`├─ Plural count (cardinal)`,
				`│  ├─ =0`,
				`│  │  └─ Literal "no messages"`,
				`│  ├─ one`,
				`│  │  └─ Literal "one message"`,
				`│  └─ other`,
				`│     ├─ Pound`,
				`│     └─ Literal " messages"`,
				`└─ Literal "."`,
			},
		},
		{
			name: "selectordinal with offset",
			text: "{n, selectordinal, offset:1 one {#st} other {#th}}",
			want: []string{
				`└─ Plural n (ordinal, offset 1)`,
				`   ├─ one`,
				`   │  ├─ Pound`,
				`   │  └─ Literal "st"`,
				`   └─ other`,
				`      ├─ Pound`,
				`      └─ Literal "th"`,
			},
		},
		{
			name: "select with nested pound",
			text: "{n, plural, other {{g, select, other {#}}}}",
			want: []string{
				`└─ Plural n (cardinal)`,
				`   └─ other`,
				`      └─ Select g`,
				`         └─ other`,
				`            └─ Pound`,
			},
		},
		{
			name: "pound outside plural is text",
			text: "# {g, select, other {#}}",
			want: []string{
				`├─ Literal "# "`,
				`└─ Select g`,
				`   └─ other`,
				`      └─ Literal "#"`,
			},
		},
		{
			name: "formats",
			text: "{p, number, percent}{d, date, ::yMMMd}{t, time}{c, number, :: currency/EUR}",
			want: []string{
				`├─ Number p percent`,
				`├─ Date d ::yMMMd`,
				`├─ Time t`,
				`└─ Number c ::currency/EUR`,
			},
		},
		{
			name: "tags",
			text: "Click <link>here <b>now</b></link><br/>",
			want: []string{
				`├─ Literal "Click "`,
				`├─ Tag <link>`,
				`│  ├─ Literal "here "`,
				`│  └─ Tag <b>`,
				`│     └─ Literal "now"`,
				`└─ Tag <br/>`,
			},
		},
		{
			name: "less than is text",
			text: "1 < 2 and 3 <4",
			want: []string{`└─ Literal "1 < 2 and 3 <4"`},
		},
		{
			name: "apostrophes",
			text: "it''s '{literal}' and don't '<b>' '#'",
			want: []string{`└─ Literal "it's {literal} and don't <b> '#'"`},
		},
		{
			name: "quoted pound in plural",
			text: "{n, plural, other {'#' is #}}",
			want: []string{
				`└─ Plural n (cardinal)`,
				`   └─ other`,
				`      ├─ Literal "# is "`,
				`      └─ Pound`,
			},
		},
		{
			name: "unterminated quote runs to end",
			text: "a '{b",
			want: []string{`└─ Literal "a {b"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, bag, _ := parse(t, tt.text)
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
			want := ""
			if len(tt.want) > 0 {
				want = strings.Join(tt.want, "\n") + "\n"
			}
			if got := dump(t, nodes); got != want {
				t.Errorf("tree mismatch\n got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	nodes, bag, _ := parse(t, "Hi {name}, {n, plural, one {x} other {#}}")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	arg := nodes[1]
	if arg.Span.Start != 3 || arg.Span.End != 9 {
		t.Errorf("argument span = %v", arg.Span)
	}
	if d := arg.Data.(ast.ArgumentData); d.NameSpan.Start != 4 || d.NameSpan.End != 8 {
		t.Errorf("argument name span = %v", d.NameSpan)
	}
	plural := nodes[3]
	if plural.Span.Start != 11 || plural.Span.End != 41 {
		t.Errorf("plural span = %v", plural.Span)
	}
	other := plural.Data.(ast.PluralData).Cases[1]
	if other.KeySpan.Start != 31 || other.KeySpan.End != 36 {
		t.Errorf("other key span = %v", other.KeySpan)
	}
	pound := other.Body[0]
	if pound.Kind != ast.NodePound || pound.Span.Start != 38 || pound.Span.End != 39 {
		t.Errorf("pound = %+v", pound)
	}
}

func TestParseSkeletonOptions(t *testing.T) {
	nodes, bag, _ := parse(t, "{p, number, ::percent .0}")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	style := nodes[0].Data.(ast.FormatData).Style
	if style.Kind != ast.StyleSkeleton {
		t.Fatalf("style kind = %v", style.Kind)
	}
	if v, _ := style.Options.Get("style"); v != "percent" {
		t.Errorf("style option = %v", v)
	}
	if v, _ := style.Options.Get("maximumFractionDigits"); v != 1.0 {
		t.Errorf("maximumFractionDigits = %v", v)
	}
}

func TestParseNormalizesToNFC(t *testing.T) {
	nodes, _, _ := parse(t, "cafe\u0301")
	if got := nodes[0].Data.(ast.LiteralData).Text; got != "caf\u00e9" {
		t.Fatalf("expected NFC text, got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		code       diag.Code
		start, end uint32
	}{
		{"unclosed argument", "Hi {name", diag.SynUnclosedBrace, 3, 8},
		{"unmatched close", "a } b", diag.SynUnmatchedCloseBrace, 2, 3},
		{"empty argument", "{ }", diag.SynEmptyArgument, 0, 3},
		{"bad name", "{a.b}", diag.SynInvalidArgumentName, 2, 3},
		{"bad name start", "{,a}", diag.SynInvalidArgumentName, 1, 2},
		{"unknown type", "{a, spellout}", diag.SynUnknownArgumentType, 4, 12},
		{"missing style", "{a, number, }", diag.SynExpectArgumentStyle, 12, 12},
		{"bad skeleton", "{a, number, ::percent bogus}", diag.SynInvalidSkeleton, 22, 27},
		{"bad date skeleton", "{a, date, :: yMw}", diag.SynInvalidSkeleton, 15, 16},
		{"bad offset", "{n, plural, offset:x other {}}", diag.SynInvalidOffset, 19, 20},
		{"missing cases", "{g, select}", diag.SynExpectSelector, 10, 11},
		{"no cases", "{g, select,}", diag.SynEmptyCases, 0, 12},
		{"missing body", "{g, select, a b}", diag.SynExpectCaseBody, 14, 15},
		{"duplicate selector", "{g, select, a {x} a {y} other {z}}", diag.SynDuplicateSelector, 18, 19},
		{"bad plural key", "{n, plural, lots {x} other {y}}", diag.SynInvalidPluralKey, 12, 16},
		{"bad exact key", "{n, plural, =x {x} other {y}}", diag.SynInvalidPluralKey, 12, 13},
		{"unclosed case", "{g, select, other {x", diag.SynUnclosedBrace, 18, 20},
		{"unclosed tag", "<b>bold", diag.SynUnclosedTag, 0, 3},
		{"mismatched tag", "<b>bold</i>", diag.SynMismatchedTag, 7, 11},
		{"stray closing tag", "text</b>", diag.SynUnmatchedClosingTag, 4, 8},
		{"closing tag in case", "<b>{g, select, other {x</b>}}</b>", diag.SynUnmatchedClosingTag, 23, 27},
		{"tag crossing brace", "{g, select, other {<b>x}}</b>", diag.SynUnclosedTag, 19, 22},
		{"attributes", `<a href="x">y</a>`, diag.SynTagAttributes, 3, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, bag, _ := parse(t, tt.text)
			if nodes != nil {
				t.Errorf("expected no nodes on error")
			}
			if bag.Len() != 1 {
				t.Fatalf("expected exactly one diagnostic, got %d: %v", bag.Len(), bag.Items())
			}
			d := bag.Items()[0]
			if d.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", d.Code.ID(), tt.code.ID(), d.Message)
			}
			if d.Primary.Start != tt.start || d.Primary.End != tt.end {
				t.Errorf("span = %d-%d, want %d-%d (%s)", d.Primary.Start, d.Primary.End, tt.start, tt.end, d.Message)
			}
		})
	}
}

func TestParseNestingLimit(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	text := strings.Repeat("<b>", 5) + strings.Repeat("</b>", 5)
	_, _, ok := ParseString(fs, "deep", text, Options{Reporter: &diag.BagReporter{Bag: bag}, MaxDepth: 4})
	if ok || bag.Len() != 1 || bag.Items()[0].Code != diag.SynNestingTooDeep {
		t.Fatalf("expected nesting error, got ok=%v %v", ok, bag.Items())
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad", []byte{'a', 0xff})
	r := &diag.FirstErrorReporter{}
	if _, ok := ParseMessage(fs, id, Options{Reporter: r}); ok {
		t.Fatalf("expected failure")
	}
	if r.First == nil || r.First.Code != diag.SynInvalidUTF8 {
		t.Fatalf("unexpected diagnostic %+v", r.First)
	}
}

func TestParseReportsFirstErrorWithLimit(t *testing.T) {
	for _, text := range []string{"{n", "}", "<b>x", "{n, plural, one {a} one {b} other {c}}"} {
		fs := source.NewFileSet()
		r := &diag.FirstErrorReporter{}
		opts := Options{MaxErrors: 1, Reporter: r}
		if _, _, ok := ParseString(fs, "msg", text, opts); ok {
			t.Fatalf("%q: expected failure", text)
		}
		if r.First == nil {
			t.Fatalf("%q: first error was not reported", text)
		}
	}

	opts := Options{MaxErrors: 1}
	if opts.Enough() {
		t.Fatalf("a fresh limit must not be exhausted")
	}
	opts.CurrentErrors = 1
	if !opts.Enough() {
		t.Fatalf("limit of one must be exhausted after one error")
	}
}
