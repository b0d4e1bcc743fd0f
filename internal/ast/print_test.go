package ast

import (
	"strings"
	"testing"

	"icuc/internal/source"
)

func TestFprint(t *testing.T) {
	sp := source.Span{}
	nodes := []*Node{
		Literal("Hi ", sp),
		Argument("name", sp),
		{Kind: NodePlural, Data: PluralData{
			Name:   "count",
			Offset: 1,
			Cases: []Case{
				{Key: "=0", Body: []*Node{Literal("none", sp)}},
				{Key: "other", Body: []*Node{Pound(sp), {Kind: NodeTag, Data: TagData{Name: "b", Children: []*Node{Literal("!", sp)}}}}},
			},
		}},
		{Kind: NodeNumber, Data: FormatData{Name: "p", Style: Style{Kind: StyleNamed, Name: "percent"}}},
	}

	var b strings.Builder
	if err := Fprint(&b, nodes); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`├─ Literal "Hi "`,
		`├─ Argument name`,
		`├─ Plural count (cardinal, offset 1)`,
		`│  ├─ =0`,
		`│  │  └─ Literal "none"`,
		`│  └─ other`,
		`│     ├─ Pound`,
		`│     └─ Tag <b>`,
		`│        └─ Literal "!"`,
		`└─ Number p percent`,
		``,
	}, "\n")
	if got := b.String(); got != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
}

func TestCaseExactValue(t *testing.T) {
	if v, ok := (Case{Key: "=12"}).ExactValue(); !ok || v != 12 {
		t.Errorf("=12 -> %v %v", v, ok)
	}
	if _, ok := (Case{Key: "one"}).ExactValue(); ok {
		t.Errorf("one is not exact")
	}
	if _, ok := (Case{Key: "=x"}).ExactValue(); ok {
		t.Errorf("=x is not a number")
	}
}
