package testkit

import (
	"fmt"
	"strings"
)

// Element is a markup node produced by evaluated code. An empty Tag is a
// fragment.
type Element struct {
	Tag      string
	Children []any
}

// Tag builds an element for a markup argument.
func Tag(name string, children ...any) *Element {
	return &Element{Tag: name, Children: children}
}

type fragmentType struct{}

func reactNamespace() object {
	return object{
		"Fragment": fragmentType{},
		"cloneElement": builtin(func(args []any) (any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("cloneElement needs an element")
			}
			el, ok := args[0].(*Element)
			if !ok {
				return nil, fmt.Errorf("cloneElement: %T is not an element", args[0])
			}
			out := &Element{Tag: el.Tag, Children: el.Children}
			if len(args) > 2 {
				out.Children = append([]any(nil), args[2:]...)
			}
			return out, nil
		}),
		"createElement": builtin(func(args []any) (any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("createElement needs a type")
			}
			out := &Element{}
			switch t := args[0].(type) {
			case fragmentType:
			case string:
				out.Tag = t
			default:
				return nil, fmt.Errorf("createElement: unsupported type %T", t)
			}
			if len(args) > 2 {
				out.Children = append([]any(nil), args[2:]...)
			}
			return out, nil
		}),
	}
}

// Render flattens a rendered value to text. Elements print as <tag>…</tag>,
// childless elements as <tag/>, fragments as their children. Like React,
// booleans and undefined render as nothing.
func Render(v any) string {
	var b strings.Builder
	render(&b, v)
	return b.String()
}

func render(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil, bool:
	case *Element:
		if x.Tag == "" {
			for _, c := range x.Children {
				render(b, c)
			}
			return
		}
		if len(x.Children) == 0 {
			b.WriteString("<" + x.Tag + "/>")
			return
		}
		b.WriteString("<" + x.Tag + ">")
		for _, c := range x.Children {
			render(b, c)
		}
		b.WriteString("</" + x.Tag + ">")
	case []any:
		for _, c := range x {
			render(b, c)
		}
	default:
		b.WriteString(toString(x))
	}
}
