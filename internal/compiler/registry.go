package compiler

import (
	"fmt"
	"strings"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/jsast"
	"icuc/internal/skeleton"
	"icuc/internal/source"
	"icuc/internal/symbols"
)

type sharedKind uint8

const (
	sharedFormatter sharedKind = iota
	sharedPluralRules
	sharedFormatted
	sharedOffset
	sharedCategory
)

// sharedKey identifies a hoisted constant structurally.
type sharedKey struct {
	kind   sharedKind
	a, b   string
	offset float64
}

// argument is a message parameter in first-reference order.
type argument struct {
	name  string
	local string
	typ   ArgType
	span  source.Span
}

// valueRef points at a value held in a local binding.
type valueRef struct {
	name string // binding holding the value
	base string // stem for names derived from it
}

func (v valueRef) ident() *jsast.Expr { return jsast.Ident(v.name) }

// addArgument returns the binding of argument name, creating it on first use.
// Repeated uses merge their types.
func (c *messageCompiler) addArgument(name string, typ ArgType, span source.Span) (valueRef, error) {
	if a, ok := c.byName[name]; ok {
		merged, ok := mergeTypes(a.typ, typ)
		if !ok {
			return valueRef{}, c.fail(diag.ReportError(&c.rep, diag.CompArgumentTypeConflict, span,
				fmt.Sprintf("argument %q is used as %s here but as %s before", name, typ, a.typ)).
				WithNote(a.span, fmt.Sprintf("first used as %s here", a.typ)))
		}
		a.typ = merged
		return valueRef{name: a.local, base: name}, nil
	}

	local := name
	if symbols.IsBindableName(name) && !c.m.table.HasBinding(c.scope, name) {
		if _, err := c.m.table.CreateBinding(c.scope, name, symbols.SymbolParam); err != nil {
			return valueRef{}, c.fail(diag.ReportError(&c.rep, diag.CompDuplicateBinding, span, err.Error()))
		}
	} else {
		local = c.m.table.CreateUniqueBinding(c.scope, name, symbols.SymbolParam)
	}
	a := &argument{name: name, local: local, typ: typ, span: span}
	c.args = append(c.args, a)
	c.byName[name] = a
	return valueRef{name: local, base: name}, nil
}

// moduleConst hoists init into the module scope, once per key.
func (m *Module) moduleConst(key sharedKey, base string, init func() *jsast.Expr) string {
	if name, ok := m.shared[key]; ok {
		return name
	}
	name := m.table.CreateUniqueBinding(m.root, base, symbols.SymbolConst)
	m.consts = append(m.consts, &jsast.VarDecl{Name: name, Init: init()})
	m.shared[key] = name
	m.sharedOrder = append(m.sharedOrder, key)
	return name
}

// messageConst hoists init into the message function body, once per key.
func (c *messageCompiler) messageConst(key sharedKey, base string, init func() *jsast.Expr) string {
	if name, ok := c.shared[key]; ok {
		return name
	}
	name := c.m.table.CreateUniqueBinding(c.scope, base, symbols.SymbolConst)
	c.body = append(c.body, &jsast.VarDecl{Name: name, Init: init()})
	c.shared[key] = name
	return name
}

// useFormatter returns the shared Intl formatter for kind and options.
// preset names the constant when the options came from a named style.
func (m *Module) useFormatter(kind FormatKind, preset string, options skeleton.Options) string {
	key := sharedKey{kind: sharedFormatter, a: kind.String(), b: options.Canonical()}
	base := kind.String()
	if preset != "" {
		base += "_" + preset
	}
	return m.moduleConst(key, base, func() *jsast.Expr {
		args := []*jsast.Expr{jsast.String(m.opts.Locale)}
		if len(options) > 0 {
			args = append(args, optionsObject(options))
		}
		return jsast.New(jsast.Member(jsast.Ident(intlNamespace), kind.constructor()), args...)
	})
}

// usePlural returns the shared Intl.PluralRules for pluralType.
func (m *Module) usePlural(pluralType ast.PluralType) string {
	key := sharedKey{kind: sharedPluralRules, a: pluralType.String()}
	base := "pluralRules"
	if pluralType == ast.PluralOrdinal {
		base = "ordinalRules"
	}
	return m.moduleConst(key, base, func() *jsast.Expr {
		args := []*jsast.Expr{jsast.String(m.opts.Locale)}
		if pluralType == ast.PluralOrdinal {
			args = append(args, jsast.Object(jsast.Property{Key: "type", Value: jsast.String("ordinal")}))
		}
		return jsast.New(jsast.Member(jsast.Ident(intlNamespace), "PluralRules"), args...)
	})
}

// useFormattedValue returns a binding holding formatter.format(value).
func (c *messageCompiler) useFormattedValue(v valueRef, kind FormatKind, preset string, options skeleton.Options) *jsast.Expr {
	formatter := c.m.useFormatter(kind, preset, options)
	key := sharedKey{kind: sharedFormatted, a: formatter, b: v.name}
	name := c.messageConst(key, v.base+"_"+strings.TrimPrefix(formatter, "_"), func() *jsast.Expr {
		return jsast.Call(jsast.Member(jsast.Ident(formatter), "format"), v.ident())
	})
	return jsast.Ident(name)
}

// useWithOffset returns v itself for a zero offset, else a binding holding
// value - offset.
func (c *messageCompiler) useWithOffset(v valueRef, offset float64) valueRef {
	if offset == 0 {
		return v
	}
	key := sharedKey{kind: sharedOffset, a: v.name, offset: offset}
	name := c.messageConst(key, v.base+"_offset", func() *jsast.Expr {
		return jsast.Binary(jsast.OpSub, v.ident(), jsast.Number(offset))
	})
	return valueRef{name: name, base: v.base}
}

// useLocalizedMatcher returns a binding holding the plural category of v.
func (c *messageCompiler) useLocalizedMatcher(v valueRef, pluralType ast.PluralType) *jsast.Expr {
	rules := c.m.usePlural(pluralType)
	key := sharedKey{kind: sharedCategory, a: rules, b: v.name}
	name := c.messageConst(key, v.base+"_category", func() *jsast.Expr {
		return jsast.Call(jsast.Member(jsast.Ident(rules), "select"), v.ident())
	})
	return jsast.Ident(name)
}

func optionsObject(options skeleton.Options) *jsast.Expr {
	props := make([]jsast.Property, 0, len(options))
	for _, opt := range options {
		var value *jsast.Expr
		switch v := opt.Value.(type) {
		case string:
			value = jsast.String(v)
		case float64:
			value = jsast.Number(v)
		case bool:
			value = jsast.Bool(v)
		default:
			value = jsast.String(fmt.Sprint(v))
		}
		props = append(props, jsast.Property{Key: opt.Key, Value: value})
	}
	return jsast.Object(props...)
}
