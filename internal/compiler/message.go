package compiler

import (
	"fmt"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/jsast"
	"icuc/internal/skeleton"
	"icuc/internal/source"
	"icuc/internal/symbols"
)

// messageCompiler turns one parsed message into a function body.
type messageCompiler struct {
	m      *Module
	export string
	scope  symbols.ScopeID

	args   []*argument
	byName map[string]*argument
	body   []jsast.Stmt
	shared map[sharedKey]string

	rep diag.FirstErrorReporter
}

func newMessageCompiler(m *Module, export string, span source.Span) *messageCompiler {
	return &messageCompiler{
		m:      m,
		export: export,
		scope:  m.table.NewScope(symbols.ScopeMessage, m.root, span),
		byName: make(map[string]*argument),
		shared: make(map[sharedKey]string),
	}
}

// fail emits b and returns errStop.
func (c *messageCompiler) fail(b *diag.ReportBuilder) error {
	b.Emit()
	return errStop
}

// pluralFrame is the innermost enclosing plural; '#' formats its value.
// Frames are never mutated, nested plurals push a new one.
type pluralFrame struct {
	parent *pluralFrame
	value  valueRef
}

// fragment is a compiled piece of a message body.
type fragment struct {
	literal bool
	text    string
	expr    *jsast.Expr
	markup  bool // expr is a markup node
	str     bool // expr always evaluates to a string
}

func literalFragment(text string) fragment {
	return fragment{literal: true, text: text}
}

func (c *messageCompiler) compile(nodes []*ast.Node) (*jsast.Expr, error) {
	frags, err := c.nodes(nodes, nil)
	if err != nil {
		return nil, err
	}
	expr, _ := c.flatten(frags)
	return expr, nil
}

func (c *messageCompiler) nodes(nodes []*ast.Node, plural *pluralFrame) ([]fragment, error) {
	out := make([]fragment, 0, len(nodes))
	for _, n := range nodes {
		f, err := c.node(n, plural)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *messageCompiler) node(n *ast.Node, plural *pluralFrame) (fragment, error) {
	switch n.Kind {
	case ast.NodeLiteral:
		return literalFragment(n.Data.(ast.LiteralData).Text), nil
	case ast.NodeArgument:
		return c.argument(n)
	case ast.NodeSelect:
		return c.selectNode(n, plural)
	case ast.NodePlural:
		return c.pluralNode(n, plural)
	case ast.NodeNumber, ast.NodeDate, ast.NodeTime:
		return c.format(n)
	case ast.NodePound:
		if plural == nil {
			return fragment{}, c.fail(diag.ReportError(&c.rep, diag.CompPoundOutsideOfPlural, n.Span,
				"'#' can only be used inside a plural or selectordinal case"))
		}
		expr := c.useFormattedValue(plural.value, FormatNumber, "", nil)
		return fragment{expr: expr, str: true}, nil
	case ast.NodeTag:
		return c.tag(n, plural)
	default:
		return fragment{}, fmt.Errorf("compiler: unexpected node kind %s", n.Kind)
	}
}

func (c *messageCompiler) argument(n *ast.Node) (fragment, error) {
	data := n.Data.(ast.ArgumentData)
	typ := TypeText
	if c.m.opts.Target == TargetTree {
		typ = TypeMarkupNode
	}
	v, err := c.addArgument(data.Name, typ, data.NameSpan)
	if err != nil {
		return fragment{}, err
	}
	return fragment{expr: v.ident(), markup: c.m.opts.Target == TargetTree}, nil
}

// requireOther finds the mandatory default case.
func (c *messageCompiler) requireOther(n *ast.Node, kind string, cases []ast.Case) (ast.Case, error) {
	for _, cs := range cases {
		if cs.Key == ast.OtherCase {
			return cs, nil
		}
	}
	b := diag.ReportError(&c.rep, diag.CompMissingDefaultCase, n.Span,
		fmt.Sprintf("%s is missing the %q case", kind, ast.OtherCase))
	if !n.Span.Empty() {
		at := source.Span{File: n.Span.File, Start: n.Span.End - 1, End: n.Span.End - 1}
		b = b.WithFix("add an \"other\" case", diag.FixEdit{Span: at, NewText: " other {}"})
	}
	return ast.Case{}, c.fail(b)
}

// branch compiles a case body into one expression.
func (c *messageCompiler) branch(body []*ast.Node, plural *pluralFrame) (*jsast.Expr, bool, error) {
	frags, err := c.nodes(body, plural)
	if err != nil {
		return nil, false, err
	}
	expr, markup := c.flatten(frags)
	return expr, markup, nil
}

func (c *messageCompiler) selectNode(n *ast.Node, plural *pluralFrame) (fragment, error) {
	data := n.Data.(ast.SelectData)
	v, err := c.addArgument(data.Name, TypeString, data.NameSpan)
	if err != nil {
		return fragment{}, err
	}
	other, err := c.requireOther(n, "select", data.Cases)
	if err != nil {
		return fragment{}, err
	}

	seen := make(map[string]struct{}, len(data.Cases))
	cases := make([]Case, 0, len(data.Cases))
	markup := false
	for _, cs := range data.Cases {
		if cs.Key == ast.OtherCase {
			continue
		}
		if _, dup := seen[cs.Key]; dup {
			continue
		}
		seen[cs.Key] = struct{}{}
		body, m, err := c.branch(cs.Body, plural)
		if err != nil {
			return fragment{}, err
		}
		markup = markup || m
		cases = append(cases, Case{
			Test:       jsast.Binary(jsast.OpStrictEq, v.ident(), jsast.String(cs.Key)),
			Consequent: body,
		})
	}
	alt, m, err := c.branch(other.Body, plural)
	if err != nil {
		return fragment{}, err
	}
	markup = markup || m
	return fragment{expr: BuildTernaryChain(cases, alt), markup: markup, str: !markup}, nil
}

func (c *messageCompiler) pluralNode(n *ast.Node, plural *pluralFrame) (fragment, error) {
	data := n.Data.(ast.PluralData)
	kind := "plural"
	if data.PluralType == ast.PluralOrdinal {
		kind = "selectordinal"
	}
	v, err := c.addArgument(data.Name, TypeNumber, data.NameSpan)
	if err != nil {
		return fragment{}, err
	}
	other, err := c.requireOther(n, kind, data.Cases)
	if err != nil {
		return fragment{}, err
	}

	withOffset := c.useWithOffset(v, data.Offset)
	frame := &pluralFrame{parent: plural, value: withOffset}

	var category *jsast.Expr
	for _, cs := range data.Cases {
		if cs.Key != ast.OtherCase && !cs.IsExact() {
			category = c.useLocalizedMatcher(withOffset, data.PluralType)
			break
		}
	}

	seen := make(map[string]struct{}, len(data.Cases))
	var exact, categories []Case
	markup := false
	for _, cs := range data.Cases {
		if cs.Key == ast.OtherCase {
			continue
		}
		if _, dup := seen[cs.Key]; dup {
			continue
		}
		seen[cs.Key] = struct{}{}

		var test *jsast.Expr
		if cs.IsExact() {
			value, ok := cs.ExactValue()
			if !ok {
				return fragment{}, c.fail(diag.ReportError(&c.rep, diag.SynInvalidPluralKey, cs.KeySpan,
					fmt.Sprintf("invalid exact selector %q", cs.Key)))
			}
			// exact selectors compare the value before the offset is applied
			test = jsast.Binary(jsast.OpStrictEq, v.ident(), jsast.Number(value))
		} else {
			test = jsast.Binary(jsast.OpStrictEq, category, jsast.String(cs.Key))
		}

		body, m, err := c.branch(cs.Body, frame)
		if err != nil {
			return fragment{}, err
		}
		markup = markup || m
		if cs.IsExact() {
			exact = append(exact, Case{Test: test, Consequent: body})
		} else {
			categories = append(categories, Case{Test: test, Consequent: body})
		}
	}
	alt, m, err := c.branch(other.Body, frame)
	if err != nil {
		return fragment{}, err
	}
	markup = markup || m
	expr := BuildTernaryChain(append(exact, categories...), alt)
	return fragment{expr: expr, markup: markup, str: !markup}, nil
}

func (c *messageCompiler) format(n *ast.Node) (fragment, error) {
	data := n.Data.(ast.FormatData)
	kind, typ := FormatNumber, TypeNumber
	switch n.Kind {
	case ast.NodeDate:
		kind, typ = FormatDate, TypeDate
	case ast.NodeTime:
		kind, typ = FormatTime, TypeDate
	}
	v, err := c.addArgument(data.Name, typ, data.NameSpan)
	if err != nil {
		return fragment{}, err
	}
	preset, options, err := c.resolveStyle(n, kind, data.Style)
	if err != nil {
		return fragment{}, err
	}
	return fragment{expr: c.useFormattedValue(v, kind, preset, options), str: true}, nil
}

// resolveStyle turns a style into formatter options. Time without a style
// uses the "medium" preset.
func (c *messageCompiler) resolveStyle(n *ast.Node, kind FormatKind, style ast.Style) (string, skeleton.Options, error) {
	switch style.Kind {
	case ast.StyleSkeleton:
		return "", style.Options, nil
	case ast.StyleNamed:
		options, ok := c.m.formats.lookup(kind, style.Name)
		if !ok {
			span := style.Span
			if span.Empty() {
				span = n.Span
			}
			return "", nil, c.fail(diag.ReportError(&c.rep, diag.CompUnknownFormatStyle, span,
				fmt.Sprintf("unknown %s style %q", kind, style.Name)))
		}
		if kind == FormatNumber && style.Name == "decimal" && len(options) == 0 {
			return "", nil, nil
		}
		return style.Name, options, nil
	default:
		if kind == FormatTime {
			if options, ok := c.m.formats.lookup(kind, "medium"); ok {
				return "medium", options, nil
			}
		}
		return "", nil, nil
	}
}

func (c *messageCompiler) tag(n *ast.Node, plural *pluralFrame) (fragment, error) {
	data := n.Data.(ast.TagData)
	nameSpan := data.NameSpan
	if nameSpan.Empty() {
		nameSpan = n.Span
	}
	if !symbols.IsIdentifier(data.Name) {
		return fragment{}, c.fail(diag.ReportError(&c.rep, diag.CompInvalidIdentifier, nameSpan,
			fmt.Sprintf("tag name %q is not a valid identifier", data.Name)))
	}

	tree := c.m.opts.Target == TargetTree
	typ := TypeTagFunction
	if tree {
		typ = TypeMarkupElement
	}
	v, err := c.addArgument(data.Name, typ, nameSpan)
	if err != nil {
		return fragment{}, err
	}

	var children *jsast.Expr
	if !data.SelfClosing {
		children, _, err = c.branch(data.Children, plural)
		if err != nil {
			return fragment{}, err
		}
	}
	if tree {
		return fragment{expr: BuildMarkupElement(jsast.Ident(markupNamespace), v.ident(), children), markup: true}, nil
	}
	if children == nil {
		children = jsast.String("")
	}
	return fragment{expr: jsast.Call(v.ident(), children), str: true}, nil
}

// flatten joins fragments into one expression. Any markup piece turns the
// result into a fragment; otherwise pieces are concatenated with '+', seeded
// with "" unless the first piece is already a string.
func (c *messageCompiler) flatten(frags []fragment) (*jsast.Expr, bool) {
	merged := make([]fragment, 0, len(frags))
	markup := false
	for _, f := range frags {
		if f.literal {
			if f.text == "" {
				continue
			}
			if k := len(merged) - 1; k >= 0 && merged[k].literal {
				merged[k].text += f.text
				continue
			}
		}
		markup = markup || f.markup
		merged = append(merged, f)
	}

	switch {
	case len(merged) == 0:
		return jsast.String(""), false
	case len(merged) == 1 && merged[0].literal:
		return jsast.String(merged[0].text), false
	case len(merged) == 1 && (merged[0].markup || merged[0].str):
		return merged[0].expr, merged[0].markup
	}

	if markup {
		children := make([]jsast.JSXChild, 0, len(merged))
		for _, f := range merged {
			if f.literal {
				children = append(children, jsast.Text(f.text))
				continue
			}
			children = append(children, jsast.Container(f.expr))
		}
		return jsast.Fragment(children...), true
	}

	operands := make([]*jsast.Expr, 0, len(merged)+1)
	if !merged[0].literal && !merged[0].str {
		operands = append(operands, jsast.String(""))
	}
	for _, f := range merged {
		if f.literal {
			operands = append(operands, jsast.String(f.text))
			continue
		}
		operands = append(operands, f.expr)
	}
	return BuildBinaryChain(jsast.OpAdd, operands...), false
}
