package parser

import (
	"fmt"

	"icuc/internal/ast"
	"icuc/internal/diag"
)

// parseTag parses "<name>children</name>" or "<name/>". Attributes are not
// supported.
func (p *Parser) parseTag(f frame) (*ast.Node, bool) {
	open := p.c.Mark()
	p.c.Bump() // '<'
	nameMark := p.c.Mark()
	name := p.scanTagName()
	nameSpan := p.c.SpanFrom(nameMark)

	if !p.enter(p.c.SpanFrom(open)) {
		return nil, false
	}
	defer p.leave()

	p.skipWhite()
	if p.c.EatString("/>") {
		return &ast.Node{
			Kind: ast.NodeTag,
			Span: p.c.SpanFrom(open),
			Data: ast.TagData{Name: name, NameSpan: nameSpan, SelfClosing: true},
		}, true
	}
	if !p.c.Eat('>') {
		if p.c.EOF() {
			return nil, p.report(diag.SynUnclosedTag, p.c.SpanFrom(open), fmt.Sprintf("tag <%s> is not closed", name))
		}
		attrMark := p.c.Mark()
		for !p.c.EOF() && p.c.Peek() != '>' && p.c.Peek() != '/' {
			p.c.BumpRune()
		}
		return nil, p.report(diag.SynTagAttributes, p.c.SpanFrom(attrMark), fmt.Sprintf("tag <%s> cannot have attributes", name))
	}
	openTag := p.c.SpanFrom(open)

	children, ok := p.parseNodes(frame{inPlural: f.inPlural, nested: f.nested, tag: name})
	if !ok {
		return nil, false
	}
	if p.c.EOF() || p.c.Peek() != '<' {
		return nil, p.report(diag.SynUnclosedTag, openTag, fmt.Sprintf("tag <%s> is not closed", name))
	}

	closeMark := p.c.Mark()
	p.c.EatString("</")
	closeName := p.scanTagName()
	p.skipWhite()
	if !p.c.Eat('>') {
		return nil, p.report(diag.SynUnclosedTag, p.c.SpanFrom(closeMark), fmt.Sprintf("closing tag </%s> is not terminated", closeName))
	}
	if closeName != name {
		return nil, p.report(diag.SynMismatchedTag, p.c.SpanFrom(closeMark),
			fmt.Sprintf("closing tag </%s> does not match <%s>", closeName, name),
			diag.Note{Span: openTag, Msg: "opening tag here"})
	}

	return &ast.Node{
		Kind: ast.NodeTag,
		Span: p.c.SpanFrom(open),
		Data: ast.TagData{Name: name, NameSpan: nameSpan, Children: children},
	}, true
}
