package parser

import (
	"strings"

	"icuc/internal/ast"
)

// parseNodes reads message elements until the end of input or a terminator
// of the current frame: '}' when nested, "</" inside a tag.
func (p *Parser) parseNodes(f frame) ([]*ast.Node, bool) {
	var nodes []*ast.Node
	for !p.c.EOF() {
		switch b := p.c.Peek(); {
		case b == '{':
			node, ok := p.parseArgument(f)
			if !ok {
				return nil, false
			}
			nodes = append(nodes, node)
		case b == '}':
			// nested: the caller consumes it; top level: ParseMessage reports it
			return nodes, true
		case b == '#' && f.inPlural:
			m := p.c.Mark()
			p.c.Bump()
			nodes = append(nodes, ast.Pound(p.c.SpanFrom(m)))
		case b == '<' && p.c.PeekAt(1) == '/':
			return nodes, true
		case b == '<' && isAlpha(p.c.PeekAt(1)):
			node, ok := p.parseTag(f)
			if !ok {
				return nil, false
			}
			nodes = append(nodes, node)
		default:
			nodes = appendLiteral(nodes, p.parseLiteral(f))
		}
	}
	return nodes, true
}

func appendLiteral(nodes []*ast.Node, lit *ast.Node) []*ast.Node {
	if n := len(nodes); n > 0 && nodes[n-1].Kind == ast.NodeLiteral {
		prev := nodes[n-1]
		text := prev.Data.(ast.LiteralData).Text + lit.Data.(ast.LiteralData).Text
		nodes[n-1] = ast.Literal(text, prev.Span.Cover(lit.Span))
		return nodes
	}
	return append(nodes, lit)
}

// parseLiteral reads text up to the next syntax character, resolving
// apostrophe quoting. Two apostrophes in a row make one. An apostrophe
// followed by a syntax character starts quoted text that runs to the next
// lone apostrophe or to the end of the message.
func (p *Parser) parseLiteral(f frame) *ast.Node {
	m := p.c.Mark()
	var b strings.Builder
	for !p.c.EOF() {
		ch := p.c.Peek()
		switch {
		case ch == '\'':
			next := p.c.PeekAt(1)
			switch {
			case next == '\'':
				b.WriteByte('\'')
				p.c.Off += 2
			case startsQuote(next, f):
				p.c.Bump()
				p.readQuoted(&b)
			default:
				b.WriteByte('\'')
				p.c.Bump()
			}
			continue
		case ch == '{' || ch == '}':
			return ast.Literal(b.String(), p.c.SpanFrom(m))
		case ch == '#' && f.inPlural:
			return ast.Literal(b.String(), p.c.SpanFrom(m))
		case ch == '<' && (p.c.PeekAt(1) == '/' || isAlpha(p.c.PeekAt(1))):
			return ast.Literal(b.String(), p.c.SpanFrom(m))
		}
		b.WriteRune(p.c.BumpRune())
	}
	return ast.Literal(b.String(), p.c.SpanFrom(m))
}

func startsQuote(next byte, f frame) bool {
	switch next {
	case '{', '}', '<', '>', '|':
		return true
	case '#':
		return f.inPlural
	}
	return false
}

func (p *Parser) readQuoted(b *strings.Builder) {
	for !p.c.EOF() {
		if p.c.Peek() == '\'' {
			if p.c.PeekAt(1) == '\'' {
				b.WriteByte('\'')
				p.c.Off += 2
				continue
			}
			p.c.Bump()
			return
		}
		b.WriteRune(p.c.BumpRune())
	}
}
