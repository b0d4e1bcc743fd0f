package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/skeleton"
	"icuc/internal/source"
)

// parseArgument parses "{name}" or "{name, type[, style or cases]}".
func (p *Parser) parseArgument(f frame) (*ast.Node, bool) {
	open := p.c.Mark()
	p.c.Bump() // '{'
	if !p.enter(p.c.SpanFrom(open)) {
		return nil, false
	}
	defer p.leave()

	p.skipWhite()
	if p.c.EOF() {
		return nil, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
	}
	if p.c.Peek() == '}' {
		p.c.Bump()
		return nil, p.report(diag.SynEmptyArgument, p.c.SpanFrom(open), "argument has no name")
	}

	nameMark := p.c.Mark()
	name := p.scanName()
	nameSpan := p.c.SpanFrom(nameMark)
	if name == "" {
		return nil, p.report(diag.SynInvalidArgumentName, p.runeSpan(), "invalid character in argument name")
	}

	p.skipWhite()
	switch {
	case p.c.EOF():
		return nil, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
	case p.c.Eat('}'):
		return &ast.Node{
			Kind: ast.NodeArgument,
			Span: p.c.SpanFrom(open),
			Data: ast.ArgumentData{Name: name, NameSpan: nameSpan},
		}, true
	case !p.c.Eat(','):
		return nil, p.report(diag.SynInvalidArgumentName, p.runeSpan(), "expected ',' or '}' after argument name")
	}

	p.skipWhite()
	typeMark := p.c.Mark()
	typ := p.scanName()
	typeSpan := p.c.SpanFrom(typeMark)
	if typ == "" {
		if p.c.EOF() {
			return nil, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
		}
		return nil, p.report(diag.SynUnknownArgumentType, p.runeSpan(), "expected argument type")
	}

	switch typ {
	case "number":
		return p.parseFormat(open, ast.NodeNumber, name, nameSpan)
	case "date":
		return p.parseFormat(open, ast.NodeDate, name, nameSpan)
	case "time":
		return p.parseFormat(open, ast.NodeTime, name, nameSpan)
	case "select":
		cases, _, ok := p.parseCases(f, open, false)
		if !ok {
			return nil, false
		}
		return &ast.Node{
			Kind: ast.NodeSelect,
			Span: p.c.SpanFrom(open),
			Data: ast.SelectData{Name: name, NameSpan: nameSpan, Cases: cases},
		}, true
	case "plural", "selectordinal":
		cases, offset, ok := p.parseCases(f, open, true)
		if !ok {
			return nil, false
		}
		pt := ast.PluralCardinal
		if typ == "selectordinal" {
			pt = ast.PluralOrdinal
		}
		return &ast.Node{
			Kind: ast.NodePlural,
			Span: p.c.SpanFrom(open),
			Data: ast.PluralData{Name: name, NameSpan: nameSpan, Offset: offset, PluralType: pt, Cases: cases},
		}, true
	}
	return nil, p.report(diag.SynUnknownArgumentType, typeSpan, fmt.Sprintf("unknown argument type %q", typ))
}

// parseFormat parses the rest of a number/date/time argument after its type.
func (p *Parser) parseFormat(open Mark, kind ast.NodeKind, name string, nameSpan source.Span) (*ast.Node, bool) {
	node := func(style ast.Style) *ast.Node {
		return &ast.Node{
			Kind: kind,
			Span: p.c.SpanFrom(open),
			Data: ast.FormatData{Name: name, NameSpan: nameSpan, Style: style},
		}
	}

	p.skipWhite()
	switch {
	case p.c.EOF():
		return nil, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
	case p.c.Eat('}'):
		return node(ast.Style{Kind: ast.StyleDefault}), true
	case !p.c.Eat(','):
		return nil, p.report(diag.SynUnexpectedCharacter, p.runeSpan(), "expected ',' or '}' after argument type")
	}

	p.skipWhite()
	styleMark := p.c.Mark()
	isSkeleton := p.c.EatString("::")
	textMark := p.c.Mark()
	for !p.c.EOF() && p.c.Peek() != '}' {
		if p.c.Peek() == '{' {
			return nil, p.report(diag.SynUnexpectedCharacter, p.runeSpan(), "'{' is not allowed in an argument style")
		}
		p.c.BumpRune()
	}
	if p.c.EOF() {
		return nil, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
	}
	raw := p.c.Text(textMark)
	styleSpan := p.c.SpanFrom(styleMark)
	text := strings.TrimSpace(raw)

	if !isSkeleton {
		if text == "" {
			return nil, p.report(diag.SynExpectArgumentStyle, styleSpan, "expected argument style after ','")
		}
		p.c.Bump() // '}'
		return node(ast.Style{Kind: ast.StyleNamed, Name: text, Span: styleSpan}), true
	}

	var (
		opts skeleton.Options
		err  error
	)
	if kind == ast.NodeNumber {
		opts, err = skeleton.ParseNumber(raw)
	} else {
		opts, err = skeleton.ParseDate(text)
	}
	if err != nil {
		sp := styleSpan
		var se *skeleton.SyntaxError
		if errors.As(err, &se) {
			base := uint32(textMark)
			if kind != ast.NodeNumber {
				base += uint32(len(raw) - len(strings.TrimLeft(raw, " \t\r\n")))
			}
			sp = source.Span{File: sp.File, Start: base + uint32(se.Offset), End: base + uint32(se.Offset+len(se.Token))}
			return nil, p.report(diag.SynInvalidSkeleton, sp, fmt.Sprintf("invalid skeleton token %q: %s", se.Token, se.Reason))
		}
		return nil, p.report(diag.SynInvalidSkeleton, sp, err.Error())
	}
	p.c.Bump() // '}'
	return node(ast.Style{Kind: ast.StyleSkeleton, Name: text, Options: opts, Span: styleSpan}), true
}

// parseCases parses ", [offset:n] key {message} key {message} ... }" for
// select and plural arguments. The closing '}' of the argument is consumed.
func (p *Parser) parseCases(f frame, open Mark, plural bool) ([]ast.Case, float64, bool) {
	p.skipWhite()
	if p.c.EOF() {
		return nil, 0, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
	}
	if !p.c.Eat(',') {
		return nil, 0, p.report(diag.SynExpectSelector, p.runeSpan(), "expected ',' followed by cases")
	}

	var (
		cases  []ast.Case
		offset float64
		seen   = make(map[string]source.Span)
		body   = frame{inPlural: f.inPlural || plural, nested: true}
	)
	for {
		p.skipWhite()
		if p.c.EOF() {
			return nil, 0, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
		}
		if p.c.Eat('}') {
			break
		}

		if plural && len(cases) == 0 && p.c.EatString("offset:") {
			value, ok := p.parseOffset()
			if !ok {
				return nil, 0, false
			}
			offset = value
			continue
		}

		keyMark := p.c.Mark()
		var key string
		if plural && p.c.Eat('=') {
			for !p.c.EOF() && isNumberByte(p.c.Peek()) {
				p.c.Bump()
			}
			key = p.c.Text(keyMark)
			if _, err := strconv.ParseFloat(key[1:], 64); err != nil {
				return nil, 0, p.report(diag.SynInvalidPluralKey, p.c.SpanFrom(keyMark), fmt.Sprintf("invalid exact selector %q", key))
			}
		} else {
			key = p.scanName()
		}
		keySpan := p.c.SpanFrom(keyMark)
		if key == "" {
			return nil, 0, p.report(diag.SynExpectSelector, p.runeSpan(), "expected selector")
		}
		if plural && key[0] != '=' && !isPluralCategory(key) {
			return nil, 0, p.report(diag.SynInvalidPluralKey, keySpan,
				fmt.Sprintf("%q is not a plural category (zero, one, two, few, many, other) or =N", key))
		}
		if first, dup := seen[key]; dup {
			return nil, 0, p.report(diag.SynDuplicateSelector, keySpan, fmt.Sprintf("duplicate selector %q", key),
				diag.Note{Span: first, Msg: "first used here"})
		}
		seen[key] = keySpan

		p.skipWhite()
		if p.c.Peek() != '{' {
			if p.c.EOF() {
				return nil, 0, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(open), "argument is not closed")
			}
			return nil, 0, p.report(diag.SynExpectCaseBody, p.runeSpan(), fmt.Sprintf("expected '{' after selector %q", key))
		}
		bodyOpen := p.c.Mark()
		p.c.Bump()
		if !p.enter(p.c.SpanFrom(bodyOpen)) {
			return nil, 0, false
		}
		nodes, ok := p.parseNodes(body)
		p.leave()
		if !ok {
			return nil, 0, false
		}
		if p.c.EOF() {
			return nil, 0, p.report(diag.SynUnclosedBrace, p.c.SpanFrom(bodyOpen), fmt.Sprintf("case %q is not closed", key))
		}
		if p.c.Peek() != '}' {
			return nil, 0, p.unexpectedTopLevel()
		}
		p.c.Bump()
		cases = append(cases, ast.Case{Key: key, KeySpan: keySpan, Body: nodes, Span: p.c.SpanFrom(keyMark)})
	}

	if len(cases) == 0 {
		return nil, 0, p.report(diag.SynEmptyCases, p.c.SpanFrom(open), "argument has no cases")
	}
	return cases, offset, true
}

func (p *Parser) parseOffset() (float64, bool) {
	p.skipWhite()
	m := p.c.Mark()
	for !p.c.EOF() && p.c.Peek() >= '0' && p.c.Peek() <= '9' {
		p.c.Bump()
	}
	text := p.c.Text(m)
	if text == "" {
		return 0, p.report(diag.SynInvalidOffset, p.runeSpan(), "offset must be a non-negative integer")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, p.report(diag.SynInvalidOffset, p.c.SpanFrom(m), "offset is out of range")
	}
	return v, true
}

func isNumberByte(b byte) bool {
	return b >= '0' && b <= '9' || b == '.' || b == '-' || b == '+' || b == 'e' || b == 'E'
}

// runeSpan covers the rune at the cursor (empty at end of input).
func (p *Parser) runeSpan() source.Span {
	_, n := p.c.PeekRune()
	sp := p.c.Here()
	sp.End += n
	return sp
}
