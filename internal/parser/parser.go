package parser

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/source"
)

// DefaultMaxDepth bounds nesting of arguments and tags.
const DefaultMaxDepth = 64

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	MaxDepth      int
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на одно сообщение
type Parser struct {
	c     Cursor
	opts  Options
	depth int
}

// frame describes where the parser currently is.
type frame struct {
	inPlural bool   // some ancestor is a plural, so '#' is a Pound
	nested   bool   // inside a case body, so '}' ends the message
	tag      string // inside <tag>…</tag>, so "</" ends the message
}

// ParseMessage parses the whole text of file as one ICU message.
// Parsing stops at the first syntax error, which is sent to opts.Reporter;
// ok is false in that case.
func ParseMessage(fs *source.FileSet, file source.FileID, opts Options) (nodes []*ast.Node, ok bool) {
	f := fs.Get(file)
	if f == nil {
		panic(fmt.Errorf("parser: unknown file %d", file))
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := Parser{c: NewCursor(f), opts: opts}

	if !utf8.Valid(f.Content) {
		p.report(diag.SynInvalidUTF8, source.Span{File: file, Start: 0, End: p.c.Limit}, "message is not valid UTF-8")
		return nil, false
	}

	nodes, ok = p.parseNodes(frame{})
	if !ok {
		return nil, false
	}
	// parseNodes only stops early at '}' or "</" outside of any frame
	if !p.c.EOF() {
		return nil, p.unexpectedTopLevel()
	}
	return nodes, true
}

// ParseString normalizes text to NFC, registers it in fs under name and
// parses it. Spans refer to the normalized text.
func ParseString(fs *source.FileSet, name, text string, opts Options) (source.FileID, []*ast.Node, bool) {
	id := fs.AddVirtual(name, []byte(norm.NFC.String(text)))
	nodes, ok := ParseMessage(fs, id, opts)
	return id, nodes, ok
}

func (p *Parser) unexpectedTopLevel() bool {
	start := p.c.Mark()
	if p.c.Peek() == '}' {
		p.c.Bump()
		p.report(diag.SynUnmatchedCloseBrace, p.c.SpanFrom(start), "unmatched '}'")
		return false
	}
	// "</name>" without an opening tag
	p.c.EatString("</")
	p.scanTagName()
	p.c.Eat('>')
	p.report(diag.SynUnmatchedClosingTag, p.c.SpanFrom(start), fmt.Sprintf("closing tag %q has no opening tag", p.c.Text(start)))
	return false
}

// репортует ошибку; всегда возвращает false, чтобы вызывающий мог сразу выйти
func (p *Parser) report(code diag.Code, sp source.Span, msg string, notes ...diag.Note) bool {
	// лимит проверяется до инкремента: MaxErrors=1 пропускает первую ошибку
	if p.opts.Reporter != nil && !p.opts.Enough() {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, notes, nil)
	}
	p.opts.CurrentErrors++
	return false
}

func (p *Parser) enter(sp source.Span) bool {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		return p.report(diag.SynNestingTooDeep, sp, fmt.Sprintf("message nesting exceeds %d levels", p.opts.MaxDepth))
	}
	return true
}

func (p *Parser) leave() { p.depth-- }
