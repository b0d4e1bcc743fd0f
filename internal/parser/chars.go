package parser

import (
	"unicode"
	"unicode/utf8"
)

func isWhite(r rune) bool {
	return unicode.Is(unicode.Pattern_White_Space, r)
}

// isNameRune reports whether r may appear in an argument name or selector.
func isNameRune(r rune) bool {
	return !isWhite(r) && !unicode.Is(unicode.Pattern_Syntax, r) && r != utf8.RuneError
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isTagNameRune(r rune) bool {
	return r == '-' || r == '.' || r == '_' || r == ':' || r >= '0' && r <= '9' || unicode.IsLetter(r)
}

func (p *Parser) skipWhite() {
	for !p.c.EOF() {
		r, _ := p.c.PeekRune()
		if !isWhite(r) {
			return
		}
		p.c.BumpRune()
	}
}

// scanName consumes a run of name runes and returns it.
func (p *Parser) scanName() string {
	m := p.c.Mark()
	for !p.c.EOF() {
		r, _ := p.c.PeekRune()
		if !isNameRune(r) {
			break
		}
		p.c.BumpRune()
	}
	return p.c.Text(m)
}

func (p *Parser) scanTagName() string {
	m := p.c.Mark()
	if !isAlpha(p.c.Peek()) {
		return ""
	}
	for !p.c.EOF() {
		r, _ := p.c.PeekRune()
		if !isTagNameRune(r) {
			break
		}
		p.c.BumpRune()
	}
	return p.c.Text(m)
}

var pluralCategories = map[string]struct{}{
	"zero": {}, "one": {}, "two": {}, "few": {}, "many": {}, "other": {},
}

func isPluralCategory(s string) bool {
	_, ok := pluralCategories[s]
	return ok
}
