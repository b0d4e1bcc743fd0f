package codegen

import (
	"fmt"
	"strings"

	"icuc/internal/symbols"
)

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// propertyKey renders an object key: bare when it is an identifier name
// (keywords included), quoted otherwise.
func propertyKey(key string) string {
	if symbols.IsIdentifier(key) {
		return key
	}
	return quote(key)
}

// jsxSafeText reports whether text can appear verbatim between JSX tags
// without being reinterpreted or whitespace-collapsed.
func jsxSafeText(text string) bool {
	if text == "" || strings.ContainsAny(text, "{}<>&\n\r") {
		return false
	}
	return true
}
