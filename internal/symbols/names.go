package symbols

import (
	"strings"
	"unicode"
)

// globals are identifiers every JavaScript scope already binds.
var globals = map[string]struct{}{
	"arguments": {},
	"undefined": {},
	"Infinity":  {},
	"NaN":       {},
}

// reservedWords cannot be used as binding names in strict-mode module code.
var reservedWords = map[string]struct{}{
	"await": {}, "break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {},
	"enum": {}, "export": {}, "extends": {}, "false": {}, "finally": {}, "for": {},
	"function": {}, "if": {}, "implements": {}, "import": {}, "in": {}, "instanceof": {},
	"interface": {}, "let": {}, "new": {}, "null": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "return": {}, "static": {}, "super": {}, "switch": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typeof": {}, "var": {}, "void": {},
	"while": {}, "with": {}, "yield": {}, "eval": {},
}

// IsGlobalBinding reports whether name is one of the always-bound globals.
func IsGlobalBinding(name string) bool {
	_, ok := globals[name]
	return ok
}

// IsReservedWord reports whether name is a keyword or strict-mode reserved word.
func IsReservedWord(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// IsIdentifier reports whether name is a syntactically valid JavaScript
// identifier. Keywords pass this check; see IsReservedWord.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// IsBindableName reports whether name can be used verbatim as a binding.
func IsBindableName(name string) bool {
	return IsIdentifier(name) && !IsReservedWord(name) && !IsGlobalBinding(name)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

// uidStem turns base into the identifier part of a generated name:
// invalid characters become '_', runs of '_' collapse, and leading or
// trailing underscores are stripped.
func uidStem(base string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range base {
		if !isIdentPart(r) || r == '_' {
			if !lastUnderscore {
				b.WriteByte('_')
			}
			lastUnderscore = true
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}
	stem := strings.Trim(b.String(), "_")
	if stem == "" {
		return "ref"
	}
	return stem
}
