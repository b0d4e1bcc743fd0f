package skeleton

import (
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	stem    string
	options []string
	offset  int
}

func tokenize(s string) []token {
	var out []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		parts := strings.Split(s[start:end], "/")
		out = append(out, token{stem: parts[0], options: parts[1:], offset: start})
		start = -1
	}
	for i, r := range s {
		if unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s))
	return out
}

// ParseNumber converts an ICU number skeleton ("currency/EUR .00 group-off")
// into Intl.NumberFormat options.
func ParseNumber(s string) (Options, error) {
	var opts Options
	for _, tok := range tokenize(s) {
		var err error
		opts, err = applyNumberToken(opts, tok)
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func applyNumberToken(opts Options, tok token) (Options, error) {
	fail := func(reason string) (Options, error) {
		return nil, &SyntaxError{Offset: tok.offset, Token: tok.stem, Reason: reason}
	}
	needOption := func() (string, bool) {
		if len(tok.options) != 1 || tok.options[0] == "" {
			return "", false
		}
		return tok.options[0], true
	}

	switch tok.stem {
	case "percent", "%":
		return opts.Set("style", "percent"), nil
	case "%x100":
		return opts.Set("style", "percent").Set("scale", 100), nil
	case "permille":
		return fail("permille is not supported by Intl.NumberFormat")
	case "currency":
		code, ok := needOption()
		if !ok || len(code) != 3 {
			return fail("currency requires a three-letter ISO code")
		}
		return opts.Set("style", "currency").Set("currency", strings.ToUpper(code)), nil
	case "measure-unit", "unit":
		unit, ok := needOption()
		if !ok {
			return fail("unit requires a unit identifier")
		}
		if i := strings.IndexByte(unit, '-'); i >= 0 && tok.stem == "measure-unit" {
			unit = unit[i+1:]
		} else if i >= 0 && isUnitType(unit[:i]) {
			unit = unit[i+1:]
		}
		return opts.Set("style", "unit").Set("unit", unit), nil
	case "group-off", ",_":
		return opts.Set("useGrouping", false), nil
	case "precision-integer", ".":
		return opts.Set("maximumFractionDigits", 0), nil
	case "compact-short", "K":
		return opts.Set("notation", "compact").Set("compactDisplay", "short"), nil
	case "compact-long", "KK":
		return opts.Set("notation", "compact").Set("compactDisplay", "long"), nil
	case "scientific":
		return applyNotationOptions(opts.Set("notation", "scientific"), tok)
	case "engineering":
		return applyNotationOptions(opts.Set("notation", "engineering"), tok)
	case "notation-simple":
		return opts.Set("notation", "standard"), nil
	case "sign-auto":
		return opts.Set("signDisplay", "auto"), nil
	case "sign-always", "+!":
		return opts.Set("signDisplay", "always"), nil
	case "sign-never", "+_":
		return opts.Set("signDisplay", "never"), nil
	case "sign-except-zero", "+?":
		return opts.Set("signDisplay", "exceptZero"), nil
	case "sign-accounting", "()":
		return opts.Set("currencySign", "accounting"), nil
	case "sign-accounting-always", "()!":
		return opts.Set("signDisplay", "always").Set("currencySign", "accounting"), nil
	case "sign-accounting-except-zero", "()?":
		return opts.Set("signDisplay", "exceptZero").Set("currencySign", "accounting"), nil
	case "unit-width-narrow":
		return opts.Set("currencyDisplay", "narrowSymbol").Set("unitDisplay", "narrow"), nil
	case "unit-width-short":
		return opts.Set("currencyDisplay", "code").Set("unitDisplay", "short"), nil
	case "unit-width-full-name":
		return opts.Set("currencyDisplay", "name").Set("unitDisplay", "long"), nil
	case "unit-width-iso-code":
		return opts.Set("currencyDisplay", "symbol"), nil
	case "scale":
		raw, ok := needOption()
		if !ok {
			return fail("scale requires a factor")
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail("scale factor is not a number")
		}
		return opts.Set("scale", f), nil
	case "integer-width":
		raw, ok := needOption()
		if !ok {
			return fail("integer-width requires a width")
		}
		if len(raw) < 2 || raw[0] != '*' && raw[0] != '+' || !isAll(raw[1:], '0') {
			return fail("only integer-width/*000 is supported")
		}
		return opts.Set("minimumIntegerDigits", len(raw)-1), nil
	}

	if isAll(tok.stem, '0') {
		return opts.Set("minimumIntegerDigits", len(tok.stem)), nil
	}
	if strings.HasPrefix(tok.stem, ".") {
		next, ok := applyFractionPrecision(opts, tok.stem[1:])
		if !ok {
			return fail("invalid fraction precision")
		}
		for _, o := range tok.options {
			if o == "w" {
				next = next.Set("trailingZeroDisplay", "stripIfInteger")
				continue
			}
			var sigOK bool
			next, sigOK = applySignificantPrecision(next, o)
			if !sigOK {
				return fail("invalid precision option " + strconv.Quote(o))
			}
		}
		return next, nil
	}
	if strings.HasPrefix(tok.stem, "@") {
		next, ok := applySignificantPrecision(opts, tok.stem)
		if !ok {
			return fail("invalid significant precision")
		}
		return next, nil
	}
	return fail("unknown number skeleton token")
}

func applyNotationOptions(opts Options, tok token) (Options, error) {
	for _, o := range tok.options {
		switch {
		case o == "sign-always" || o == "+!":
			opts = opts.Set("signDisplay", "always")
		case o == "sign-except-zero" || o == "+?":
			opts = opts.Set("signDisplay", "exceptZero")
		case o == "sign-never" || o == "+_":
			opts = opts.Set("signDisplay", "never")
		case strings.HasPrefix(o, "*e") || strings.HasPrefix(o, "+e"):
			// exponent width has no Intl equivalent
		default:
			return nil, &SyntaxError{Offset: tok.offset, Token: tok.stem, Reason: "unknown notation option " + strconv.Quote(o)}
		}
	}
	return opts, nil
}

// applyFractionPrecision handles the part after '.': "00", "0#", "##", "00+", "00*".
func applyFractionPrecision(opts Options, frac string) (Options, bool) {
	open := false
	if strings.HasSuffix(frac, "+") || strings.HasSuffix(frac, "*") {
		open = true
		frac = frac[:len(frac)-1]
	}
	zeros := len(frac) - len(strings.TrimLeft(frac, "0"))
	hashes := frac[zeros:]
	if !isAll(hashes, '#') || frac == "" {
		return opts, false
	}
	if open && hashes != "" {
		return opts, false
	}
	opts = opts.Set("minimumFractionDigits", zeros)
	if !open {
		opts = opts.Set("maximumFractionDigits", len(frac))
	}
	return opts, true
}

// applySignificantPrecision handles "@@@", "@##", "@@+", "@@*".
func applySignificantPrecision(opts Options, sig string) (Options, bool) {
	open := false
	if strings.HasSuffix(sig, "+") || strings.HasSuffix(sig, "*") {
		open = true
		sig = sig[:len(sig)-1]
	}
	ats := len(sig) - len(strings.TrimLeft(sig, "@"))
	hashes := sig[ats:]
	if ats == 0 || !isAll(hashes, '#') || open && hashes != "" {
		return opts, false
	}
	opts = opts.Set("minimumSignificantDigits", ats)
	if !open {
		opts = opts.Set("maximumSignificantDigits", len(sig))
	}
	return opts, true
}

func isAll(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

var unitTypes = map[string]struct{}{
	"acceleration": {}, "angle": {}, "area": {}, "concentr": {}, "consumption": {},
	"digital": {}, "duration": {}, "electric": {}, "energy": {}, "force": {},
	"frequency": {}, "graphics": {}, "length": {}, "light": {}, "mass": {},
	"power": {}, "pressure": {}, "speed": {}, "temperature": {}, "torque": {},
	"volume": {},
}

func isUnitType(s string) bool {
	_, ok := unitTypes[s]
	return ok
}
