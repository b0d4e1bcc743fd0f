package testkit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func intlNamespace() object {
	return object{
		"NumberFormat":   constructor(newNumberFormat),
		"DateTimeFormat": constructor(newDateTimeFormat),
		"PluralRules":    constructor(newPluralRules),
	}
}

func localeArg(args []any) (language.Tag, error) {
	if len(args) == 0 || args[0] == nil {
		return language.English, nil
	}
	s, ok := args[0].(string)
	if !ok {
		return language.Und, fmt.Errorf("locale must be a string, got %T", args[0])
	}
	return language.Parse(s)
}

func optionsArg(args []any) *Object {
	if len(args) < 2 {
		return &Object{Values: map[string]any{}}
	}
	if o, ok := args[1].(*Object); ok {
		return o
	}
	return &Object{Values: map[string]any{}}
}

func (o *Object) str(key string) string {
	s, _ := o.Values[key].(string)
	return s
}

func (o *Object) num(key string) (int, bool) {
	f, ok := o.Values[key].(float64)
	return int(f), ok
}

// numberFormat mirrors Intl.NumberFormat for the options the compiler emits
// most often: style, currency, fraction digits and grouping.
type numberFormat struct {
	printer *message.Printer
	opts    *Object
}

func newNumberFormat(args []any) (any, error) {
	tag, err := localeArg(args)
	if err != nil {
		return nil, err
	}
	return &numberFormat{printer: message.NewPrinter(tag), opts: optionsArg(args)}, nil
}

func (f *numberFormat) member(name string) (any, bool) {
	if name != "format" {
		return nil, false
	}
	return builtin(func(args []any) (any, error) {
		if len(args) == 0 {
			return f.format(math.NaN()), nil
		}
		return f.format(toNumber(args[0])), nil
	}), true
}

func (f *numberFormat) format(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	var opts []number.Option
	maxFrac, hasMax := f.opts.num("maximumFractionDigits")
	if hasMax {
		opts = append(opts, number.MaxFractionDigits(maxFrac))
	}
	minFrac, hasMin := f.opts.num("minimumFractionDigits")
	if hasMin {
		opts = append(opts, number.MinFractionDigits(minFrac))
	}
	if n, ok := f.opts.num("minimumIntegerDigits"); ok {
		opts = append(opts, number.MinIntegerDigits(n))
	}
	if g, ok := f.opts.Values["useGrouping"].(bool); ok && !g {
		opts = append(opts, number.NoSeparator())
	}
	switch f.opts.str("style") {
	case "percent":
		return f.printer.Sprint(number.Percent(v, opts...))
	case "currency":
		unit, err := currency.ParseISO(f.opts.str("currency"))
		if err != nil {
			return f.printer.Sprint(number.Decimal(v, opts...))
		}
		// Intl puts the symbol right before the digits ("€3.50", "-€3.50");
		// x/text separates them with a space, so the two parts are printed apart
		if !hasMax && !hasMin {
			scale, _ := currency.Standard.Rounding(unit)
			opts = append(opts, number.MinFractionDigits(scale), number.MaxFractionDigits(scale))
		}
		sign := ""
		if v < 0 {
			sign, v = "-", -v
		}
		return sign + f.printer.Sprint(currency.Symbol(unit)) + f.printer.Sprint(number.Decimal(v, opts...))
	default:
		return f.printer.Sprint(number.Decimal(v, opts...))
	}
}

// pluralRules mirrors Intl.PluralRules on top of CLDR data in x/text.
type pluralRules struct {
	tag   language.Tag
	rules *plural.Rules
}

func newPluralRules(args []any) (any, error) {
	tag, err := localeArg(args)
	if err != nil {
		return nil, err
	}
	rules := plural.Cardinal
	if optionsArg(args).str("type") == "ordinal" {
		rules = plural.Ordinal
	}
	return &pluralRules{tag: tag, rules: rules}, nil
}

func (p *pluralRules) member(name string) (any, bool) {
	if name != "select" {
		return nil, false
	}
	return builtin(func(args []any) (any, error) {
		if len(args) == 0 {
			return "other", nil
		}
		return p.Select(toNumber(args[0])), nil
	}), true
}

var formNames = map[plural.Form]string{
	plural.Other: "other",
	plural.Zero:  "zero",
	plural.One:   "one",
	plural.Two:   "two",
	plural.Few:   "few",
	plural.Many:  "many",
}

// Select returns the plural category of v.
func (p *pluralRules) Select(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "other"
	}
	i, vd, w, f, t := pluralOperands(math.Abs(v))
	return formNames[p.rules.MatchPlural(p.tag, i, vd, w, f, t)]
}

// pluralOperands computes the CLDR operands i, v, w, f and t of n.
func pluralOperands(n float64) (i, v, w, f, t int) {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	i, _ = strconv.Atoi(intPart)
	if frac == "" {
		return i, 0, 0, 0, 0
	}
	v = len(frac)
	f, _ = strconv.Atoi(frac)
	trimmed := strings.TrimRight(frac, "0")
	w = len(trimmed)
	if trimmed != "" {
		t, _ = strconv.Atoi(trimmed)
	}
	return i, v, w, f, t
}

// dateTimeFormat renders the en-US shapes of the Intl options the format
// table produces. It is not a general CLDR date formatter.
type dateTimeFormat struct {
	opts *Object
}

func newDateTimeFormat(args []any) (any, error) {
	if _, err := localeArg(args); err != nil {
		return nil, err
	}
	return &dateTimeFormat{opts: optionsArg(args)}, nil
}

func (d *dateTimeFormat) member(name string) (any, bool) {
	if name != "format" {
		return nil, false
	}
	return builtin(func(args []any) (any, error) {
		if len(args) == 0 {
			return "Invalid Date", nil
		}
		t, ok := asDate(args[0])
		if !ok {
			return "Invalid Date", nil
		}
		return d.format(t), nil
	}), true
}

func asDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case float64:
		if math.IsNaN(x) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)).UTC(), true
	}
	return time.Time{}, false
}

func (d *dateTimeFormat) format(t time.Time) string {
	o := d.opts
	hasDate := o.str("year") != "" || o.str("month") != "" || o.str("day") != "" || o.str("weekday") != ""
	hasTime := o.str("hour") != "" || o.str("minute") != "" || o.str("second") != ""
	if !hasDate && !hasTime {
		return t.Format("1/2/2006")
	}

	var parts []string
	if hasDate {
		parts = append(parts, d.datePart(t))
	}
	if hasTime {
		layout := "3"
		if o.str("minute") != "" {
			layout += ":04"
		}
		if o.str("second") != "" {
			layout += ":05"
		}
		layout += " PM"
		if o.str("timeZoneName") != "" {
			layout += " MST"
		}
		parts = append(parts, t.Format(layout))
	}
	return strings.Join(parts, ", ")
}

func (d *dateTimeFormat) datePart(t time.Time) string {
	o := d.opts
	year := ""
	switch o.str("year") {
	case "numeric":
		year = t.Format("2006")
	case "2-digit":
		year = t.Format("06")
	}
	day := ""
	switch o.str("day") {
	case "numeric":
		day = t.Format("2")
	case "2-digit":
		day = t.Format("02")
	}

	var out string
	switch month := o.str("month"); month {
	case "numeric", "2-digit", "":
		layout := "1"
		if month == "2-digit" {
			layout = "01"
		}
		fields := make([]string, 0, 3)
		if month != "" {
			fields = append(fields, t.Format(layout))
		}
		if day != "" {
			fields = append(fields, day)
		}
		if year != "" {
			fields = append(fields, year)
		}
		out = strings.Join(fields, "/")
	default:
		name := t.Format("January")
		if month == "short" {
			name = t.Format("Jan")
		}
		out = name
		if day != "" {
			out += " " + day
		}
		if year != "" {
			out += ", " + year
		}
	}
	switch o.str("weekday") {
	case "long":
		out = joinNonEmpty(t.Format("Monday"), out)
	case "short":
		out = joinNonEmpty(t.Format("Mon"), out)
	}
	return out
}

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	return a + ", " + b
}
