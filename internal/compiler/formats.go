package compiler

import "icuc/internal/skeleton"

// FormatKind is the formatter family of a number/date/time argument.
type FormatKind uint8

const (
	FormatNumber FormatKind = iota
	FormatDate
	FormatTime
)

func (k FormatKind) String() string {
	switch k {
	case FormatDate:
		return "date"
	case FormatTime:
		return "time"
	default:
		return "number"
	}
}

// constructor is the Intl member that builds formatters of this kind.
func (k FormatKind) constructor() string {
	if k == FormatNumber {
		return "NumberFormat"
	}
	return "DateTimeFormat"
}

// Formats holds named style presets per formatter kind.
type Formats struct {
	Number map[string]skeleton.Options
	Date   map[string]skeleton.Options
	Time   map[string]skeleton.Options
}

func opts(kv ...any) skeleton.Options {
	var o skeleton.Options
	for i := 0; i+1 < len(kv); i += 2 {
		o = o.Set(kv[i].(string), kv[i+1])
	}
	return o
}

// DefaultFormats returns the built-in presets.
func DefaultFormats() Formats {
	return Formats{
		Number: map[string]skeleton.Options{
			"integer":  opts("maximumFractionDigits", 0),
			"currency": opts("style", "currency", "currency", "USD"),
			"percent":  opts("style", "percent"),
		},
		Date: map[string]skeleton.Options{
			"short":  opts("month", "numeric", "day", "numeric", "year", "2-digit"),
			"medium": opts("month", "short", "day", "numeric", "year", "numeric"),
			"long":   opts("month", "long", "day", "numeric", "year", "numeric"),
			"full":   opts("weekday", "long", "month", "long", "day", "numeric", "year", "numeric"),
		},
		Time: map[string]skeleton.Options{
			"short":  opts("hour", "numeric", "minute", "numeric"),
			"medium": opts("hour", "numeric", "minute", "numeric", "second", "numeric"),
			"long":   opts("hour", "numeric", "minute", "numeric", "second", "numeric", "timeZoneName", "short"),
			"full":   opts("hour", "numeric", "minute", "numeric", "second", "numeric", "timeZoneName", "short"),
		},
	}
}

// merge overlays o on the defaults; each overriding style replaces the
// default style of the same name as a whole.
func (f Formats) merge(o Formats) Formats {
	return Formats{
		Number: overlay(f.Number, o.Number),
		Date:   overlay(f.Date, o.Date),
		Time:   overlay(f.Time, o.Time),
	}
}

func overlay(base, over map[string]skeleton.Options) map[string]skeleton.Options {
	out := make(map[string]skeleton.Options, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func (f Formats) table(kind FormatKind) map[string]skeleton.Options {
	switch kind {
	case FormatDate:
		return f.Date
	case FormatTime:
		return f.Time
	default:
		return f.Number
	}
}

// lookup resolves a named preset. "decimal" is the plain number format.
func (f Formats) lookup(kind FormatKind, name string) (skeleton.Options, bool) {
	if kind == FormatNumber && name == "decimal" {
		if o, ok := f.Number[name]; ok {
			return o, true
		}
		return nil, true
	}
	o, ok := f.table(kind)[name]
	return o, ok
}
