package skeleton

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Option is one entry of an Intl formatter option object.
// Value is a string, a float64 or a bool.
type Option struct {
	Key   string
	Value any
}

// Options is an ordered Intl option object.
type Options []Option

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key or appends a new entry.
func (o Options) Set(key string, value any) Options {
	value = normalizeValue(value)
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Option{Key: key, Value: value})
}

// Clone returns an independent copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	copy(out, o)
	return out
}

// Canonical renders a stable, type-tagged encoding with keys sorted, so that
// option objects differing only in key order share one encoding.
func (o Options) Canonical() string {
	sorted := o.Clone()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	var b strings.Builder
	b.WriteByte('{')
	for i, opt := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(opt.Key))
		b.WriteByte(':')
		switch v := opt.Value.(type) {
		case string:
			b.WriteString("s")
			b.WriteString(strconv.Quote(v))
		case float64:
			b.WriteString("n")
			b.WriteString(FormatNumber(v))
		case bool:
			b.WriteString("b")
			b.WriteString(strconv.FormatBool(v))
		default:
			fmt.Fprintf(&b, "?%v", v)
		}
	}
	b.WriteByte('}')
	return b.String()
}

// FromMap converts a decoded configuration table into Options with keys in
// sorted order. Integers are widened to float64.
func FromMap(m map[string]any) (Options, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Options, 0, len(keys))
	for _, k := range keys {
		v := normalizeValue(m[k])
		switch v.(type) {
		case string, float64, bool:
		default:
			return nil, fmt.Errorf("option %q: unsupported value %v (%T)", k, m[k], m[k])
		}
		out = append(out, Option{Key: k, Value: v})
	}
	return out, nil
}

// FormatNumber renders v the way a JavaScript engine prints a number literal.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	case v == math.Trunc(v) && math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}
