package skeleton

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		skeleton string
		want     Options
	}{
		{"percent", Options{{"style", "percent"}}},
		{"currency/eur .00", Options{{"style", "currency"}, {"currency", "EUR"}, {"minimumFractionDigits", 2.0}, {"maximumFractionDigits", 2.0}}},
		{"compact-short", Options{{"notation", "compact"}, {"compactDisplay", "short"}}},
		{"KK", Options{{"notation", "compact"}, {"compactDisplay", "long"}}},
		{".##", Options{{"minimumFractionDigits", 0.0}, {"maximumFractionDigits", 2.0}}},
		{".0#", Options{{"minimumFractionDigits", 1.0}, {"maximumFractionDigits", 2.0}}},
		{".00+", Options{{"minimumFractionDigits", 2.0}}},
		{".00/w", Options{{"minimumFractionDigits", 2.0}, {"maximumFractionDigits", 2.0}, {"trailingZeroDisplay", "stripIfInteger"}}},
		{"@@#", Options{{"minimumSignificantDigits", 2.0}, {"maximumSignificantDigits", 3.0}}},
		{"@+", Options{{"minimumSignificantDigits", 1.0}}},
		{"unit/length-meter unit-width-full-name", Options{{"style", "unit"}, {"unit", "meter"}, {"currencyDisplay", "name"}, {"unitDisplay", "long"}}},
		{"unit/kilometer-per-hour", Options{{"style", "unit"}, {"unit", "kilometer-per-hour"}}},
		{"group-off sign-always", Options{{"useGrouping", false}, {"signDisplay", "always"}}},
		{"()!", Options{{"signDisplay", "always"}, {"currencySign", "accounting"}}},
		{"scale/0.5 000", Options{{"scale", 0.5}, {"minimumIntegerDigits", 3.0}}},
		{"integer-width/*00", Options{{"minimumIntegerDigits", 2.0}}},
		{"scientific/+!", Options{{"notation", "scientific"}, {"signDisplay", "always"}}},
		{"precision-integer", Options{{"maximumFractionDigits", 0.0}}},
		{"  percent   percent ", Options{{"style", "percent"}}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.skeleton)
		if err != nil {
			t.Errorf("ParseNumber(%q) error: %v", tt.skeleton, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseNumber(%q) mismatch (-want +got):\n%s", tt.skeleton, diff)
		}
	}
}

func TestParseNumberErrors(t *testing.T) {
	tests := []struct {
		skeleton string
		offset   int
	}{
		{"percent bogus", 8},
		{"currency", 0},
		{"currency/EURO", 0},
		{".#0", 0},
		{"@#@", 0},
		{"integer-width/##0", 0},
		{"scale/abc", 0},
		{".00/xyz", 0},
	}
	for _, tt := range tests {
		_, err := ParseNumber(tt.skeleton)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("ParseNumber(%q): expected SyntaxError, got %v", tt.skeleton, err)
			continue
		}
		if se.Offset != tt.offset {
			t.Errorf("ParseNumber(%q): offset %d, want %d", tt.skeleton, se.Offset, tt.offset)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		skeleton string
		want     Options
	}{
		{"yMMMd", Options{{"year", "numeric"}, {"month", "short"}, {"day", "numeric"}}},
		{"yyMMdd", Options{{"year", "2-digit"}, {"month", "2-digit"}, {"day", "2-digit"}}},
		{"EEEE", Options{{"weekday", "long"}}},
		{"hh:mm a", Options{{"hourCycle", "h12"}, {"hour", "2-digit"}, {"minute", "2-digit"}, {"hour12", true}}},
		{"Hms", Options{{"hourCycle", "h23"}, {"hour", "numeric"}, {"minute", "numeric"}, {"second", "numeric"}}},
		{"LLLLL", Options{{"month", "narrow"}}},
		{"zzzz", Options{{"timeZoneName", "long"}}},
		{"GGGG", Options{{"era", "long"}}},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.skeleton)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tt.skeleton, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseDate(%q) mismatch (-want +got):\n%s", tt.skeleton, diff)
		}
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, s := range []string{"yw", "'at'", "SSSS", "ee", "yMMMdX!"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q): expected error", s)
		}
	}
}

func TestCanonicalIgnoresOrder(t *testing.T) {
	a := Options{}.Set("style", "currency").Set("currency", "USD")
	b := Options{}.Set("currency", "USD").Set("style", "currency")
	if a.Canonical() != b.Canonical() {
		t.Fatalf("canonical forms differ: %s vs %s", a.Canonical(), b.Canonical())
	}
	c := Options{}.Set("minimumFractionDigits", "2")
	d := Options{}.Set("minimumFractionDigits", 2)
	if c.Canonical() == d.Canonical() {
		t.Fatalf("string and number values must not collide")
	}
}

func TestFromMap(t *testing.T) {
	got, err := FromMap(map[string]any{"style": "percent", "maximumFractionDigits": int64(1), "useGrouping": false})
	if err != nil {
		t.Fatal(err)
	}
	want := Options{{"maximumFractionDigits", 1.0}, {"style", "percent"}, {"useGrouping", false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromMap mismatch (-want +got):\n%s", diff)
	}
	if _, err := FromMap(map[string]any{"bad": []string{"x"}}); err == nil {
		t.Errorf("expected error for slice value")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{0: "0", 1.5: "1.5", -2: "-2", 100: "100", 1e21: "1e+21"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
