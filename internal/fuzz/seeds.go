package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 16 << 10 // 16 KiB, ограничение для одного сообщения
	maxFuzzInput = maxSeedBytes
)

var messageSeeds = []string{
	"",
	"Hello, world!",
	"Hello, {name}!",
	"{count, number}",
	"{count, number, ::currency/EUR .00}",
	"{when, date, short} at {when, time, ::hhmm}",
	"{gender, select, male {He} female {She} other {They}}",
	"{n, plural, offset:1 =0 {nobody} one {# other} other {# others}}",
	"{n, selectordinal, one {#st} two {#nd} few {#rd} other {#th}}",
	"<b>bold {name}</b> and <br/>",
	"<a>{n, plural, other {<i>#</i>}}</a>",
	"It''s '{escaped}' and '<tag>'",
	"{a, select, x {{b, plural, other {{c}}}} other {}}",
	"{unclosed",
	"<open>no close",
	"{n, plural, one {x}}",
	"{x, number, ::}",
	"'",
	"}",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range messageSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
