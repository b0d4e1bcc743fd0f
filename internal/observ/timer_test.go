package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "4 KiB")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(42, "ignored")

	assert.GreaterOrEqual(t, tm.Elapsed(load), time.Millisecond)
	assert.Zero(t, tm.Elapsed(-1))

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "load", r.Phases[0].Name)
	assert.Equal(t, "4 KiB", r.Phases[0].Note)
	assert.InDelta(t, r.Phases[0].DurationMS+r.Phases[1].DurationMS, r.TotalMS, 1e-9)
	assert.Equal(t, Report{}, NewTimer().Report())
}

func TestAggregateAndSummary(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "parse", DurationMS: 2, Note: "x"}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "cache", DurationMS: 0.5}, {Name: "load", DurationMS: 3.5}}}

	sum := Aggregate(a, b)
	assert.Equal(t, 7.0, sum.TotalMS)
	assert.Equal(t, []PhaseReport{
		{Name: "load", DurationMS: 4.5},
		{Name: "parse", DurationMS: 2},
		{Name: "cache", DurationMS: 0.5},
	}, sum.Phases)

	var sb strings.Builder
	require.NoError(t, a.WriteSummary(&sb))
	out := sb.String()
	assert.Contains(t, out, "timings:\n")
	assert.Contains(t, out, "parse             2.00 ms  // x")
	assert.Contains(t, out, "total             3.00 ms")
}
