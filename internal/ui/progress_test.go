package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"icuc/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("compile", []string{"en.json", "de.json"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "en.json", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})
	if got := m.items[0].label(); got != "compiling" {
		t.Fatalf("label = %q, want compiling", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(buildpipeline.Event{File: "en.json", Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone, Elapsed: 1500 * time.Microsecond})
	m.applyEvent(buildpipeline.Event{
		File: "de.json", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError,
		Err: errors.New("de.json#x: missing other case\nmore detail"),
	})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	if done, failed := m.counts(); done != 1 || failed != 1 {
		t.Fatalf("counts = %d/%d", done, failed)
	}

	m.applyEvent(buildpipeline.Event{File: "unknown.json", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusError})

	view := m.View()
	for _, want := range []string{"failed", "compile: 2/2 catalogs, 1 failed", "en.json", "1.5ms", "missing other case"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "more detail") {
		t.Errorf("view should only show the first error line:\n%s", view)
	}
}

func TestProgressModelLimitsRows(t *testing.T) {
	files := make([]string, 12)
	for i := range files {
		files[i] = string(rune('a'+i)) + ".json"
	}
	m := NewProgressModel("check", files, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	for _, f := range files[:11] {
		m.applyEvent(buildpipeline.Event{File: f, Status: buildpipeline.StatusDone})
	}

	rows, hidden := m.visible()
	if len(rows) != minRows || hidden != len(files)-minRows {
		t.Fatalf("rows=%d hidden=%d", len(rows), hidden)
	}
	if rows[0].path != "l.json" {
		t.Fatalf("unfinished catalog should come first, got %q", rows[0].path)
	}
	if !strings.Contains(m.View(), "... and 7 more") {
		t.Errorf("missing overflow line:\n%s", m.View())
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	m := NewProgressModel("compile", []string{"en.json"}, nil).(*progressModel)
	_, cmd := m.Update(closedMsg{})
	if !m.finished || cmd == nil {
		t.Fatalf("expected quit after events closed")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"messages/en.json", 10, "message..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
