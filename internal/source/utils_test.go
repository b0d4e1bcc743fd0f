package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "en.json")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Errorf("RelativePath = %q, want %q", got, want)
	}
}

func TestRelativePathInsideBase(t *testing.T) {
	tmp := t.TempDir()
	got, err := RelativePath(filepath.Join(tmp, "locales", "en.json"), tmp)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "locales/en.json" {
		t.Errorf("RelativePath = %q", got)
	}
}

func TestToLineColEmptyIndex(t *testing.T) {
	content := []byte("abc")
	if got := toLineCol(content, buildLineIndex(content), 2); got != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("toLineCol = %+v", got)
	}
	// offset right after a newline belongs to the next line
	content = []byte("a\nb")
	if got := toLineCol(content, buildLineIndex(content), 2); got != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("toLineCol after newline = %+v", got)
	}
	if got := toLineCol(content, buildLineIndex(content), 1); got != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("toLineCol at newline = %+v", got)
	}
}
