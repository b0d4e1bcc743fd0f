package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"icuc/internal/diag"
	"icuc/internal/diagfmt"
	"icuc/internal/driver"
)

type diagOptions struct {
	format    string // pretty|json|short
	color     bool
	withNotes bool
	suggest   bool
	fullPath  bool
	// minSeverity hides diagnostics below it; errors are never hidden
	minSeverity diag.Severity
}

func readDiagFormat(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "pretty":
		return "pretty", nil
	case "json", "short":
		return v, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|json|short)", value)
	}
}

// printDiagnostics renders every file's bag. Each file has its own FileSet,
// so JSON output is merged into a single document here.
func printDiagnostics(out io.Writer, files []driver.FileResult, opts diagOptions) error {
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if opts.minSeverity > diag.SevInfo {
		minSev := min(opts.minSeverity, diag.SevError)
		for i := range files {
			if files[i].Bag != nil {
				files[i].Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= minSev })
			}
		}
	}

	switch opts.format {
	case "json":
		merged := diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.suggest,
		}
		for i := range files {
			f := &files[i]
			if f.Bag == nil {
				continue
			}
			f.Bag.Sort()
			part := diagfmt.BuildDiagnosticsOutput(f.Bag, f.FileSet, jsonOpts)
			merged.Diagnostics = append(merged.Diagnostics, part.Diagnostics...)
		}
		merged.Count = len(merged.Diagnostics)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(merged)

	case "short":
		for i := range files {
			f := &files[i]
			if f.Bag == nil || f.Bag.Len() == 0 {
				continue
			}
			f.Bag.Sort()
			if text := diag.FormatShortDiagnostics(f.Bag.Items(), f.FileSet, opts.withNotes); text != "" {
				if _, err := fmt.Fprintln(out, text); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: opts.withNotes,
			ShowFixes: opts.suggest,
		}
		first := true
		for i := range files {
			f := &files[i]
			if f.Bag == nil || f.Bag.Len() == 0 {
				continue
			}
			if !first {
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
			}
			first = false
			f.Bag.Sort()
			diagfmt.Pretty(out, f.Bag, f.FileSet, prettyOpts)
		}
		return nil
	}
}

func countDiagnostics(files []driver.FileResult) (errs, others int) {
	for i := range files {
		if files[i].Bag == nil {
			continue
		}
		for _, d := range files[i].Bag.Items() {
			if d.Severity >= diag.SevError {
				errs++
			} else {
				others++
			}
		}
	}
	return errs, others
}
