package fuzztests

import (
	"errors"
	"testing"
	"time"

	"icuc/internal/codegen"
	"icuc/internal/compiler"
	"icuc/internal/diag"
	"icuc/internal/parser"
	"icuc/internal/source"
)

// parseTimeout is the maximum time allowed for one input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		bag := diag.NewBag(16)
		_, _, ok := parser.ParseString(fs, "fuzz#msg", string(input), parser.Options{
			MaxErrors: 1,
			Reporter:  diag.BagReporter{Bag: bag},
		})
		if !ok && !bag.HasErrors() {
			t.Fatalf("parse failed without a diagnostic: %q", input)
		}
		if ok && bag.HasErrors() {
			t.Fatalf("parse succeeded with errors: %q", input)
		}
	})
}

// FuzzCompilerNoPanic compiles whatever parses, for both targets, and prints
// the program. Failures must surface as *compiler.Error.
func FuzzCompilerNoPanic(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		for _, target := range []compiler.Target{compiler.TargetTree, compiler.TargetString} {
			m := compiler.NewModule(nil, compiler.Options{Target: target})
			if err := m.AddMessage("msg", string(input)); err != nil {
				var cerr *compiler.Error
				if !errors.As(err, &cerr) {
					t.Fatalf("unexpected error type %T: %v", err, err)
				}
				continue
			}
			res, err := m.Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if out := codegen.Print(res.Program, codegen.Options{}); out == "" {
				t.Fatalf("empty output for %q", input)
			}
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// глубокая вложенность и незакрытые конструкции
	f.Add([]byte("{a, select, x {{a, select, x {{a, select, x {}}}}}}"))
	f.Add([]byte("<a><b><c><d></d></c></b>"))
	f.Add([]byte("''''''''{"))
	f.Add([]byte("{n, plural, offset:"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			_, _, _ = parser.ParseString(fs, "fuzz#msg", string(input), parser.Options{
				Reporter: diag.BagReporter{Bag: diag.NewBag(16)},
			})
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
