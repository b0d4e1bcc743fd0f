package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"icuc/internal/diag"
	"icuc/internal/source"
)

// DeclarationsExt is the extension of generated type declarations.
const DeclarationsExt = ".d.ts"

// outputPaths maps an input catalog to its generated module and, when
// requested, its declaration file. messages/en.json becomes messages/en.js,
// or <out_dir>/messages/en.js when BaseDir contains the input.
func outputPaths(input, ext string, withDeclarations bool, opts *Options) (module, declarations string) {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if opts.OutDir != "" {
		rel := filepath.Base(stem)
		if opts.BaseDir != "" {
			if r, err := relativeTo(stem, opts.BaseDir); err == nil {
				rel = r
			}
		}
		stem = filepath.Join(opts.OutDir, rel)
	}
	module = stem + ext
	if withDeclarations {
		declarations = stem + DeclarationsExt
	}
	return module, declarations
}

func relativeTo(path, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, base)
	}
	return rel, nil
}

// write stores the generated module and declarations. Failures become
// IOWriteFileError diagnostics.
func (r *FileResult) write(tr *phaseTracker) {
	idx := tr.begin(PhaseWrite)
	err := writeOutput(r.Output, r.Code)
	if err == nil && r.DeclarationsPath != "" {
		err = writeOutput(r.DeclarationsPath, r.Declarations)
	}
	tr.end(idx, PhaseWrite, r.Output, err)
	if err != nil {
		r.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{}, err.Error()))
		r.Err = err
	}
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	// #nosec G306 -- generated sources are meant to be world-readable
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
