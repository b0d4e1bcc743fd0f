package compiler

import (
	"errors"
	"fmt"

	"icuc/internal/diag"
	"icuc/internal/source"
)

// ErrModuleFinalized is returned by Module methods called after Build.
var ErrModuleFinalized = errors.New("module already built")

// errStop unwinds the message compiler after its first diagnostic.
var errStop = errors.New("message compilation stopped")

// Position is a 1-based line and column.
type Position struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// Location is the resolved range of a Span.
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Error is a coded compile failure of one message.
type Error struct {
	Code     diag.Code
	Message  string
	Export   string // message the error belongs to, "" for module-level errors
	Path     string
	Span     source.Span
	Location Location
	// Diagnostic carries notes and fixes for diagfmt rendering.
	Diagnostic diag.Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s:%d:%d: %s", e.Code.ID(), e.Path, e.Location.Start.Line, e.Location.Start.Column, e.Message)
}

func newError(fs *source.FileSet, export string, d diag.Diagnostic) *Error {
	start, end := fs.Resolve(d.Primary)
	path := export
	if f := fs.Get(d.Primary.File); f != nil {
		path = f.Path
	}
	return &Error{
		Code:    d.Code,
		Message: d.Message,
		Export:  export,
		Path:    path,
		Span:    d.Primary,
		Location: Location{
			Start: Position{Line: start.Line, Column: start.Col},
			End:   Position{Line: end.Line, Column: end.Col},
		},
		Diagnostic: d,
	}
}
