package diag

import (
	"fmt"

	"icuc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested textual change that resolves a diagnostic.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Error implements error so a diagnostic can travel through error returns.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %s", d.Code.ID(), d.Primary, d.Message)
}
