package skeleton

import "fmt"

// SyntaxError reports a token that cannot be converted. Offset is the byte
// offset of the token inside the skeleton text.
type SyntaxError struct {
	Offset int
	Token  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("skeleton token %q at %d: %s", e.Token, e.Offset, e.Reason)
}
