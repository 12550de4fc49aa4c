package thompson

import (
	"errors"
	"fmt"

	"github.com/qlcliu/thompson/nfa"
)

// PatternError reports a pattern that cannot be compiled.
//
// Err is the underlying compiler error; errors.Is reaches the nfa sentinels
// such as nfa.ErrMissingOperand.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	var ce *nfa.CompileError
	if errors.As(e.Err, &ce) {
		if ce.Pos >= 0 {
			return fmt.Sprintf("thompson: invalid pattern %q: postfix symbol %d: %v", e.Pattern, ce.Pos, ce.Err)
		}
		return fmt.Sprintf("thompson: invalid pattern %q: %v", e.Pattern, ce.Err)
	}
	return fmt.Sprintf("thompson: invalid pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
