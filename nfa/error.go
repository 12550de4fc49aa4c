// Package nfa provides a Thompson NFA for whole-string regex matching.
//
// The Compiler turns a postfix symbol stream from package syntax into an NFA
// by composing fragments and backpatching their dangling successor slots.
// The PikeVM simulates the NFA over an input string by advancing every live
// state in lockstep, so matching never backtracks and runs in
// O(len(text) * states).
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrMissingOperand indicates an operator with fewer operands than it needs,
	// e.g. a pattern starting with '*' or an empty alternation branch.
	ErrMissingOperand = errors.New("operator is missing an operand")

	// ErrUnbalanced indicates that compilation left more than one fragment,
	// meaning the operators did not join all operands.
	ErrUnbalanced = errors.New("malformed pattern: operands left unjoined")

	// ErrUnexpectedSymbol indicates a symbol that cannot appear in postfix input,
	// such as a group boundary.
	ErrUnexpectedSymbol = errors.New("unexpected symbol in postfix input")

	// ErrTooComplex indicates the automaton would exceed the configured state limit
	ErrTooComplex = errors.New("pattern too complex")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	// Pos is the index in the postfix stream where compilation failed, or -1.
	Pos int
	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("NFA compilation failed for pattern %q at postfix symbol %d: %v", e.Pattern, e.Pos, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error found while validating a Builder's states
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
