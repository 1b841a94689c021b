// Package nfa parses regular expressions into Thompson NFAs.
//
// The NFA is an index arena: states live in one slice and refer to each other
// by StateID. Fragments are combined with the classic Thompson operations
// (concatenation, alternation, Kleene/positive/optional closure) and bounded
// repetition is expanded by structural copies. The resulting automaton is the
// input to subset construction in package dfa.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidPattern matches every *CompileError via errors.Is
	ErrInvalidPattern = errors.New("invalid regular expression")

	// ErrEmptyPattern indicates a zero-length pattern
	ErrEmptyPattern = errors.New("empty regular expression")

	// ErrInvalidCharacter indicates an unexpected token
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrInvalidRange indicates a class range whose bounds are not ascending
	ErrInvalidRange = errors.New("invalid character range")

	// ErrInvalidEscape indicates a malformed escape sequence
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrInvalidRepeat indicates an out-of-range {m,n} count
	ErrInvalidRepeat = errors.New("invalid repetition count")

	// ErrTooComplex indicates nesting beyond the configured depth
	ErrTooComplex = errors.New("pattern too complex")

	// ErrMatchesAnyString indicates the accept state is reachable through
	// epsilon transitions alone
	ErrMatchesAnyString = errors.New("pattern matches any string")

	// ErrInvalidConfig indicates invalid compiler configuration
	ErrInvalidConfig = errors.New("invalid NFA configuration")

	// ErrInternal indicates a violated internal invariant (a bug, not bad input)
	ErrInternal = errors.New("internal NFA error")
)

// CompileError is returned for every pattern that fails to parse or
// validate. Message is the complete human-readable diagnostic including the
// glyph-escaped source pattern.
type CompileError struct {
	Pattern string
	Offset  int // rune offset of the lookahead when the error was detected
	Message string
	Err     error // specific cause, one of the Err* sentinels
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return e.Message
}

// Unwrap returns the specific cause
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is makes every CompileError match ErrInvalidPattern.
func (e *CompileError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// InternalError reports a broken invariant inside the automaton code.
// Callers should treat it as fatal.
type InternalError struct {
	Op      string
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("nfa: %s: %s (state %d)", e.Op, e.Message, e.StateID)
	}
	return fmt.Sprintf("nfa: %s: %s", e.Op, e.Message)
}

// Is makes every InternalError match ErrInternal.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}
