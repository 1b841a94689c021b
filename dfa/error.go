package dfa

import "fmt"

// Sentinels for errors.Is. A *DFAError matches any sentinel of its kind.
var (
	// ErrStateLimitExceeded: subset construction needed more states than
	// Config.MaxStates. Typical of (a|b)*a(a|b){n}, which needs 2^(n+1)
	// states.
	ErrStateLimitExceeded = &DFAError{Kind: StateLimitExceeded, Message: "DFA state limit exceeded"}

	// ErrInvalidConfig: Config.Validate failed.
	ErrInvalidConfig = &DFAError{Kind: InvalidConfig, Message: "invalid DFA configuration"}
)

// ErrorKind is the category of a DFAError.
type ErrorKind uint8

const (
	StateLimitExceeded ErrorKind = iota
	InvalidConfig
	// Internal is a broken automaton invariant, never a property of the
	// input pattern.
	Internal
)

var kindNames = [...]string{
	StateLimitExceeded: "StateLimitExceeded",
	InvalidConfig:      "InvalidConfig",
	Internal:           "Internal",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("UnknownErrorKind(%d)", k)
}

// DFAError is returned by Build and Config.Validate.
type DFAError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func limitError(max uint32) *DFAError {
	return &DFAError{
		Kind:    StateLimitExceeded,
		Message: ErrStateLimitExceeded.Message,
		Cause:   fmt.Errorf("more than %d states", max),
	}
}

func configError(format string, args ...any) *DFAError {
	return &DFAError{Kind: InvalidConfig, Message: fmt.Sprintf(format, args...)}
}

func (e *DFAError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *DFAError) Unwrap() error {
	return e.Cause
}

// Is matches any *DFAError of the same kind.
func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	return ok && t.Kind == e.Kind
}
