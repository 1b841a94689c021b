package meta

import (
	"errors"
	"strconv"

	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/literal"
	"github.com/coregx/dfaregex/nfa"
)

// ErrInvalidConfig is matched by every *ConfigError.
var ErrInvalidConfig = errors.New("invalid config")

// Config controls compilation and search.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxDFAStates = 50_000
//	engine, err := meta.CompileWithConfig("(a|b)*c", config)
type Config struct {
	// AllowEmptyMatch accepts patterns that match the empty string, such
	// as a*, a? or (a|b)*. They are rejected by default. When accepted,
	// Match("") reports true for them, but Search never reports an empty
	// match.
	AllowEmptyMatch bool

	// MaxRepeat bounds the counts of {m}, {m,} and {m,n}.
	// Default: 1000
	MaxRepeat int

	// MaxRecursionDepth bounds group nesting in the pattern.
	// Default: 100
	MaxRecursionDepth int

	// MaxDFAStates bounds subset construction. Patterns whose automaton
	// grows beyond it fail to compile with dfa.ErrStateLimitExceeded.
	// Default: 10,000
	MaxDFAStates uint32

	// EnablePrefilter lets Search skip input with a literal prefilter when
	// every match must start with one of a small set of literals.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals is the largest literal set used for prefiltering.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen is the longest literal, in characters, extracted for
	// prefiltering.
	// Default: 16
	MaxLiteralLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AllowEmptyMatch:   false,
		MaxRepeat:         1000,
		MaxRecursionDepth: 100,
		MaxDFAStates:      10_000,
		EnablePrefilter:   true,
		MaxLiterals:       64,
		MaxLiteralLen:     16,
	}
}

// Validate checks that every limit lies in its supported range.
func (c Config) Validate() error {
	if err := checkRange("MaxRepeat", c.MaxRepeat, 1, 100_000); err != nil {
		return err
	}
	if err := checkRange("MaxRecursionDepth", c.MaxRecursionDepth, 1, 10_000); err != nil {
		return err
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1<<24 {
		return &ConfigError{Field: "MaxDFAStates", Message: "must be between 1 and 16,777,216"}
	}
	if c.EnablePrefilter {
		if err := checkRange("MaxLiterals", c.MaxLiterals, 1, 1_000); err != nil {
			return err
		}
		if err := checkRange("MaxLiteralLen", c.MaxLiteralLen, 1, 256); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ConfigError{
			Field:   field,
			Message: "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		}
	}
	return nil
}

// WithAllowEmptyMatch returns a copy of c with AllowEmptyMatch set.
func (c Config) WithAllowEmptyMatch(allow bool) Config {
	c.AllowEmptyMatch = allow
	return c
}

// WithMaxDFAStates returns a copy of c with MaxDFAStates set.
func (c Config) WithMaxDFAStates(n uint32) Config {
	c.MaxDFAStates = n
	return c
}

// WithPrefilter returns a copy of c with EnablePrefilter set.
func (c Config) WithPrefilter(enable bool) Config {
	c.EnablePrefilter = enable
	return c
}

// CompilerConfig returns the parser settings of c.
func (c Config) CompilerConfig() nfa.CompilerConfig {
	return nfa.CompilerConfig{
		AllowEmptyMatch:   c.AllowEmptyMatch,
		MaxRepeat:         c.MaxRepeat,
		MaxRecursionDepth: c.MaxRecursionDepth,
	}
}

// DFAConfig returns the automaton settings of c. Minimization is always on:
// multi-state stepping over negated transitions relies on it.
func (c Config) DFAConfig() dfa.Config {
	return dfa.Config{MaxStates: c.MaxDFAStates, Minimize: true}
}

// LiteralConfig returns the literal extraction settings of c.
func (c Config) LiteralConfig() literal.Config {
	return literal.Config{MaxLiterals: c.MaxLiterals, MaxLiteralLen: c.MaxLiteralLen}
}

// ConfigError reports an out-of-range Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "dfaregex: invalid config: " + e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
