// Package dfaregex compiles regular expressions into minimized
// deterministic automata and matches them against text.
//
// A pattern goes through three stages: a recursive-descent parser builds a
// Thompson NFA, subset construction turns it into a DFA, and partition
// refinement minimizes the DFA. Matching then only walks the minimal DFA,
// so every Match and Search runs in time linear in the input.
//
// Basic usage:
//
//	re, err := dfaregex.Compile(`(ab|cd)+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.Match("abcd") // true: the whole text must match
//
//	for _, m := range re.Search("xxab\ncdab") {
//	    fmt.Println(m.Position(), m.String()) // 1:3 ab, 2:1 cdab
//	}
//
// Syntax:
//   - literals, escapes (\t \n \r \v \f \0 \cX \xHH \uHHHH \UHHHHHH) and
//     escaped specials such as \. or \(
//   - . (any character except a line break)
//   - classes [abc], ranges [a-z] and negated classes [^abc]
//   - grouping (...), alternation a|b
//   - closures a*, a+, a? and counted repetition a{m}, a{m,}, a{m,n}
//
// Patterns that match the empty string (a*, a?) are rejected unless the
// AllowEmptyMatch option is set.
//
// Line breaks are LF, CR, U+2028 and U+2029; each one starts a new line
// for the positions reported by Search.
package dfaregex

import (
	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/internal/conv"
	"github.com/coregx/dfaregex/meta"
)

// Match is one match reported by Search.
type Match = meta.Match

// Config controls compilation and search. See meta.Config.
type Config = meta.Config

// Stats counts matcher activity. See meta.Stats.
type Stats = meta.Stats

// Regexp is a compiled regular expression.
//
// Match, Search, Find and Count are safe for concurrent use. Put replaces
// the compiled pattern and must not run concurrently with any other method.
//
// Example:
//
//	re := dfaregex.MustCompile(`[^ ]+@[a-z]+`)
//	if re.Match("me@example") {
//	    println("matched!")
//	}
type Regexp struct {
	engine *meta.Engine
	config meta.Config
}

// Compile compiles pattern with the default configuration.
//
// Invalid patterns return an error that matches nfa.ErrInvalidPattern
// with errors.Is.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("dfaregex: Compile(" + char.GlyphString(pattern) + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern with a custom configuration.
//
// Example:
//
//	config := dfaregex.DefaultConfig()
//	config.AllowEmptyMatch = true
//	re, err := dfaregex.CompileWithConfig("a*", config)
func CompileWithConfig(pattern string, config Config) (*Regexp, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Regexp{engine: engine, config: config}, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// Put recompiles re from pattern, keeping its configuration.
//
// Put validates pattern exactly as Compile does. On error re is left
// unchanged. For any valid pattern P, Compile(P) and a Put(P) on another
// Regexp produce Equal results.
func (re *Regexp) Put(pattern string) error {
	engine, err := meta.CompileWithConfig(pattern, re.config)
	if err != nil {
		return err
	}
	re.engine = engine
	return nil
}

// Match reports whether the whole of s matches.
func (re *Regexp) Match(s string) bool {
	return re.engine.Match(conv.StringBytes(s))
}

// MatchBytes reports whether the whole of b matches.
func (re *Regexp) MatchBytes(b []byte) bool {
	return re.engine.Match(b)
}

// Search returns all non-overlapping matches in s from left to right.
// Each match is the longest one starting at its position; empty matches
// are never reported.
func (re *Regexp) Search(s string) []Match {
	return re.engine.Search(conv.StringBytes(s))
}

// SearchBytes is like Search on a byte slice. The matches refer to b.
func (re *Regexp) SearchBytes(b []byte) []Match {
	return re.engine.Search(b)
}

// Find returns the first match in s.
func (re *Regexp) Find(s string) (Match, bool) {
	return re.engine.Find(conv.StringBytes(s))
}

// Count returns the number of matches Search would return for s.
func (re *Regexp) Count(s string) int {
	return re.engine.Count(conv.StringBytes(s))
}

// Equal reports whether re and other were compiled from the same pattern
// into structurally identical automata.
func (re *Regexp) Equal(other *Regexp) bool {
	if re == nil || other == nil {
		return re == other
	}
	return re.String() == other.String() &&
		re.IsNegated() == other.IsNegated() &&
		dfa.Equal(re.engine.DFA(), other.engine.DFA())
}

// String returns the source pattern.
func (re *Regexp) String() string {
	return re.engine.Pattern()
}

// Config returns the configuration re was compiled with.
func (re *Regexp) Config() Config {
	return re.config
}

// DFA returns the minimized automaton. It must not be modified.
func (re *Regexp) DFA() *dfa.DFA {
	return re.engine.DFA()
}

// Alphabet returns the sorted characters the automaton distinguishes.
// Characters of negated classes carry the char.Negated flag.
func (re *Regexp) Alphabet() []char.Char {
	return re.engine.DFA().Alphabet()
}

// IsNegated reports whether the pattern contains a negated class or a dot,
// in which case matching tracks several automaton states at once.
func (re *Regexp) IsNegated() bool {
	return re.engine.DFA().IsNegated()
}

// NumStates returns the number of states of the minimized automaton.
func (re *Regexp) NumStates() int {
	return re.engine.DFA().States()
}

// Stats returns a snapshot of the matcher counters.
func (re *Regexp) Stats() Stats {
	return re.engine.Stats()
}

// ResetStats zeroes the matcher counters.
func (re *Regexp) ResetStats() {
	re.engine.ResetStats()
}

// QuoteMeta escapes every special character of s, so that the result
// matches s literally.
func QuoteMeta(s string) string {
	var n int
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	b := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i]) {
			b = append(b, '\\')
		}
		b = append(b, s[i])
	}
	return string(b)
}

func isSpecial(c byte) bool {
	switch c {
	case '(', ')', '*', '+', '.', '?', '[', '\\', ']', '{', '|', '}':
		return true
	}
	return false
}
