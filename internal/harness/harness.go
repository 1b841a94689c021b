// Package harness checks the compiler and matcher against pattern corpora
// and suites, reporting every failure to a report.Sink.
package harness

import (
	"errors"

	"github.com/coregx/dfaregex"
	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/internal/corpus"
	"github.com/coregx/dfaregex/internal/report"
	"github.com/coregx/dfaregex/nfa"
)

// seed is the pattern Put starts from when checking that both ways of
// compiling a pattern agree.
const seed = "a"

// Result counts the checks made and the checks that failed.
type Result struct {
	Checks   int
	Failures int
}

// OK reports whether every check passed.
func (r Result) OK() bool {
	return r.Failures == 0
}

// Checker runs checks with one configuration.
type Checker struct {
	sink   *report.Sink
	config dfaregex.Config
	result Result
}

// New returns a checker reporting to sink.
func New(sink *report.Sink, config dfaregex.Config) *Checker {
	return &Checker{sink: sink, config: config}
}

// Result returns the counts accumulated so far.
func (c *Checker) Result() Result {
	return c.result
}

func (c *Checker) fail(format string, args ...any) bool {
	c.result.Failures++
	c.sink.Printf(report.Error, format, args...)
	return false
}

// compileErr reports an error that is not an invalid pattern. Internal
// errors are exceptions.
func (c *Checker) compileErr(pattern string, err error) bool {
	c.result.Failures++
	if errors.Is(err, nfa.ErrInternal) {
		c.sink.Report(report.Exception, report.Runtime, err.Error())
		return false
	}
	c.sink.Printf(report.Error, "RE: %s: %v", char.GlyphString(pattern), err)
	return false
}

// both compiles pattern with Compile and with Put on a seeded Regexp.
func (c *Checker) both(pattern string) (direct *dfaregex.Regexp, errDirect error, put *dfaregex.Regexp, errPut error) {
	direct, errDirect = dfaregex.CompileWithConfig(pattern, c.config)
	put, err := dfaregex.CompileWithConfig(seed, c.config)
	if err != nil {
		return direct, errDirect, nil, err
	}
	errPut = put.Put(pattern)
	return direct, errDirect, put, errPut
}

// Valid checks that pattern compiles both ways into Equal results.
func (c *Checker) Valid(pattern string) bool {
	c.result.Checks++
	direct, errDirect, put, errPut := c.both(pattern)
	switch {
	case errDirect != nil:
		return c.compileErr(pattern, errDirect)
	case errPut != nil:
		return c.compileErr(pattern, errPut)
	case !direct.Equal(put):
		return c.fail("RE: %s: Compile and Put disagree", char.GlyphString(pattern))
	}
	return true
}

// Invalid checks that pattern is rejected both ways as an invalid pattern.
func (c *Checker) Invalid(pattern string) bool {
	c.result.Checks++
	_, errDirect, _, errPut := c.both(pattern)
	for _, err := range []error{errDirect, errPut} {
		if err == nil {
			return c.fail("RE: %s: accepted", char.GlyphString(pattern))
		}
		if !errors.Is(err, nfa.ErrInvalidPattern) {
			return c.compileErr(pattern, err)
		}
	}
	return true
}

// Match checks whole-text acceptance.
func (c *Checker) Match(mc corpus.MatchCase) bool {
	c.result.Checks++
	re, err := dfaregex.CompileWithConfig(mc.Pattern, c.config)
	if err != nil {
		return c.compileErr(mc.Pattern, err)
	}
	ok := true
	for _, s := range mc.Accept {
		if !re.Match(s) {
			ok = c.fail("RE: %s: %s not matched", char.GlyphString(mc.Pattern), char.GlyphString(s))
		}
	}
	for _, s := range mc.Reject {
		if re.Match(s) {
			ok = c.fail("RE: %s: %s matched", char.GlyphString(mc.Pattern), char.GlyphString(s))
		}
	}
	return ok
}

// Search checks the matches found in a text, their text and positions.
func (c *Checker) Search(sc corpus.SearchCase) bool {
	c.result.Checks++
	re, err := dfaregex.CompileWithConfig(sc.Pattern, c.config)
	if err != nil {
		return c.compileErr(sc.Pattern, err)
	}
	got := re.Search(sc.Text)
	if len(got) != len(sc.Matches) {
		return c.fail("RE: %s: %d matches, want %d", char.GlyphString(sc.Pattern), len(got), len(sc.Matches))
	}
	ok := true
	for i, want := range sc.Matches {
		m := got[i]
		if m.String() != want.Text || m.Line() != want.Line || m.Column() != want.Column {
			ok = c.fail("RE: %s: match %d is %s at %s, want %s at %d:%d",
				char.GlyphString(sc.Pattern), i+1,
				char.GlyphString(m.String()), m.Position(),
				char.GlyphString(want.Text), want.Line, want.Column)
		}
	}
	return ok
}

// Lists checks a valid and an invalid pattern list.
func (c *Checker) Lists(valid, invalid []string) {
	for _, p := range valid {
		c.Valid(p)
	}
	for _, p := range invalid {
		c.Invalid(p)
	}
}

// RunSuite runs every check of s with the suite's configuration.
func RunSuite(s *corpus.Suite, sink *report.Sink) Result {
	c := New(sink, s.Configuration())
	c.Lists(s.Valid, s.Invalid)
	for _, mc := range s.Match {
		c.Match(mc)
	}
	for _, sc := range s.Search {
		c.Search(sc)
	}
	r := c.Result()
	name := s.Name
	if name == "" {
		name = "suite"
	}
	sink.Printf(report.Notice, "%s: %d checks, %d failed", name, r.Checks, r.Failures)
	return r
}
