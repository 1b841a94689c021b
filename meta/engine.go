// Package meta ties the compilation pipeline together and runs the
// matcher.
//
// Compilation parses the pattern into an NFA, determinizes and minimizes
// it, and extracts a literal prefilter when every match begins with one of
// a few literals. The NFA is discarded afterwards; matching only uses the
// minimized DFA.
//
// Matching walks the DFA one character at a time. When some transition is
// negated the engine tracks a set of live states (UseMultiState), otherwise
// a single state (UseSingleState).
package meta

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/literal"
	"github.com/coregx/dfaregex/nfa"
	"github.com/coregx/dfaregex/prefilter"
)

// Engine is a compiled pattern.
//
// Match and Search are safe for concurrent use; each call takes its scratch
// space from a pool.
type Engine struct {
	// first for 64-bit alignment of the atomic counters on 32-bit platforms
	stats Stats

	pattern   string
	config    Config
	nfaStates int
	dfa       *dfa.DFA
	strategy  Strategy
	literals  *literal.Seq
	prefilter prefilter.Prefilter
	pool      *searchStatePool
}

// Stats counts engine activity. Counters are updated atomically.
type Stats struct {
	// MatchCalls is the number of Match calls.
	MatchCalls uint64

	// SearchCalls is the number of Search and Find calls.
	SearchCalls uint64

	// Matches is the number of matches reported by Search and Find.
	Matches uint64

	// PrefilterCandidates is the number of positions proposed by the
	// prefilter.
	PrefilterCandidates uint64

	// PrefilterRetired is the number of scans in which the prefilter was
	// abandoned for poor selectivity.
	PrefilterRetired uint64
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern. Compilation is all-or-nothing: on
// error no engine is returned.
//
// Errors are *nfa.CompileError for invalid patterns, *dfa.DFAError when
// the automaton exceeds MaxDFAStates and *ConfigError for a bad config.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	n, err := nfa.NewCompiler(config.CompilerConfig()).Compile(pattern)
	if err != nil {
		return nil, err
	}
	d, err := dfa.CompileWithConfig(n, config.DFAConfig())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pattern:   pattern,
		config:    config,
		nfaStates: n.States(),
		dfa:       d,
		strategy:  SelectStrategy(d),
	}
	if config.EnablePrefilter {
		e.literals = literal.Extract(d, config.LiteralConfig())
		e.prefilter = prefilter.New(e.literals)
	}
	e.pool = newSearchStatePool(d, e.prefilter)
	return e, nil
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// DFA returns the minimized automaton.
func (e *Engine) DFA() *dfa.DFA {
	return e.dfa
}

// NFAStates returns the number of states of the NFA the automaton was
// built from.
func (e *Engine) NFAStates() int {
	return e.nfaStates
}

// Strategy returns the walking strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Literals returns the required literal prefixes, or nil.
func (e *Engine) Literals() *literal.Seq {
	return e.literals
}

// Prefilter returns the prefilter used by Search, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() Stats {
	return Stats{
		MatchCalls:          atomic.LoadUint64(&e.stats.MatchCalls),
		SearchCalls:         atomic.LoadUint64(&e.stats.SearchCalls),
		Matches:             atomic.LoadUint64(&e.stats.Matches),
		PrefilterCandidates: atomic.LoadUint64(&e.stats.PrefilterCandidates),
		PrefilterRetired:    atomic.LoadUint64(&e.stats.PrefilterRetired),
	}
}

// ResetStats zeroes the counters.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.MatchCalls, 0)
	atomic.StoreUint64(&e.stats.SearchCalls, 0)
	atomic.StoreUint64(&e.stats.Matches, 0)
	atomic.StoreUint64(&e.stats.PrefilterCandidates, 0)
	atomic.StoreUint64(&e.stats.PrefilterRetired, 0)
}

// Match reports whether the automaton accepts all of haystack.
// Invalid UTF-8 bytes read as U+FFFD, one per byte.
func (e *Engine) Match(haystack []byte) bool {
	atomic.AddUint64(&e.stats.MatchCalls, 1)
	if e.strategy == UseSingleState {
		return e.matchSingle(haystack)
	}
	state := e.pool.get()
	defer e.pool.put(state)
	return e.matchMulti(haystack, state)
}

func (e *Engine) matchSingle(h []byte) bool {
	id := e.dfa.Start()
	for i := 0; i < len(h); {
		r, w := utf8.DecodeRune(h[i:])
		if id = e.dfa.Step(id, char.FromRune(r)); id == dfa.InvalidState {
			return false
		}
		i += w
	}
	return e.dfa.IsAccept(id)
}

func (e *Engine) matchMulti(h []byte, state *SearchState) bool {
	cur, next := state.cur, state.next
	cur.Insert(e.dfa.Start())
	for i := 0; i < len(h); {
		r, w := utf8.DecodeRune(h[i:])
		next.Clear()
		e.dfa.StepSet(cur, next, char.FromRune(r))
		if next.IsEmpty() {
			return false
		}
		cur, next = next, cur
		i += w
	}
	return e.dfa.AnyAccept(cur)
}

// Search returns every non-overlapping match in haystack, left to right.
//
// At each position the longest match starting there is taken and the scan
// resumes just after it. Positions where no non-empty match starts are
// skipped one character at a time.
func (e *Engine) Search(haystack []byte) []Match {
	var out []Match
	e.search(haystack, -1, func(m Match) { out = append(out, m) })
	return out
}

// Find returns the first match in haystack, or false.
func (e *Engine) Find(haystack []byte) (Match, bool) {
	var (
		first Match
		found bool
	)
	e.search(haystack, 1, func(m Match) { first, found = m, true })
	return first, found
}

// Count returns the number of matches Search would report.
func (e *Engine) Count(haystack []byte) int {
	n := 0
	e.search(haystack, -1, func(Match) { n++ })
	return n
}

// search reports up to limit matches to fn; a negative limit means all.
func (e *Engine) search(h []byte, limit int, fn func(Match)) {
	atomic.AddUint64(&e.stats.SearchCalls, 1)
	state := e.pool.get()
	defer e.pool.put(state)

	tracker := state.tracker
	pos := newCursor()
	found := 0
	for i := 0; i < len(h) && found != limit; {
		usedPrefilter := false
		if tracker != nil && tracker.IsActive() {
			p := tracker.Find(h, i)
			if p < 0 {
				break
			}
			atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
			if !tracker.IsActive() {
				atomic.AddUint64(&e.stats.PrefilterRetired, 1)
			}
			i, usedPrefilter = p, true
		}

		end := e.longest(h, i, state)
		if end < 0 {
			_, w := utf8.DecodeRune(h[i:])
			i += w
			continue
		}
		if usedPrefilter {
			tracker.ConfirmMatch()
		}
		pos.advance(h, i)
		fn(NewMatch(pos.line, pos.column, i, end, h))
		found++
		i = end
	}
	atomic.AddUint64(&e.stats.Matches, uint64(found))
}

// longest returns the end of the longest non-empty match starting at
// start, or -1 if there is none.
func (e *Engine) longest(h []byte, start int, state *SearchState) int {
	end := -1
	if e.strategy == UseSingleState {
		id := e.dfa.Start()
		for i := start; i < len(h); {
			r, w := utf8.DecodeRune(h[i:])
			if id = e.dfa.Step(id, char.FromRune(r)); id == dfa.InvalidState {
				break
			}
			i += w
			if e.dfa.IsAccept(id) {
				end = i
			}
		}
		return end
	}

	cur, next := state.cur, state.next
	cur.Clear()
	cur.Insert(e.dfa.Start())
	for i := start; i < len(h); {
		r, w := utf8.DecodeRune(h[i:])
		next.Clear()
		e.dfa.StepSet(cur, next, char.FromRune(r))
		if next.IsEmpty() {
			break
		}
		cur, next = next, cur
		i += w
		if e.dfa.AnyAccept(cur) {
			end = i
		}
	}
	return end
}
