package meta

import (
	"sync"

	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/prefilter"
)

// SearchState holds the per-call scratch of Match and Search.
//
// The two state sets are the current and next sets of multi-state
// stepping. The tracker watches the prefilter during one Search.
type SearchState struct {
	cur, next *dfa.StateSet
	tracker   *prefilter.Tracker
}

func newSearchState(d *dfa.DFA, pf prefilter.Prefilter) *SearchState {
	s := &SearchState{}
	if d.IsNegated() {
		s.cur = d.NewStateSet()
		s.next = d.NewStateSet()
	}
	if pf != nil {
		s.tracker = prefilter.NewTracker(pf)
	}
	return s
}

func (s *SearchState) reset() {
	if s.cur != nil {
		s.cur.Clear()
		s.next.Clear()
	}
	if s.tracker != nil {
		s.tracker.Reset()
	}
}

// searchStatePool makes Match and Search safe for concurrent use: each
// call borrows its own SearchState.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool(d *dfa.DFA, pf prefilter.Prefilter) *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(d, pf)
		},
	}
	return p
}

func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	state.reset()
	p.pool.Put(state)
}
