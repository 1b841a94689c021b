package dfa

import (
	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/internal/conv"
)

// Minimize merges indistinguishable states by partition refinement.
//
// The initial partition separates accepting from non-accepting states. Each
// round tries to split every block with more than one member: for each
// alphabet symbol in order, members are grouped first by whether they have
// a transition on the symbol and then by the block the transition leads to.
// The first symbol that separates the members splits the block into the
// members that agree with the first member and the rest, which becomes a
// new block. Rounds repeat until the number of blocks stops growing.
//
// If the final partition has as many blocks as d has states, d is returned
// unchanged. Otherwise a new DFA is built with one state per block, using
// the first member of each block as its representative.
func Minimize(d *DFA) *DFA {
	if len(d.states) < 2 {
		return d
	}
	p := newPartition(d)
	p.refine()
	if len(p.blocks) == len(d.states) {
		return d
	}
	return p.quotient()
}

// partition is the state of one minimization run.
type partition struct {
	dfa    *DFA
	blocks [][]StateID
	block  []int // state -> index into blocks

	// split scratch
	keep, rest []StateID
}

func newPartition(d *DFA) *partition {
	var accepting, rejecting []StateID
	block := make([]int, len(d.states))
	for i := range d.states {
		id := StateID(conv.IntToUint32(i))
		if d.states[i].accept {
			accepting = append(accepting, id)
		} else {
			rejecting = append(rejecting, id)
		}
	}
	p := &partition{dfa: d, block: block}
	// an empty initial block has nothing to refine and is dropped
	for _, b := range [2][]StateID{accepting, rejecting} {
		if len(b) == 0 {
			continue
		}
		for _, id := range b {
			block[id] = len(p.blocks)
		}
		p.blocks = append(p.blocks, b)
	}
	return p
}

func (p *partition) refine() {
	for {
		n := len(p.blocks)
		// Blocks appended during this round are left for the next one, but
		// the block table is updated immediately so later splits in the
		// same round already see the new indices.
		for i := 0; i < n; i++ {
			if len(p.blocks[i]) == 1 {
				continue
			}
			keep, rest := p.split(p.blocks[i])
			if len(rest) == 0 {
				continue
			}
			p.blocks[i] = keep
			idx := len(p.blocks)
			for _, id := range rest {
				p.block[id] = idx
			}
			p.blocks = append(p.blocks, rest)
		}
		if len(p.blocks) == n {
			return
		}
	}
}

// split divides set by the first alphabet symbol on which its members
// disagree. rest is empty when no symbol separates them. The returned
// slices are freshly allocated.
func (p *partition) split(set []StateID) (keep, rest []StateID) {
	for _, ch := range p.dfa.alphabet {
		first := p.dfa.states[set[0]].Find(ch)

		p.keep, p.rest = p.keep[:0], p.rest[:0]
		for _, id := range set {
			t := p.dfa.states[id].Find(ch)
			if (t == InvalidState) == (first == InvalidState) {
				p.keep = append(p.keep, id)
			} else {
				p.rest = append(p.rest, id)
			}
		}
		if len(p.rest) > 0 {
			return p.result()
		}
		if first == InvalidState {
			continue
		}

		target := p.block[first]
		p.keep, p.rest = p.keep[:0], p.rest[:0]
		for _, id := range set {
			if p.block[p.dfa.states[id].Find(ch)] == target {
				p.keep = append(p.keep, id)
			} else {
				p.rest = append(p.rest, id)
			}
		}
		if len(p.rest) > 0 {
			return p.result()
		}
	}
	return set, nil
}

func (p *partition) result() (keep, rest []StateID) {
	keep = append([]StateID(nil), p.keep...)
	rest = append([]StateID(nil), p.rest...)
	return keep, rest
}

// quotient builds the DFA whose states are the blocks of the partition.
func (p *partition) quotient() *DFA {
	d := p.dfa
	states := make([]State, len(p.blocks))
	for i, b := range p.blocks {
		rep := &d.states[b[0]]
		s := &states[i]
		s.accept = rep.accept
		s.trans = make([]Transition, len(rep.trans))
		for j, t := range rep.trans {
			s.trans[j] = Transition{Key: t.Key, Next: StateID(conv.IntToUint32(p.block[t.Next]))}
		}
	}
	start := StateID(conv.IntToUint32(p.block[d.start]))
	return newDFA(states, start, append([]char.Char(nil), d.alphabet...))
}
