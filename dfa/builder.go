package dfa

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/internal/conv"
	"github.com/coregx/dfaregex/internal/sparse"
	"github.com/coregx/dfaregex/nfa"
)

// siphash keys for the subset table. They only need to be fixed for the
// lifetime of one Builder.
const (
	setKey0 = 0x736f6d6570736575
	setKey1 = 0x646f72616e646f6d
)

// Builder converts an NFA into a DFA by subset construction.
//
// Every DFA state stands for the epsilon-closure of a set of NFA states.
// Starting from the closure of the NFA start state, a worklist computes for
// each state and each alphabet symbol the closure of the states reachable by
// one literal transition on that symbol. Sets are compared by value: a
// sorted ID slice hashed with SipHash selects a bucket, and set equality
// resolves collisions.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	nfa    *nfa.NFA
	config Config

	// closure scratch
	seen  *sparse.SparseSet
	stack []nfa.StateID
	buf   []byte
}

// subset is one row of the subset table.
type subset struct {
	set   []nfa.StateID // sorted
	trans []Transition
}

// NewBuilder creates a new DFA builder for the given NFA
func NewBuilder(n *nfa.NFA, config Config) *Builder {
	return &Builder{
		nfa:    n,
		config: config,
		seen:   sparse.NewSparseSet(conv.IntToUint32(n.States())),
	}
}

// Build runs subset construction and, when enabled, minimization.
func (b *Builder) Build() (*DFA, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	d, err := b.determinize()
	if err != nil {
		return nil, err
	}
	if b.config.Minimize {
		d = Minimize(d)
	}
	return d, nil
}

// determinize performs the subset construction proper.
func (b *Builder) determinize() (*DFA, error) {
	alphabet := b.nfa.Alphabet()
	table := []subset{{set: b.epsilonClosure([]nfa.StateID{b.nfa.Start()})}}
	index := map[uint64][]StateID{b.hash(table[0].set): {0}}

	// table doubles as the FIFO worklist: rows are processed in the order
	// they were discovered.
	for i := 0; i < len(table); i++ {
		for _, ch := range alphabet {
			next := b.epsilonClosure(b.delta(table[i].set, ch))
			if len(next) == 0 {
				continue
			}
			h := b.hash(next)
			target := InvalidState
			for _, id := range index[h] {
				if slices.Equal(table[id].set, next) {
					target = id
					break
				}
			}
			if target == InvalidState {
				if uint32(len(table)) >= b.config.MaxStates {
					return nil, limitError(b.config.MaxStates)
				}
				target = StateID(conv.IntToUint32(len(table)))
				table = append(table, subset{set: next})
				index[h] = append(index[h], target)
			}
			// alphabet is sorted, so the table comes out sorted
			table[i].trans = append(table[i].trans, Transition{Key: ch, Next: target})
		}
	}

	accept := b.nfa.Accept()
	states := make([]State, len(table))
	for i := range table {
		_, states[i].accept = slices.BinarySearch(table[i].set, accept)
		states[i].trans = table[i].trans
	}
	return newDFA(states, 0, alphabet), nil
}

// epsilonClosure returns the sorted set of NFA states reachable from states
// through epsilon transitions, the states themselves included.
func (b *Builder) epsilonClosure(states []nfa.StateID) []nfa.StateID {
	if len(states) == 0 {
		return nil
	}
	b.seen.Clear()
	b.stack = b.stack[:0]
	for _, id := range states {
		if b.seen.Insert(uint32(id)) {
			b.stack = append(b.stack, id)
		}
	}
	for len(b.stack) > 0 {
		id := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		n1, n2 := b.nfa.State(id).Epsilon()
		for _, next := range [2]nfa.StateID{n1, n2} {
			if next != nfa.InvalidState && b.seen.Insert(uint32(next)) {
				b.stack = append(b.stack, next)
			}
		}
	}
	sorted := b.seen.Sorted()
	out := make([]nfa.StateID, len(sorted))
	for i, v := range sorted {
		out[i] = nfa.StateID(v)
	}
	return out
}

// delta returns the successors of the literal states in set whose character
// equals ch exactly, flags included.
func (b *Builder) delta(set []nfa.StateID, ch char.Char) []nfa.StateID {
	var out []nfa.StateID
	for _, id := range set {
		if lc, next := b.nfa.State(id).Literal(); lc == ch && next != nfa.InvalidState {
			out = append(out, next)
		}
	}
	return out
}

func (b *Builder) hash(set []nfa.StateID) uint64 {
	b.buf = b.buf[:0]
	for _, id := range set {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(id))
	}
	return siphash.Hash(setKey0, setKey1, b.buf)
}

// Compile builds a minimized DFA from an NFA with the default configuration
func Compile(n *nfa.NFA) (*DFA, error) {
	return CompileWithConfig(n, DefaultConfig())
}

// CompileWithConfig builds a DFA from an NFA with a custom configuration
func CompileWithConfig(n *nfa.NFA, config Config) (*DFA, error) {
	return NewBuilder(n, config).Build()
}

// CompilePattern is a convenience that parses pattern and builds its
// minimized DFA with default configurations.
func CompilePattern(pattern string) (*DFA, error) {
	n, err := nfa.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return Compile(n)
}
