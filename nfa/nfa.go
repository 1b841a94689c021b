package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/internal/conv"
	"github.com/coregx/dfaregex/internal/sparse"
)

// StateID uniquely identifies an NFA state within its arena.
type StateID uint32

// InvalidState marks an absent successor.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which
// transitions are valid.
type StateKind uint8

const (
	// StateLiteral consumes one character and moves to its single successor
	StateLiteral StateKind = iota

	// StateEpsilon moves to one or two successors without consuming input
	StateEpsilon

	// StateAccept is the terminal state; it has no successors
	StateAccept
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateLiteral:
		return "Literal"
	case StateEpsilon:
		return "Epsilon"
	case StateAccept:
		return "Accept"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State is a single NFA state. The kind determines which fields are valid.
type State struct {
	kind  StateKind
	ch    char.Char // Literal only; may carry the Negated flag
	next1 StateID
	next2 StateID // Epsilon only, InvalidState when unused
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsAccept returns true for the accept state
func (s *State) IsAccept() bool {
	return s.kind == StateAccept
}

// Literal returns the character and successor of a Literal state.
// Returns (NotChar, InvalidState) for other kinds.
func (s *State) Literal() (char.Char, StateID) {
	if s.kind != StateLiteral {
		return char.NotChar, InvalidState
	}
	return s.ch, s.next1
}

// Epsilon returns both successors of an Epsilon state. The second is
// InvalidState when the state has a single successor.
// Returns (InvalidState, InvalidState) for other kinds.
func (s *State) Epsilon() (StateID, StateID) {
	if s.kind != StateEpsilon {
		return InvalidState, InvalidState
	}
	return s.next1, s.next2
}

// NFA is a compiled Thompson automaton together with the sorted alphabet of
// characters its literal states carry.
type NFA struct {
	states   []State
	start    StateID
	accept   StateID
	alphabet []char.Char
}

// Start returns the start state
func (n *NFA) Start() StateID {
	return n.start
}

// Accept returns the single accept state
func (n *NFA) Accept() StateID {
	return n.accept
}

// States returns the number of states
func (n *NFA) States() int {
	return len(n.states)
}

// State returns the state with the given ID, or nil if out of range.
func (n *NFA) State(id StateID) *State {
	if int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// Alphabet returns the sorted, deduplicated characters of the pattern.
// The slice must not be modified.
func (n *NFA) Alphabet() []char.Char {
	return n.alphabet
}

// EpsilonReachable reports whether to can be reached from from by following
// epsilon transitions only. from itself counts as reachable only through a
// cycle.
func (n *NFA) EpsilonReachable(from, to StateID) bool {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(n.states)))
	stack := []StateID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := &n.states[id]
		if s.kind != StateEpsilon {
			continue
		}
		for _, next := range [2]StateID{s.next1, s.next2} {
			if next == InvalidState {
				continue
			}
			if next == to {
				return true
			}
			if seen.Insert(uint32(next)) {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// StateIter walks the states of an NFA in ID order.
type StateIter struct {
	nfa   *NFA
	index int
}

// Iter returns an iterator over all states
func (n *NFA) Iter() *StateIter {
	return &StateIter{nfa: n}
}

// Next returns the next state, or nil when exhausted
func (it *StateIter) Next() *State {
	if it.index >= len(it.nfa.states) {
		return nil
	}
	s := &it.nfa.states[it.index]
	it.index++
	return s
}

// HasNext reports whether more states remain
func (it *StateIter) HasNext() bool {
	return it.index < len(it.nfa.states)
}

// String returns a multi-line dump of the automaton, one state per line.
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA{states: %d, start: %d, accept: %d}\n", len(n.states), n.start, n.accept)
	for i := range n.states {
		s := &n.states[i]
		fmt.Fprintf(&b, "  %d: %s", i, s.kind)
		switch s.kind {
		case StateLiteral:
			fmt.Fprintf(&b, " %s -> %d", char.Glyph(s.ch, true), s.next1)
		case StateEpsilon:
			fmt.Fprintf(&b, " -> %d", s.next1)
			if s.next2 != InvalidState {
				fmt.Fprintf(&b, ", %d", s.next2)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
