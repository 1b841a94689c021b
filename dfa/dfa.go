// Package dfa builds and runs deterministic automata over extended
// characters.
//
// A DFA is produced from an NFA by subset construction (Builder) and reduced
// by partition refinement (Minimize). States live in an index arena; each
// state owns a transition table sorted by key. Literal keys sort before
// negated keys, so the negated run of every table is a contiguous suffix.
//
// Two stepping modes exist. Step follows the single transition whose key
// equals the input character and is sufficient when the alphabet has no
// negated characters. StepSet advances a set of live states and also fires
// negated edges, which is required as soon as one negated character is in
// the alphabet.
package dfa

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/internal/conv"
	"github.com/coregx/dfaregex/internal/sparse"
)

// StateID uniquely identifies a DFA state within its arena.
type StateID uint32

const (
	// InvalidState marks an absent transition
	InvalidState StateID = 0xFFFFFFFF
)

// Transition is one entry of a state's transition table.
type Transition struct {
	Key  char.Char
	Next StateID
}

func compareKey(t Transition, key char.Char) int {
	switch {
	case t.Key < key:
		return -1
	case t.Key > key:
		return 1
	default:
		return 0
	}
}

// State is a DFA state: an accept flag and a transition table sorted by key.
type State struct {
	accept bool
	trans  []Transition

	// negStart is the index of the first negated key in trans.
	negStart int

	// negTargets holds the distinct targets of the negated run, ascending.
	negTargets []StateID
}

// IsAccept returns true if this is an accepting state
func (s *State) IsAccept() bool {
	return s.accept
}

// Transitions returns the sorted transition table.
// The slice must not be modified.
func (s *State) Transitions() []Transition {
	return s.trans
}

// HasNegated reports whether the state has any negated transition.
func (s *State) HasNegated() bool {
	return s.negStart < len(s.trans)
}

// Find returns the target of the transition whose key equals key exactly,
// flags included, or InvalidState.
func (s *State) Find(key char.Char) StateID {
	if i, ok := slices.BinarySearchFunc(s.trans, key, compareKey); ok {
		return s.trans[i].Next
	}
	return InvalidState
}

// seal computes the derived negated-run fields after trans is final.
func (s *State) seal() {
	s.negStart, _ = slices.BinarySearchFunc(s.trans, char.Negated, compareKey)
	s.negTargets = s.negTargets[:0]
	for _, t := range s.trans[s.negStart:] {
		s.negTargets = append(s.negTargets, t.Next)
	}
	slices.Sort(s.negTargets)
	s.negTargets = slices.Compact(s.negTargets)
}

// DFA is a deterministic automaton together with the alphabet it was built
// over.
type DFA struct {
	states   []State
	start    StateID
	alphabet []char.Char
	negated  bool
}

func newDFA(states []State, start StateID, alphabet []char.Char) *DFA {
	for i := range states {
		states[i].seal()
	}
	d := &DFA{states: states, start: start, alphabet: alphabet}
	for _, c := range alphabet {
		if c.IsNegated() {
			d.negated = true
			break
		}
	}
	return d
}

// Start returns the start state
func (d *DFA) Start() StateID {
	return d.start
}

// States returns the number of states
func (d *DFA) States() int {
	return len(d.states)
}

// State returns the state with the given ID, or nil if out of range.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// Alphabet returns the sorted alphabet the automaton was built over.
// The slice must not be modified.
func (d *DFA) Alphabet() []char.Char {
	return d.alphabet
}

// IsNegated reports whether the alphabet contains a negated character, in
// which case matching must use StepSet.
func (d *DFA) IsNegated() bool {
	return d.negated
}

// IsAccept reports whether id is an accepting state.
func (d *DFA) IsAccept(id StateID) bool {
	return d.states[id].accept
}

// Step returns the target of the transition on ch from id, or InvalidState.
// Negated transitions are not considered.
func (d *DFA) Step(id StateID, ch char.Char) StateID {
	return d.states[id].Find(ch)
}

// StepSet advances every state in cur by the input character ch and inserts
// the successors into next, which is not cleared first.
//
// For each live state the successors are the literal transition on ch, if
// any, and the targets of its negated transitions. A negated transition
// fires on every input other than its own code point; the target reached by
// the negated key for ch itself is excluded as a whole, so two negated keys
// that lead to the same state behave as the intersection of their
// exclusions. After minimization this gives [^ab] the meaning "neither a
// nor b".
func (d *DFA) StepSet(cur, next *StateSet, ch char.Char) {
	ch = ch.Code()
	excludedKey := ch.WithNegated()
	for _, v := range cur.set.Values() {
		s := &d.states[v]
		if t := s.Find(ch); t != InvalidState {
			next.Insert(t)
		}
		if len(s.negTargets) == 0 {
			continue
		}
		excluded := InvalidState
		if i, ok := slices.BinarySearchFunc(s.trans[s.negStart:], excludedKey, compareKey); ok {
			excluded = s.trans[s.negStart+i].Next
		}
		for _, t := range s.negTargets {
			if t != excluded {
				next.Insert(t)
			}
		}
	}
}

// AnyAccept reports whether any state of set is accepting.
func (d *DFA) AnyAccept(set *StateSet) bool {
	for _, v := range set.set.Values() {
		if d.states[v].accept {
			return true
		}
	}
	return false
}

// NewStateSet returns an empty set sized for this automaton.
func (d *DFA) NewStateSet() *StateSet {
	return NewStateSet(len(d.states))
}

// StateIter walks the states of a DFA in ID order.
type StateIter struct {
	dfa   *DFA
	index int
}

// Iter returns an iterator over all states
func (d *DFA) Iter() *StateIter {
	return &StateIter{dfa: d}
}

// Next returns the ID and state of the next state. ok is false when the
// iterator is exhausted.
func (it *StateIter) Next() (id StateID, s *State, ok bool) {
	if it.index >= len(it.dfa.states) {
		return InvalidState, nil, false
	}
	id = StateID(conv.IntToUint32(it.index))
	s = &it.dfa.states[it.index]
	it.index++
	return id, s, true
}

// String returns a multi-line dump of the automaton, one state per line.
func (d *DFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DFA{states: %d, start: %d}\n", len(d.states), d.start)
	for i := range d.states {
		s := &d.states[i]
		mark := ' '
		if s.accept {
			mark = '*'
		}
		fmt.Fprintf(&b, " %c%d:", mark, i)
		for _, t := range s.trans {
			fmt.Fprintf(&b, " %s->%d", char.Glyph(t.Key, true), t.Next)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// StateSet is a set of live DFA states, kept in insertion order.
type StateSet struct {
	set *sparse.SparseSet
}

// NewStateSet creates an empty set able to hold IDs below capacity.
func NewStateSet(capacity int) *StateSet {
	return &StateSet{set: sparse.NewSparseSet(conv.IntToUint32(capacity))}
}

// Insert adds id and reports whether it was newly added.
func (ss *StateSet) Insert(id StateID) bool {
	return ss.set.Insert(uint32(id))
}

// Contains reports whether id is in the set.
func (ss *StateSet) Contains(id StateID) bool {
	return ss.set.Contains(uint32(id))
}

// Clear removes every member.
func (ss *StateSet) Clear() {
	ss.set.Clear()
}

// Len returns the number of members.
func (ss *StateSet) Len() int {
	return ss.set.Len()
}

// IsEmpty reports whether the set has no members.
func (ss *StateSet) IsEmpty() bool {
	return ss.set.IsEmpty()
}

// Capacity returns the exclusive upper bound on storable IDs.
func (ss *StateSet) Capacity() int {
	return ss.set.Capacity()
}
