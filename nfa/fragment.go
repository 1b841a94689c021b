package nfa

import (
	"fmt"

	"github.com/coregx/dfaregex/char"
)

// Fragment is a partially built NFA with one entry state and one accept
// state. It owns its own arena; every state in the arena belongs to the
// fragment.
//
// The combining operations take their operands by value and return the
// combined fragment. An operand must not be used after it has been passed
// to one of them: its arena may now be shared with the result. Use Copy to
// obtain an independent duplicate first.
type Fragment struct {
	states []State
	first  StateID
	last   StateID
}

// Literal returns the two-state fragment  first --c--> accept.
func Literal(c char.Char) Fragment {
	return Fragment{
		states: []State{
			{kind: StateLiteral, ch: c, next1: 1, next2: InvalidState},
			{kind: StateAccept, next1: InvalidState, next2: InvalidState},
		},
		first: 0,
		last:  1,
	}
}

// Len returns the number of states owned by the fragment.
func (f Fragment) Len() int {
	return len(f.states)
}

// IsEmpty reports whether the fragment has no states (the zero value).
func (f Fragment) IsEmpty() bool {
	return len(f.states) == 0
}

// First returns the entry state
func (f Fragment) First() StateID {
	return f.first
}

// Last returns the accept state
func (f Fragment) Last() StateID {
	return f.last
}

func (f *Fragment) add(s State) StateID {
	id := StateID(len(f.states))
	f.states = append(f.states, s)
	return id
}

// absorb appends the states of other to f, shifting their successor IDs,
// and returns the shift.
func (f *Fragment) absorb(other Fragment) StateID {
	off := StateID(len(f.states))
	for _, s := range other.states {
		if s.next1 != InvalidState {
			s.next1 += off
		}
		if s.next2 != InvalidState {
			s.next2 += off
		}
		f.states = append(f.states, s)
	}
	return off
}

func epsilon(next1, next2 StateID) State {
	return State{kind: StateEpsilon, ch: char.NotChar, next1: next1, next2: next2}
}

func accept() State {
	return State{kind: StateAccept, ch: char.NotChar, next1: InvalidState, next2: InvalidState}
}

// Concatenate links a's accept state to b's entry with an epsilon edge.
// The result has a.Len()+b.Len() states.
func Concatenate(a, b Fragment) Fragment {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	off := a.absorb(b)
	a.states[a.last] = epsilon(b.first+off, InvalidState)
	a.last = b.last + off
	return a
}

// Alternate builds a|b: a new entry branches to both operands and both old
// accept states converge on a new accept. The result has
// a.Len()+b.Len()+2 states.
func Alternate(a, b Fragment) Fragment {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	off := a.absorb(b)
	end := a.add(accept())
	a.states[a.last] = epsilon(end, InvalidState)
	a.states[b.last+off] = epsilon(end, InvalidState)
	a.first = a.add(epsilon(a.first, b.first+off))
	a.last = end
	return a
}

// Kleene builds a*: zero or more repetitions. Adds 2 states.
func Kleene(a Fragment) Fragment {
	end := a.add(accept())
	a.states[a.last] = epsilon(a.first, end)
	a.first = a.add(epsilon(a.first, end))
	a.last = end
	return a
}

// Positive builds a+: one or more repetitions. Adds 2 states.
// It differs from Kleene only in that the new entry has no bypass edge.
func Positive(a Fragment) Fragment {
	end := a.add(accept())
	a.states[a.last] = epsilon(a.first, end)
	a.first = a.add(epsilon(a.first, InvalidState))
	a.last = end
	return a
}

// Optional builds a?: the new entry branches to the old entry and directly
// to the old accept state. Adds 1 state.
func Optional(a Fragment) Fragment {
	a.first = a.add(epsilon(a.first, a.last))
	return a
}

// Copy returns an independent duplicate of f. States are renumbered in
// depth-first order from the entry state through a remapping table, so the
// copy contains exactly the states reachable from First.
func (f Fragment) Copy() Fragment {
	if f.IsEmpty() {
		return Fragment{}
	}
	remap := make([]StateID, len(f.states))
	for i := range remap {
		remap[i] = InvalidState
	}
	order := make([]StateID, 0, len(f.states))
	remap[f.first] = 0
	order = append(order, f.first)
	stack := []StateID{f.first}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := &f.states[id]
		for _, next := range [2]StateID{s.next1, s.next2} {
			if next == InvalidState || remap[next] != InvalidState {
				continue
			}
			remap[next] = StateID(len(order))
			order = append(order, next)
			stack = append(stack, next)
		}
	}

	out := make([]State, len(order))
	for i, old := range order {
		s := f.states[old]
		if s.next1 != InvalidState {
			s.next1 = remap[s.next1]
		}
		if s.next2 != InvalidState {
			s.next2 = remap[s.next2]
		}
		out[i] = s
	}
	return Fragment{states: out, first: 0, last: remap[f.last]}
}

// RepeatKind distinguishes the three counted-repetition forms.
type RepeatKind uint8

const (
	// RepeatExact is {m}
	RepeatExact RepeatKind = iota
	// RepeatAtLeast is {m,}
	RepeatAtLeast
	// RepeatRange is {m,n}
	RepeatRange
)

// String returns the syntax form of the repetition kind
func (k RepeatKind) String() string {
	switch k {
	case RepeatExact:
		return "{INT}"
	case RepeatAtLeast:
		return "{INT,}"
	case RepeatRange:
		return "{MIN,MAX}"
	default:
		return fmt.Sprintf("RepeatKind(%d)", k)
	}
}

// RepeatError reports counts that violate the repetition rules.
type RepeatError struct {
	Kind     RepeatKind
	Min, Max int
}

// Error implements the error interface
func (e *RepeatError) Error() string {
	switch e.Kind {
	case RepeatExact:
		return "For {INT}, INT must be greater than or equal to 1"
	case RepeatAtLeast:
		return "For {INT,}, INT must be greater than or equal to 0"
	default:
		return "For {MIN,MAX}, MIN must be greater than or equal to 0, MIN must be less than MAX"
	}
}

// ValidateRepeat checks the counts of a repetition without building it.
func ValidateRepeat(kind RepeatKind, min, max int) error {
	var ok bool
	switch kind {
	case RepeatExact:
		ok = min >= 1
	case RepeatAtLeast:
		ok = min >= 0
	case RepeatRange:
		ok = min >= 0 && min < max
	default:
		return &InternalError{Op: "Repeat", Message: fmt.Sprintf("unknown repetition kind %d", kind), StateID: InvalidState}
	}
	if !ok {
		return &RepeatError{Kind: kind, Min: min, Max: max}
	}
	return nil
}

// Repeat expands a counted repetition by concatenating structural copies of
// f. Copies are taken from f before any closure is applied.
//
//	{m}    m copies in sequence (m >= 1)
//	{m,}   m copies, the last one under a positive closure; {0,} is a*, {1,} is a+
//	{m,n}  n copies, those past the m-th optional; with m == 0 every copy is optional
func Repeat(f Fragment, kind RepeatKind, min, max int) (Fragment, error) {
	if err := ValidateRepeat(kind, min, max); err != nil {
		return f, err
	}
	switch kind {
	case RepeatExact:
		return concatCopies(f, copies(f, min-1)), nil

	case RepeatAtLeast:
		switch min {
		case 0:
			return Kleene(f), nil
		case 1:
			return Positive(f), nil
		}
		cs := copies(f, min-1)
		cs[len(cs)-1] = Positive(cs[len(cs)-1])
		return concatCopies(f, cs), nil

	default:
		cs := copies(f, max-1)
		if min == 0 {
			f = Optional(f)
			for i := range cs {
				cs[i] = Optional(cs[i])
			}
		} else {
			for i := min - 1; i < len(cs); i++ {
				cs[i] = Optional(cs[i])
			}
		}
		return concatCopies(f, cs), nil
	}
}

func copies(f Fragment, n int) []Fragment {
	cs := make([]Fragment, n)
	for i := range cs {
		cs[i] = f.Copy()
	}
	return cs
}

func concatCopies(f Fragment, cs []Fragment) Fragment {
	for _, c := range cs {
		f = Concatenate(f, c)
	}
	return f
}

// Build freezes the fragment into an NFA using the given sorted alphabet.
func (f Fragment) Build(alphabet []char.Char) *NFA {
	return &NFA{
		states:   f.states,
		start:    f.first,
		accept:   f.last,
		alphabet: alphabet,
	}
}
