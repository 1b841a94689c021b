package dfa

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/coregx/dfaregex/internal/conv"
)

// Equal reports whether a and b are structurally identical: the same number
// of states, and a bijection between states that starts at the two start
// states and preserves accept flags, transition keys and targets.
//
// State numbering is irrelevant, so a DFA built twice from the same pattern
// is Equal to itself regardless of construction order.
func Equal(a, b *DFA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.states) != len(b.states) {
		return false
	}
	if len(a.states) == 0 {
		return true
	}

	mapping := make([]StateID, len(a.states)) // a -> b
	for i := range mapping {
		mapping[i] = InvalidState
	}
	used := NewStateSet(len(b.states))

	mapping[a.start] = b.start
	used.Insert(b.start)
	queue := []StateID{a.start}
	for len(queue) > 0 {
		ia := queue[0]
		queue = queue[1:]
		sa, sb := &a.states[ia], &b.states[mapping[ia]]
		if sa.accept != sb.accept || len(sa.trans) != len(sb.trans) {
			return false
		}
		for k, ta := range sa.trans {
			tb := sb.trans[k]
			if ta.Key != tb.Key {
				return false
			}
			switch m := mapping[ta.Next]; {
			case m == InvalidState:
				if !used.Insert(tb.Next) {
					return false
				}
				mapping[ta.Next] = tb.Next
				queue = append(queue, ta.Next)
			case m != tb.Next:
				return false
			}
		}
	}
	return true
}

// Equal reports whether d and other are structurally identical.
func (d *DFA) Equal(other *DFA) bool {
	return Equal(d, other)
}

// Digest returns a BLAKE2b-256 fingerprint of the automaton.
//
// States are renumbered in breadth-first order from the start state, so
// Equal automata have equal digests. The hashed form is, per state in that
// order: one accept byte, the transition count, then each key and the
// renumbered target, all little-endian uint32.
func (d *DFA) Digest() [32]byte {
	h, _ := blake2b.New256(nil)
	if len(d.states) == 0 {
		var out [32]byte
		copy(out[:], h.Sum(nil))
		return out
	}

	order := make([]StateID, 0, len(d.states))
	canon := make([]uint32, len(d.states))
	for i := range canon {
		canon[i] = uint32(InvalidState)
	}
	canon[d.start] = 0
	order = append(order, d.start)
	for i := 0; i < len(order); i++ {
		for _, t := range d.states[order[i]].trans {
			if canon[t.Next] == uint32(InvalidState) {
				canon[t.Next] = conv.IntToUint32(len(order))
				order = append(order, t.Next)
			}
		}
	}

	var buf []byte
	for _, id := range order {
		s := &d.states[id]
		buf = buf[:0]
		if s.accept {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.LittleEndian.AppendUint32(buf, conv.IntToUint32(len(s.trans)))
		for _, t := range s.trans {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Key))
			buf = binary.LittleEndian.AppendUint32(buf, canon[t.Next])
		}
		_, _ = h.Write(buf)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// DigestString returns Digest as a lowercase hex string.
func (d *DFA) DigestString() string {
	sum := d.Digest()
	return hex.EncodeToString(sum[:])
}
