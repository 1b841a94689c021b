// Package sparse provides a sparse set of automaton state IDs.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of members in insertion order. Subset construction uses
// it for epsilon-closure worklists; the multi-state matcher uses it to hold
// the set of live DFA states between input characters.
package sparse

import "golang.org/x/exp/slices"

// SparseSet is a set of uint32 values drawn from [0, capacity).
type SparseSet struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// NewSparseSet creates an empty set able to hold values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set and reports whether it was newly added.
// Panics if value >= Capacity().
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes every member in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Capacity returns the exclusive upper bound on storable values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

// Sorted returns a fresh ascending copy of the members.
func (s *SparseSet) Sorted() []uint32 {
	out := slices.Clone(s.dense)
	slices.Sort(out)
	return out
}
