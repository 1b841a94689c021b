// Package literal extracts the literal prefixes that every match of a
// compiled automaton must begin with.
//
// The search loop uses them to skip input that cannot start a match: a
// prefilter finds the next occurrence of any literal and the automaton only
// runs from there.
package literal

import (
	"bytes"
	"strings"

	"golang.org/x/exp/slices"
)

// Literal is a UTF-8 byte sequence every match in its branch starts with.
//
// Complete is true when the literal is the whole match: the branch ends in
// an accepting state with no further transitions.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a literal from b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

func (l Literal) String() string {
	if l.Complete {
		return "literal{" + string(l.Bytes) + ", complete}"
	}
	return "literal{" + string(l.Bytes) + "}"
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals. A nil Seq is empty.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Patterns returns the byte form of every literal, in order.
func (s *Seq) Patterns() [][]byte {
	if s.IsEmpty() {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, l := range s.literals {
		out[i] = l.Bytes
	}
	return out
}

// Minimize sorts the literals and drops every literal that has a shorter
// literal of the set as a prefix, since a prefix search for the shorter one
// already finds it.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	slices.SortFunc(s.literals, func(a, b Literal) int {
		return bytes.Compare(a.Bytes, b.Bytes)
	})
	// after sorting, any literal with a prefix in the set directly follows
	// that prefix or another literal sharing it
	kept := s.literals[:1]
	for _, l := range s.literals[1:] {
		if !bytes.HasPrefix(l.Bytes, kept[len(kept)-1].Bytes) {
			kept = append(kept, l)
		}
	}
	s.literals = kept
}

func (s *Seq) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.literals[i].String())
	}
	b.WriteByte(']')
	return b.String()
}
