// Package prefilter finds candidate match positions by searching for the
// literal prefixes every match must begin with.
//
// A prefilter never decides a match on its own. It reports the next position
// where some required literal starts; positions it skips cannot start a
// match, so the matcher may jump over them and only run the automaton at
// candidates.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/dfaregex/literal"
	"github.com/coregx/dfaregex/simd"
)

// Prefilter finds candidate start positions.
type Prefilter interface {
	// Find returns the smallest position >= start at which one of the
	// literals begins, or -1 if there is none.
	Find(haystack []byte, start int) int
}

// New builds the prefilter for seq, or returns nil when seq is empty.
//
// The strategy depends on the shape of the literal set:
//   - one to three single-byte literals: Memchr, Memchr2 or Memchr3
//   - one longer literal: Memmem
//   - anything else: an Aho-Corasick automaton
func New(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() {
		return nil
	}
	pats := seq.Patterns()
	longest := maxLen(pats)

	if len(pats) <= 3 && longest == 1 {
		p := &byteset{n: len(pats)}
		for i := range p.needles {
			p.needles[i] = pats[min(i, len(pats)-1)][0]
		}
		return p
	}
	if len(pats) == 1 {
		return &substring{needle: append([]byte(nil), pats[0]...)}
	}

	b := ahocorasick.NewBuilder()
	for _, p := range pats {
		b.AddPattern(p)
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return &multi{auto: auto, pats: pats, maxLen: longest}
}

func maxLen(pats [][]byte) int {
	n := 0
	for _, p := range pats {
		n = max(n, len(p))
	}
	return n
}

// byteset searches for up to three single bytes.
type byteset struct {
	needles [3]byte
	n       int
}

func (p *byteset) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	var i int
	switch p.n {
	case 1:
		i = simd.Memchr(haystack[start:], p.needles[0])
	case 2:
		i = simd.Memchr2(haystack[start:], p.needles[0], p.needles[1])
	default:
		i = simd.Memchr3(haystack[start:], p.needles[0], p.needles[1], p.needles[2])
	}
	if i < 0 {
		return -1
	}
	return start + i
}

// substring searches for a single literal.
type substring struct {
	needle []byte
}

func (p *substring) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := simd.Memmem(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// multi searches for any of several literals with an Aho-Corasick
// automaton.
//
// The automaton reports the occurrence that ends first, which is not always
// the one that starts first: in "xyz" with literals xyz and y it reports y.
// Any occurrence starting earlier must end at or after the reported one, so
// it starts within maxLen bytes before that end; Find checks that window.
type multi struct {
	auto   *ahocorasick.Automaton
	pats   [][]byte
	maxLen int
}

func (p *multi) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	for i := max(start, m.End-p.maxLen); i < m.Start; i++ {
		if p.startsAt(haystack, i) {
			return i
		}
	}
	return m.Start
}

// startsAt reports whether some literal begins at haystack[i].
func (p *multi) startsAt(haystack []byte, i int) bool {
	for _, pat := range p.pats {
		if bytes.HasPrefix(haystack[i:], pat) {
			return true
		}
	}
	return false
}
