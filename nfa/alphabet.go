package nfa

import (
	"golang.org/x/exp/slices"

	"github.com/coregx/dfaregex/char"
)

// AlphabetBuilder collects every literal character (with its Negated flag)
// accepted while parsing. Freeze turns the collection into the sorted,
// deduplicated alphabet used by subset construction and minimization.
type AlphabetBuilder struct {
	chars []char.Char
}

// NewAlphabetBuilder creates an empty builder
func NewAlphabetBuilder() *AlphabetBuilder {
	return &AlphabetBuilder{chars: make([]char.Char, 0, 16)}
}

// Add records c. Duplicates are removed by Freeze.
func (a *AlphabetBuilder) Add(c char.Char) {
	a.chars = append(a.chars, c)
}

// Len returns the number of recorded characters, duplicates included.
func (a *AlphabetBuilder) Len() int {
	return len(a.chars)
}

// Freeze returns the sorted, deduplicated alphabet and resets the builder.
// Negated characters sort after all literal characters.
func (a *AlphabetBuilder) Freeze() []char.Char {
	out := a.chars
	a.chars = nil
	slices.Sort(out)
	return slices.Compact(out)
}

// HasNegated reports whether a frozen alphabet contains any negated
// character. Because negated characters sort last, only the final element
// needs inspection.
func HasNegated(alphabet []char.Char) bool {
	return len(alphabet) > 0 && alphabet[len(alphabet)-1].IsNegated()
}
