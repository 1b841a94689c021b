package meta

import "github.com/coregx/dfaregex/dfa"

// Strategy is the way the engine walks its automaton.
type Strategy int

const (
	// UseSingleState follows one transition per character. It applies
	// when no transition of the automaton is negated.
	UseSingleState Strategy = iota

	// UseMultiState tracks a set of live states, since a negated
	// transition can fire on many characters at once.
	UseMultiState
)

func (s Strategy) String() string {
	switch s {
	case UseSingleState:
		return "SingleState"
	case UseMultiState:
		return "MultiState"
	default:
		return "Unknown"
	}
}

// SelectStrategy picks the walking strategy for d.
func SelectStrategy(d *dfa.DFA) Strategy {
	if d.IsNegated() {
		return UseMultiState
	}
	return UseSingleState
}
