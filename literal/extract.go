package literal

import (
	"unicode/utf8"

	"github.com/coregx/dfaregex/dfa"
)

// Config bounds literal extraction.
type Config struct {
	// MaxLiterals is the largest number of alternative literals returned.
	MaxLiterals int

	// MaxLiteralLen is the largest literal length in characters. Longer
	// paths are cut and yield incomplete literals.
	MaxLiteralLen int
}

// DefaultConfig returns the extraction limits used by the engine.
func DefaultConfig() Config {
	return Config{MaxLiterals: 64, MaxLiteralLen: 16}
}

// Extract returns the literals every match accepted by d begins with, or
// nil when no usable set exists.
//
// The literals are the labels of the paths from the start state over
// literal transitions. A path ends at an accepting state, at a state with
// negated transitions, when it closes a cycle, or after MaxLiteralLen
// characters. The set is not usable when some path ends before its first
// character, when it would hold more than MaxLiterals literals, or when a
// path carries a character with no UTF-8 encoding of its own (U+FFFD, which
// also stands for invalid input bytes, and surrogates).
//
// When the full-length paths are too many, shorter limits are tried down
// to a single character.
func Extract(d *dfa.DFA, config Config) *Seq {
	if d == nil || d.States() == 0 || config.MaxLiterals < 1 {
		return nil
	}
	for n := config.MaxLiteralLen; n >= 1; n-- {
		w := walker{
			dfa:     d,
			maxLits: config.MaxLiterals,
			maxLen:  n,
			onPath:  make([]bool, d.States()),
		}
		w.walk(d.Start())
		switch {
		case w.unusable:
			return nil
		case w.overflow:
			continue
		}
		seq := NewSeq(w.out...)
		seq.Minimize()
		return seq
	}
	return nil
}

type walker struct {
	dfa     *dfa.DFA
	maxLits int
	maxLen  int

	path   []byte
	n      int // characters in path
	onPath []bool
	out    []Literal

	unusable bool
	overflow bool
}

func (w *walker) walk(id dfa.StateID) {
	if w.unusable || w.overflow {
		return
	}
	s := w.dfa.State(id)
	if w.onPath[id] {
		w.emit(false)
		return
	}
	if s.IsAccept() || s.HasNegated() || w.n == w.maxLen {
		w.emit(s.IsAccept() && len(s.Transitions()) == 0)
		return
	}
	w.onPath[id] = true
	defer func() { w.onPath[id] = false }()
	for _, t := range s.Transitions() {
		r := t.Key.Rune()
		if r == utf8.RuneError || !utf8.ValidRune(r) {
			w.unusable = true
			return
		}
		mark := len(w.path)
		w.path = utf8.AppendRune(w.path, r)
		w.n++
		w.walk(t.Next)
		w.n--
		w.path = w.path[:mark]
		if w.unusable || w.overflow {
			return
		}
	}
}

func (w *walker) emit(complete bool) {
	if w.n == 0 {
		w.unusable = true
		return
	}
	if len(w.out) == w.maxLits {
		w.overflow = true
		return
	}
	w.out = append(w.out, NewLiteral(append([]byte(nil), w.path...), complete))
}
