// Package char defines the extended character alphabet shared by the
// compiler, the automata and the matcher.
//
// A Char is a Unicode code point with two flag bits packed above the code
// point range:
//
//	NotChar  0x80000000  sentinel for "no character here" (end of pattern)
//	Negated  0x40000000  transition fires on any character except Code()
//
// Because the flags live in the high bits, every negated key sorts after
// every literal key. A sorted transition table therefore keeps its negated
// entries in one contiguous run that starts at the first key >= Negated.
package char

// Char is a code point optionally carrying the NotChar or Negated flag.
type Char uint32

const (
	// NotChar marks the absence of a character (end of input).
	NotChar Char = 0x80000000

	// Negated marks a transition that matches everything but Code().
	Negated Char = 0x40000000

	// FlagMask covers every flag bit.
	FlagMask = NotChar | Negated

	// MaxCode is the largest valid Unicode code point.
	MaxCode Char = 0x10FFFF
)

// Newline-equivalent code points.
const (
	LF Char = 0x000A // LINE FEED
	CR Char = 0x000D // CARRIAGE RETURN
	LS Char = 0x2028 // LINE SEPARATOR
	PS Char = 0x2029 // PARAGRAPH SEPARATOR
)

// Newlines lists the newline-equivalent code points in ascending order.
var Newlines = [...]Char{LF, CR, LS, PS}

// FromRune converts an input rune into a flag-free Char.
func FromRune(r rune) Char {
	return Char(uint32(r)) &^ FlagMask
}

// Code returns the code point with all flags stripped.
func (c Char) Code() Char {
	return c &^ FlagMask
}

// Rune returns the code point as a rune.
func (c Char) Rune() rune {
	return rune(c.Code())
}

// IsNegated reports whether the Negated flag is set.
func (c Char) IsNegated() bool {
	return c&Negated != 0
}

// WithNegated returns c with the Negated flag set.
func (c Char) WithNegated() Char {
	return c | Negated
}

// IsNewline reports whether c (flags ignored) is LF, CR, LS or PS.
func IsNewline(c Char) bool {
	switch c.Code() {
	case LF, CR, LS, PS:
		return true
	default:
		return false
	}
}

// IsNewlineRune is IsNewline for a rune.
func IsNewlineRune(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

// String returns the unquoted glyph of c.
func (c Char) String() string {
	return Glyph(c, false)
}
