package char

import (
	"fmt"
	"strings"
)

// controlNames are the ASCII names of code points 0x00 through 0x1F.
var controlNames = [32]string{
	"NULL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "LF", "VT", "FF", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// Glyph renders c in a printable form for diagnostics.
//
// Control characters are rendered by their ASCII names (LF, ESC, DEL),
// printable ASCII as itself, other code points as \uXXXX or \UXXXXXX.
// A negated character gets a leading '^'. With quoted set, printable
// ASCII is wrapped in single quotes.
//
// Example:
//
//	char.Glyph('a', true)                    // "'a'"
//	char.Glyph(char.LF.WithNegated(), false) // "^LF"
//	char.Glyph(0x2028, false)                // `\u2028`
func Glyph(c Char, quoted bool) string {
	var b strings.Builder
	writeGlyph(&b, c, quoted)
	return b.String()
}

// GlyphString renders every rune of s with Glyph, unquoted, and concatenates
// the results.
func GlyphString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		writeGlyph(&b, FromRune(r), false)
	}
	return b.String()
}

// GlyphRunes is GlyphString for a rune slice.
func GlyphRunes(rs []rune) string {
	var b strings.Builder
	b.Grow(len(rs))
	for _, r := range rs {
		writeGlyph(&b, FromRune(r), false)
	}
	return b.String()
}

func writeGlyph(b *strings.Builder, c Char, quoted bool) {
	if c.IsNegated() {
		b.WriteByte('^')
	}
	code := c.Code()
	switch {
	case code < 0x20:
		b.WriteString(controlNames[code])
	case code == 0x7F:
		b.WriteString("DEL")
	case code < 0x7F:
		if quoted {
			b.WriteByte('\'')
			b.WriteByte(byte(code))
			b.WriteByte('\'')
		} else {
			b.WriteByte(byte(code))
		}
	case code <= 0xFFFF:
		fmt.Fprintf(b, "\\u%04X", uint32(code))
	case code <= MaxCode:
		fmt.Fprintf(b, "\\U%06X", uint32(code))
	default:
		fmt.Fprintf(b, "\\x%08X", uint32(code))
	}
}
