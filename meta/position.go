package meta

import (
	"unicode/utf8"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/simd"
)

// cursor maintains the line and column of a byte offset while a scan moves
// forward. Each of LF, CR, LS and PS starts a new line, so CRLF counts as
// two line breaks.
type cursor struct {
	off    int
	line   int
	column int
}

func newCursor() cursor {
	return cursor{line: 1, column: 1}
}

// advance moves the cursor to offset to, which must not lie before the
// current offset.
func (c *cursor) advance(h []byte, to int) {
	seg := h[c.off:to]
	c.off = to
	if simd.IsASCII(seg) {
		// LS and PS are not ASCII
		for {
			i := simd.Memchr2(seg, '\n', '\r')
			if i < 0 {
				c.column += len(seg)
				return
			}
			c.line++
			c.column = 1
			seg = seg[i+1:]
		}
	}
	for len(seg) > 0 {
		r, w := utf8.DecodeRune(seg)
		if char.IsNewlineRune(r) {
			c.line++
			c.column = 1
		} else {
			c.column++
		}
		seg = seg[w:]
	}
}
