package nfa

import "github.com/coregx/dfaregex/char"

type tokenKind uint8

const (
	tokenEOS tokenKind = iota
	tokenSpecial
	tokenLiteral
)

type token struct {
	ch   char.Char
	kind tokenKind
}

func (t token) is(ch rune) bool {
	return t.kind == tokenSpecial && t.ch == char.Char(ch)
}

func (t token) isLiteral(ch rune) bool {
	return t.kind == tokenLiteral && t.ch == char.Char(ch)
}

// isSpecial reports whether r is one of ( ) * + . ? [ \ ] { | }.
// Every other rune, including ^ - and ',', is a literal token.
func isSpecial(r rune) bool {
	switch r {
	case '(', ')', '*', '+', '.', '?', '[', '\\', ']', '{', '|', '}':
		return true
	default:
		return false
	}
}

// ringSize is the number of token substrings remembered for diagnostics.
const ringSize = 4

// lexer is a one-token lookahead cursor over the pattern.
//
// Besides the lookahead it remembers the text of the last few tokens in a
// ring buffer. A token normally spans one rune; advancing with begin=false
// extends the current token instead of starting a new one, so a whole escape
// sequence such as \x41 is remembered as a single entry. Error messages
// for ranges and escapes quote these entries even though the lookahead has
// already moved past them.
type lexer struct {
	src  []rune
	pos  int // index of the lookahead rune; may exceed len(src) after EOS
	tok  token
	ring [ringSize][]rune
	cur  int
}

func (l *lexer) reset(src []rune) {
	l.src = src
	l.pos = -1
	l.cur = 0
	for i := range l.ring {
		l.ring[i] = l.ring[i][:0]
	}
	l.tok = token{ch: char.NotChar, kind: tokenEOS}
}

// advance moves the lookahead one rune forward. With begin set the new rune
// starts a new ring entry, otherwise it is appended to the current one.
func (l *lexer) advance(begin bool) {
	l.pos++
	if begin {
		l.cur = (l.cur + 1) % ringSize
		l.ring[l.cur] = l.ring[l.cur][:0]
	}
	if l.pos < len(l.src) {
		l.ring[l.cur] = append(l.ring[l.cur], l.src[l.pos])
		r := l.src[l.pos]
		kind := tokenLiteral
		if isSpecial(r) {
			kind = tokenSpecial
		}
		l.tok = token{ch: char.FromRune(r), kind: kind}
		return
	}
	l.tok = token{ch: char.NotChar, kind: tokenEOS}
}

// recent returns the text of the qty ring entries preceding the lookahead
// entry, oldest first.
func (l *lexer) recent(qty int) []rune {
	if qty <= 0 {
		return nil
	}
	if qty > ringSize-1 {
		qty = ringSize - 1
	}
	i := l.cur
	for k := 0; k < qty; k++ {
		i = (i + ringSize - 1) % ringSize
	}
	var out []rune
	for k := 0; k < qty; k++ {
		out = append(out, l.ring[i]...)
		i = (i + 1) % ringSize
	}
	return out
}

// consumed returns the pattern text before the lookahead, less trim runes
// from its end.
func (l *lexer) consumed(trim int) []rune {
	end := l.pos
	if end > len(l.src) {
		end = len(l.src)
	}
	end -= trim
	if end < 0 {
		end = 0
	}
	return l.src[:end]
}
