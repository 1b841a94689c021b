package meta

import "fmt"

// Match is one match reported by Search: the half-open byte range
// [Start, End) of the haystack and the 1-based line and column at which it
// begins. Columns count characters, not bytes.
//
// A Match refers to the caller's haystack and does not copy it.
type Match struct {
	line     int
	column   int
	start    int
	end      int
	haystack []byte
}

// NewMatch creates a Match.
func NewMatch(line, column, start, end int, haystack []byte) Match {
	return Match{line: line, column: column, start: start, end: end, haystack: haystack}
}

// Line returns the 1-based line of the first character.
func (m Match) Line() int {
	return m.line
}

// Column returns the 1-based column of the first character.
func (m Match) Column() int {
	return m.column
}

// Start returns the byte offset of the match.
func (m Match) Start() int {
	return m.start
}

// End returns the byte offset just past the match.
func (m Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.end - m.start
}

// Bytes returns the matched bytes.
func (m Match) Bytes() []byte {
	return m.haystack[m.start:m.end]
}

// String returns the matched text.
func (m Match) String() string {
	return string(m.Bytes())
}

// Position formats the start of the match as "line:column".
func (m Match) Position() string {
	return fmt.Sprintf("%d:%d", m.line, m.column)
}
