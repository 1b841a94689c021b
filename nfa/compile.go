package nfa

import (
	"fmt"
	"unicode/utf16"

	"github.com/coregx/dfaregex/char"
)

// CompilerConfig configures pattern compilation
type CompilerConfig struct {
	// AllowEmptyMatch accepts patterns whose start state reaches the accept
	// state through epsilon transitions alone (a*, a?, (a|b)*). Such patterns
	// are rejected by default.
	AllowEmptyMatch bool

	// MaxRepeat bounds the counts of {m}, {m,} and {m,n}.
	MaxRepeat int

	// MaxRecursionDepth bounds group nesting.
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		AllowEmptyMatch:   false,
		MaxRepeat:         1000,
		MaxRecursionDepth: 100,
	}
}

// Validate checks the configuration values
func (c CompilerConfig) Validate() error {
	if c.MaxRepeat < 1 {
		return fmt.Errorf("%w: MaxRepeat must be at least 1, got %d", ErrInvalidConfig, c.MaxRepeat)
	}
	if c.MaxRecursionDepth < 1 {
		return fmt.Errorf("%w: MaxRecursionDepth must be at least 1, got %d", ErrInvalidConfig, c.MaxRecursionDepth)
	}
	return nil
}

// Compiler parses patterns into NFAs by recursive descent, one method per
// nonterminal:
//
//	Goal          -> Alternation
//	Alternation   -> Concatenation ('|' Concatenation)*
//	Concatenation -> Term+
//	Term          -> Block Closure?
//	Block         -> '(' Alternation ')' | '[' CharacterClass ']' | Atom
//	CharacterClass-> '^'? ClassItem+
//	ClassItem     -> Atom ('-' Atom)?
//	Atom          -> LITERAL | '.' | '\' Escape
//	Closure       -> '*' | '+' | '?' | '{' Count '}'
//	Count         -> INT | INT ',' | INT ',' INT
//
// A Compiler is not safe for concurrent use but may be reused.
type Compiler struct {
	config   CompilerConfig
	pattern  string
	lex      lexer
	alphabet *AlphabetBuilder
	last     char.Char // most recent atom, flags included; start of a class range
	depth    int
}

// NewCompiler creates a compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses pattern and returns its NFA. Every failure is a
// *CompileError; compilation is all-or-nothing.
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, &CompileError{
			Pattern: pattern,
			Message: "Empty regular expression ",
			Err:     ErrEmptyPattern,
		}
	}

	c.pattern = pattern
	c.lex.reset([]rune(pattern))
	c.alphabet = NewAlphabetBuilder()
	c.last = char.NotChar
	c.depth = 0

	c.lex.advance(true)
	frag, err := c.parseAlternation()
	if err != nil {
		return nil, err
	}
	if c.lex.tok.kind != tokenEOS {
		return nil, c.errCharacter()
	}

	nfa := frag.Build(c.alphabet.Freeze())
	if !c.config.AllowEmptyMatch && nfa.EpsilonReachable(nfa.start, nfa.accept) {
		return nil, c.invalid(ErrMatchesAnyString, "This regular expression is invalid. It matches any string")
	}
	return nfa, nil
}

// Compile parses pattern with the default configuration
func Compile(pattern string) (*NFA, error) {
	return NewDefaultCompiler().Compile(pattern)
}

func (c *Compiler) parseAlternation() (Fragment, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return Fragment{}, c.invalid(ErrTooComplex,
			fmt.Sprintf("Nesting depth exceeds the limit of %d", c.config.MaxRecursionDepth))
	}

	a, err := c.parseConcatenation()
	if err != nil {
		return Fragment{}, err
	}
	for {
		t := c.lex.tok
		switch {
		case t.kind == tokenEOS, t.is(')'):
			return a, nil
		case t.is('|'):
			c.lex.advance(true)
			b, err := c.parseConcatenation()
			if err != nil {
				return Fragment{}, err
			}
			a = Alternate(a, b)
		default:
			return Fragment{}, c.errCharacter()
		}
	}
}

func (c *Compiler) parseConcatenation() (Fragment, error) {
	a, err := c.parseTerm()
	if err != nil {
		return Fragment{}, err
	}
	for {
		t := c.lex.tok
		if t.kind == tokenEOS || t.is(')') || t.is('|') {
			return a, nil
		}
		// Any other token starts a term; stray closures and brackets are
		// rejected by parseAtom.
		b, err := c.parseTerm()
		if err != nil {
			return Fragment{}, err
		}
		a = Concatenate(a, b)
	}
}

func (c *Compiler) parseTerm() (Fragment, error) {
	a, err := c.parseBlock()
	if err != nil {
		return Fragment{}, err
	}
	return c.parseClosure(a)
}

func (c *Compiler) parseBlock() (Fragment, error) {
	t := c.lex.tok
	switch {
	case t.is('('):
		c.lex.advance(true)
		a, err := c.parseAlternation()
		if err != nil {
			return Fragment{}, err
		}
		if !c.lex.tok.is(')') {
			return Fragment{}, c.errCharacter()
		}
		c.lex.advance(true)
		return a, nil

	case t.is('['):
		c.lex.advance(true)
		a, err := c.parseClass()
		if err != nil {
			return Fragment{}, err
		}
		if !c.lex.tok.is(']') {
			return Fragment{}, c.errCharacter()
		}
		c.lex.advance(true)
		return a, nil
	}
	return c.parseAtom(0, false)
}

// parseClass parses the body of [...]. A leading '^' sets the Negated flag
// on every item of the class.
func (c *Compiler) parseClass() (Fragment, error) {
	var flags char.Char
	if c.lex.tok.isLiteral('^') {
		flags = char.Negated
		c.lex.advance(true)
	}

	a, err := c.parseAtom(flags, true)
	if err != nil {
		return Fragment{}, err
	}
	for {
		t := c.lex.tok
		switch {
		case t.kind == tokenEOS, t.is(']'):
			return a, nil

		case t.isLiteral('-'):
			lo := c.last
			c.lex.advance(true)
			b, err := c.parseAtom(flags, true)
			if err != nil {
				return Fragment{}, err
			}
			hi := c.last
			if lo.Code() >= hi.Code() {
				return Fragment{}, c.errRange()
			}
			// lo itself is already in a and hi in b; the flags ride along in
			// the high bits while the code point advances.
			for ch := lo + 1; ch < hi; ch++ {
				c.alphabet.Add(ch)
				a = Alternate(a, Literal(ch))
			}
			a = Alternate(a, b)

		default:
			b, err := c.parseAtom(flags, true)
			if err != nil {
				return Fragment{}, err
			}
			a = Alternate(a, b)
		}
	}
}

// parseAtom parses a single character. Inside a class, specials other than
// '\', '[' and ']' are plain literals and '.' is a literal dot.
func (c *Compiler) parseAtom(flags char.Char, inClass bool) (Fragment, error) {
	t := c.lex.tok
	switch t.kind {
	case tokenLiteral:
		return c.literal(t.ch | flags), nil

	case tokenSpecial:
		switch t.ch {
		case '.':
			if inClass {
				return c.literal(t.ch | flags), nil
			}
			c.lex.advance(true)
			return c.notNewline(), nil
		case '\\':
			c.lex.advance(false)
			return c.parseEscape(flags, inClass)
		case '[', ']':
			// never an atom
		default:
			if inClass {
				return c.literal(t.ch | flags), nil
			}
		}
	}
	return Fragment{}, c.errCharacter()
}

// literal consumes the lookahead and returns the fragment for ch.
func (c *Compiler) literal(ch char.Char) Fragment {
	c.last = ch
	c.lex.advance(true)
	c.alphabet.Add(ch)
	return Literal(ch)
}

// notNewline builds '.', the alternation of the four negated newline
// equivalents.
func (c *Compiler) notNewline() Fragment {
	var a Fragment
	for _, nl := range char.Newlines {
		ch := nl.WithNegated()
		c.alphabet.Add(ch)
		a = Alternate(a, Literal(ch))
	}
	return a
}

func (c *Compiler) parseEscape(flags char.Char, inClass bool) (Fragment, error) {
	t := c.lex.tok
	switch t.kind {
	case tokenSpecial:
		return c.literal(t.ch | flags), nil
	case tokenLiteral:
		ch, ok, err := c.escapeValue(inClass)
		if err != nil {
			return Fragment{}, err
		}
		if !ok {
			ch = t.ch
		}
		return c.literal(ch | flags), nil
	}
	return Fragment{}, c.errCharacter()
}

// escapeValue decodes the escape whose letter is the lookahead. It reports
// ok=false when the letter is not an escape, in which case the letter stands
// for itself. Multi-rune escapes leave the lookahead on their last rune.
func (c *Compiler) escapeValue(inClass bool) (ch char.Char, ok bool, err error) {
	switch c.lex.tok.ch {
	case '0':
		return 0x00, true, nil
	case 'b':
		if inClass {
			return 0x08, true, nil
		}
		return 0, false, nil
	case 't':
		return 0x09, true, nil
	case 'n':
		return char.LF, true, nil
	case 'v':
		return 0x0B, true, nil
	case 'f':
		return 0x0C, true, nil
	case 'r':
		return char.CR, true, nil
	case 'c':
		c.lex.advance(false)
		ch, err = c.controlCode()
		return ch, err == nil, err
	case 'x':
		c.lex.advance(false)
		ch, err = c.asciiCode()
		return ch, err == nil, err
	case 'u':
		c.lex.advance(false)
		ch, err = c.unicodeCode(4)
		return ch, err == nil, err
	case 'U':
		c.lex.advance(false)
		ch, err = c.unicodeCode(6)
		return ch, err == nil, err
	}
	return 0, false, nil
}

// controlCode decodes the letter of \cX.
func (c *Compiler) controlCode() (char.Char, error) {
	ch := c.lex.tok.ch
	switch {
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 1, nil
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A' + 1, nil
	}
	c.lex.advance(true)
	return 0, c.errEscape()
}

// asciiCode decodes the two hex digits of \xHH, limited to 0x00-0x7F.
func (c *Compiler) asciiCode() (char.Char, error) {
	d1 := c.lex.tok.ch
	c.lex.advance(false)
	d2 := c.lex.tok.ch
	h1, ok1 := hexValue(d1)
	h2, ok2 := hexValue(d2)
	if ok1 && ok2 {
		if v := h1<<4 | h2; v <= 0x7F {
			return v, nil
		}
	}
	c.lex.advance(true)
	return 0, c.errEscape()
}

// unicodeCode decodes \uHHHH (0x0000-0xFFFF) or \UHHHHHH (0x10000-0x10FFFF).
// Surrogate halves (0xD800-0xDFFF) are rejected: no input text can hold
// one, so they could never match. All digits are consumed even after a bad one, so the error quotes the
// whole sequence.
func (c *Compiler) unicodeCode(digits int) (char.Char, error) {
	var v char.Char
	valid := true
	for i := 0; i < digits; i++ {
		h, ok := hexValue(c.lex.tok.ch)
		if ok {
			v = v<<4 | h
		} else {
			valid = false
		}
		if i < digits-1 {
			c.lex.advance(false)
		}
	}
	if valid {
		if digits == 4 && v <= 0xFFFF && !utf16.IsSurrogate(rune(v)) {
			return v, nil
		}
		if digits == 6 && v >= 0x10000 && v <= char.MaxCode {
			return v, nil
		}
	}
	c.lex.advance(true)
	return 0, c.errEscape()
}

func hexValue(ch char.Char) (char.Char, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func isDigit(ch char.Char) bool {
	return ch >= '0' && ch <= '9'
}

func (c *Compiler) parseClosure(a Fragment) (Fragment, error) {
	t := c.lex.tok
	if t.kind != tokenSpecial {
		return a, nil
	}
	switch t.ch {
	case '*':
		c.lex.advance(true)
		return Kleene(a), nil
	case '+':
		c.lex.advance(true)
		return Positive(a), nil
	case '?':
		c.lex.advance(true)
		return Optional(a), nil
	case '{':
		c.lex.advance(true)
		return c.parseCount(a)
	case '(', ')', '.', '[', '\\', '|':
		return a, nil
	}
	return Fragment{}, c.errCharacter()
}

// parseCount parses the counts of {m}, {m,} or {m,n} after the opening
// brace and applies the repetition to a.
func (c *Compiler) parseCount(a Fragment) (Fragment, error) {
	if t := c.lex.tok; t.kind != tokenLiteral || !isDigit(t.ch) {
		return Fragment{}, c.errCharacter()
	}
	min := c.integer()
	max := -1
	kind := RepeatExact

	switch t := c.lex.tok; {
	case t.kind == tokenEOS, t.is('}'):
	case t.isLiteral(','):
		kind = RepeatAtLeast
		c.lex.advance(true)
		switch t := c.lex.tok; {
		case t.kind == tokenEOS, t.is('}'):
		case t.kind == tokenLiteral && isDigit(t.ch):
			max = c.integer()
			kind = RepeatRange
		default:
			return Fragment{}, c.errCharacter()
		}
	default:
		return Fragment{}, c.errCharacter()
	}
	if !c.lex.tok.is('}') {
		return Fragment{}, c.errCharacter()
	}

	if err := ValidateRepeat(kind, min, max); err != nil {
		return Fragment{}, c.invalid(ErrInvalidRepeat, err.Error())
	}
	if min > c.config.MaxRepeat || max > c.config.MaxRepeat {
		return Fragment{}, c.invalid(ErrInvalidRepeat,
			fmt.Sprintf("Repetition count must be less than or equal to %d", c.config.MaxRepeat))
	}
	a, err := Repeat(a, kind, min, max)
	if err != nil {
		return Fragment{}, err
	}
	c.lex.advance(true)
	return a, nil
}

// integer consumes a run of decimal digits. The value saturates instead of
// overflowing; MaxRepeat rejects it afterwards.
func (c *Compiler) integer() int {
	const limit = 1 << 30
	n := 0
	for c.lex.tok.kind == tokenLiteral && isDigit(c.lex.tok.ch) {
		if n < limit {
			n = n*10 + int(c.lex.tok.ch-'0')
		}
		c.lex.advance(true)
	}
	return n
}

// invalid builds a CompileError whose message ends with the glyph-escaped
// source pattern.
func (c *Compiler) invalid(kind error, message string) *CompileError {
	return &CompileError{
		Pattern: c.pattern,
		Offset:  c.lex.pos,
		Message: message + ". Regular expression: " + char.GlyphString(c.pattern),
		Err:     kind,
	}
}

func (c *Compiler) errCharacter() *CompileError {
	found := "EOF"
	if c.lex.pos >= 0 && c.lex.pos < len(c.lex.src) {
		found = char.Glyph(char.FromRune(c.lex.src[c.lex.pos]), false)
	}
	return c.invalid(ErrInvalidCharacter, fmt.Sprintf(
		"Invalid character '%s' was encountered after substring '%s'",
		found, char.GlyphRunes(c.lex.consumed(0))))
}

func (c *Compiler) errRange() *CompileError {
	rng := c.lex.recent(3)
	return c.invalid(ErrInvalidRange, fmt.Sprintf(
		"Invalid range '%s' was encountered after substring '%s'",
		char.GlyphRunes(rng), char.GlyphRunes(c.lex.consumed(len(rng)))))
}

func (c *Compiler) errEscape() *CompileError {
	esc := c.lex.recent(1)
	return c.invalid(ErrInvalidEscape, fmt.Sprintf(
		"Invalid escape sequence '%s' was encountered after substring '%s'",
		char.GlyphRunes(esc), char.GlyphRunes(c.lex.consumed(len(esc)))))
}
