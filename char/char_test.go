package char

import "testing"

func TestCharFlags(t *testing.T) {
	a := Char('a')
	na := a.WithNegated()

	if a.IsNegated() {
		t.Error("plain char reported as negated")
	}
	if !na.IsNegated() {
		t.Error("WithNegated did not set the flag")
	}
	if na.Code() != a {
		t.Errorf("Code() = %#x, want %#x", uint32(na.Code()), uint32(a))
	}
}

func TestNegatedSortsLast(t *testing.T) {
	if !(MaxCode < Negated) {
		t.Fatal("largest code point must sort before every negated key")
	}
	if !(Char('z').WithNegated() < NotChar) {
		t.Fatal("negated keys must sort before NotChar")
	}
}

func TestIsNewline(t *testing.T) {
	tests := []struct {
		c    Char
		want bool
	}{
		{LF, true},
		{CR, true},
		{LS, true},
		{PS, true},
		{LF.WithNegated(), true},
		{'a', false},
		{0x0B, false},
		{0x85, false},
	}
	for _, tt := range tests {
		if got := IsNewline(tt.c); got != tt.want {
			t.Errorf("IsNewline(%#x) = %v, want %v", uint32(tt.c), got, tt.want)
		}
		if tt.c.IsNegated() {
			continue
		}
		if got := IsNewlineRune(tt.c.Rune()); got != tt.want {
			t.Errorf("IsNewlineRune(%#x) = %v, want %v", uint32(tt.c), got, tt.want)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name   string
		c      Char
		quoted bool
		want   string
	}{
		{"null", 0x00, false, "NULL"},
		{"line feed", LF, true, "LF"},
		{"unit separator", 0x1F, false, "US"},
		{"delete", 0x7F, true, "DEL"},
		{"letter quoted", 'a', true, "'a'"},
		{"letter", 'a', false, "a"},
		{"space quoted", ' ', true, "' '"},
		{"negated letter", Char('a').WithNegated(), false, "^a"},
		{"negated control", CR.WithNegated(), true, "^CR"},
		{"latin", 0xE9, false, `\u00E9`},
		{"line separator", LS, true, `\u2028`},
		{"supplementary", 0x1F600, false, `\U01F600`},
		{"max", MaxCode, false, `\U10FFFF`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Glyph(tt.c, tt.quoted); got != tt.want {
				t.Errorf("Glyph(%#x, %v) = %q, want %q", uint32(tt.c), tt.quoted, got, tt.want)
			}
		})
	}
}

func TestGlyphString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a\nb", "aLFb"},
		{"\t(x)", "HT(x)"},
		{"\u00e9", `\u00E9`},
	}
	for _, tt := range tests {
		if got := GlyphString(tt.in); got != tt.want {
			t.Errorf("GlyphString(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := GlyphRunes([]rune(tt.in)); got != tt.want {
			t.Errorf("GlyphRunes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
