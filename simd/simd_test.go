package simd

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

// withNarrow runs f once with the unrolled loops and once without.
func withNarrow(t *testing.T, f func(t *testing.T)) {
	t.Helper()
	saved := wide
	defer func() { wide = saved }()
	for _, w := range []bool{true, false} {
		wide = w
		name := "word"
		if w {
			name = "wide"
		}
		t.Run(name, f)
	}
}

func TestMemchr(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   byte
		want     int
	}{
		{"empty", "", 'a', -1},
		{"first", "abc", 'a', 0},
		{"last", "abc", 'c', 2},
		{"missing", "abc", 'x', -1},
		{"word boundary", "0123456789", '8', 8},
		{"after block", strings.Repeat("x", 40) + "y", 'y', 40},
		{"inside block", strings.Repeat("x", 19) + "y" + strings.Repeat("x", 20), 'y', 19},
		{"high byte", "ab\xffc", 0xff, 2},
		{"zero byte", "ab\x00c", 0, 2},
		{"repeated", "xyzyzyz", 'z', 2},
	}
	withNarrow(t, func(t *testing.T) {
		for _, tt := range tests {
			if got := Memchr([]byte(tt.haystack), tt.needle); got != tt.want {
				t.Errorf("%s: Memchr = %d, want %d", tt.name, got, tt.want)
			}
		}
	})
}

func TestMemchr2And3(t *testing.T) {
	h := []byte(strings.Repeat("-", 37) + "\r" + strings.Repeat("-", 5) + "\n")
	withNarrow(t, func(t *testing.T) {
		if got := Memchr2(h, '\n', '\r'); got != 37 {
			t.Errorf("Memchr2 = %d, want 37", got)
		}
		if got := Memchr2(h, '\n', '#'); got != 43 {
			t.Errorf("Memchr2 = %d, want 43", got)
		}
		if got := Memchr2(h, '#', '$'); got != -1 {
			t.Errorf("Memchr2 = %d, want -1", got)
		}
		if got := Memchr3(h, '#', '\n', '\r'); got != 37 {
			t.Errorf("Memchr3 = %d, want 37", got)
		}
		if got := Memchr3(h, '#', '$', '%'); got != -1 {
			t.Errorf("Memchr3 = %d, want -1", got)
		}
	})
}

func TestMemchr_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	withNarrow(t, func(t *testing.T) {
		for i := 0; i < 500; i++ {
			h := make([]byte, rng.Intn(100))
			for j := range h {
				h[j] = byte('a' + rng.Intn(8))
			}
			n := byte('a' + rng.Intn(10))
			if got, want := Memchr(h, n), bytes.IndexByte(h, n); got != want {
				t.Fatalf("Memchr(%q, %q) = %d, want %d", h, n, got, want)
			}
			n2 := byte('a' + rng.Intn(10))
			if got, want := Memchr2(h, n, n2), bytes.IndexAny(h, string([]byte{n, n2})); got != want {
				t.Fatalf("Memchr2(%q, %q, %q) = %d, want %d", h, n, n2, got, want)
			}
		}
	})
}

func TestIsASCII(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{"", true},
		{"hello", true},
		{strings.Repeat("a", 64), true},
		{"caf\u00e9", false},
		{strings.Repeat("a", 40) + "\x80", false},
		{strings.Repeat("a", 7) + "\xc3" + strings.Repeat("a", 40), false},
		{"\x7f", true},
	}
	withNarrow(t, func(t *testing.T) {
		for _, tt := range tests {
			if got := IsASCII([]byte(tt.data)); got != tt.want {
				t.Errorf("IsASCII(%q) = %v, want %v", tt.data, got, tt.want)
			}
		}
	})
}

func TestMemmem(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
	}{
		{"hello world", "world", 6},
		{"hello world", "xyz", -1},
		{"aaaaaabaaaa", "aab", 5},
		{"abc", "", 0},
		{"", "a", -1},
		{"ab", "abc", -1},
		{"abc", "c", 2},
		{"qqQq", "Qq", 2},
		{strings.Repeat("ab", 50) + "abz", "abz", 100},
		{"line\u2028sep", "\u2028", 4},
	}
	withNarrow(t, func(t *testing.T) {
		for _, tt := range tests {
			if got := Memmem([]byte(tt.haystack), []byte(tt.needle)); got != tt.want {
				t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
		}
	})
}

func TestMemmem_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		h := make([]byte, rng.Intn(64))
		for j := range h {
			h[j] = byte('a' + rng.Intn(3))
		}
		n := make([]byte, 1+rng.Intn(4))
		for j := range n {
			n[j] = byte('a' + rng.Intn(3))
		}
		if got, want := Memmem(h, n), bytes.Index(h, n); got != want {
			t.Fatalf("Memmem(%q, %q) = %d, want %d", h, n, got, want)
		}
	}
}

func TestRareByte(t *testing.T) {
	if b, i := RareByte(nil); b != 0 || i != -1 {
		t.Errorf("RareByte(nil) = %q, %d", b, i)
	}
	if b, i := RareByte([]byte("eeZe")); b != 'Z' || i != 2 {
		t.Errorf("RareByte(eeZe) = %q, %d, want 'Z', 2", b, i)
	}
	if ByteRank(' ') <= ByteRank('Q') {
		t.Error("space should rank above Q")
	}
}

func BenchmarkMemchr(b *testing.B) {
	h := []byte(strings.Repeat("abcdefgh", 512) + "z")
	b.SetBytes(int64(len(h)))
	for i := 0; i < b.N; i++ {
		if Memchr(h, 'z') < 0 {
			b.Fatal("not found")
		}
	}
}

func BenchmarkMemmem(b *testing.B) {
	h := []byte(strings.Repeat("the quick brown fox ", 200) + "jumps")
	n := []byte("jumps")
	b.SetBytes(int64(len(h)))
	for i := 0; i < b.N; i++ {
		if Memmem(h, n) < 0 {
			b.Fatal("not found")
		}
	}
}
