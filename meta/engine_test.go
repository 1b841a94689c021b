package meta

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/dfaregex/dfa"
	"github.com/coregx/dfaregex/nfa"
)

func mustCompile(t testing.TB, pattern string, config Config) *Engine {
	t.Helper()
	e, err := CompileWithConfig(pattern, config)
	if err != nil {
		t.Fatalf("CompileWithConfig(%q): %v", pattern, err)
	}
	return e
}

type span struct {
	line, column, start, end int
}

func spans(ms []Match) []span {
	out := make([]span, len(ms))
	for i, m := range ms {
		out[i] = span{m.Line(), m.Column(), m.Start(), m.End()}
	}
	return out
}

func equalSpans(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEngine_Match(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"b", "b", true},
		{"b", "ba", false},
		{"b", "", false},
		{"a|b", "a", true},
		{"a|b", "b", true},
		{"a|b", "ab", false},
		{"a|b", "", false},
		{"a{2,3}", "a", false},
		{"a{2,3}", "aa", true},
		{"a{2,3}", "aaa", true},
		{"a{2,3}", "aaaa", false},
		{"[^a]", "b", true},
		{"[^a]", "\u00e9", true},
		{"[^a]", "a", false},
		{"[^a]", "bb", false},
		{"[^a]", "", false},
		{"(ab|cd)+", "abcdab", true},
		{"(ab|cd)+", "abc", false},
		{"x.z", "x\u00e9z", true},
		{"x.z", "x\nz", false},
		{"\u00e9t\u00e9", "\u00e9t\u00e9", true},
		{"[a-c]{2}", "cb", true},
		{"a", "\xff", false},
		{"[^a]", "\xff", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			e := mustCompile(t, tt.pattern, DefaultConfig())
			if got := e.Match([]byte(tt.input)); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_AllowEmptyMatch(t *testing.T) {
	if _, err := Compile("a*"); !errors.Is(err, nfa.ErrInvalidPattern) {
		t.Fatalf("Compile(a*) = %v, want ErrInvalidPattern", err)
	}
	e := mustCompile(t, "a*", DefaultConfig().WithAllowEmptyMatch(true))
	for input, want := range map[string]bool{"": true, "a": true, "aaaa": true, "ab": false, "b": false} {
		if got := e.Match([]byte(input)); got != want {
			t.Errorf("Match(%q) = %v, want %v", input, got, want)
		}
	}
	// empty matches are never reported
	got := spans(e.Search([]byte("baab")))
	if want := []span{{1, 2, 1, 3}}; !equalSpans(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}
}

func TestEngine_Search(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    []span
	}{
		{"non-overlapping", "a", "aXaXa", []span{{1, 1, 0, 1}, {1, 3, 2, 3}, {1, 5, 4, 5}}},
		{"greedy", "a+", "caaab aa", []span{{1, 2, 1, 4}, {1, 7, 6, 8}}},
		{"no match", "xyz", "xyxyzz", []span{{1, 3, 2, 5}}},
		{"empty text", "a", "", nil},
		{"alternation", "ab|abcd", "abcdab", []span{{1, 1, 0, 4}, {1, 5, 4, 6}}},
		{"negated", "[^a]b", "abxbbb", []span{{1, 3, 2, 4}, {1, 5, 4, 6}}},
		{"dot", "a.c", "abc a\nc axc", []span{{1, 1, 0, 3}, {2, 3, 8, 11}}},
		{
			"every newline",
			"ab",
			"ab\ncab\r\nab\u2028xab\u2029ab",
			[]span{{1, 1, 0, 2}, {2, 2, 4, 6}, {4, 1, 8, 10}, {5, 2, 14, 16}, {6, 1, 19, 21}},
		},
		{"multibyte columns", "b", "\u00e9\u00e9b", []span{{1, 3, 4, 5}}},
		{"ascii lines", "x", "..\n..x\n\nx", []span{{2, 3, 5, 6}, {4, 1, 8, 9}}},
		{"short literal inside long", "xyz|y", "xyz", []span{{1, 1, 0, 3}}},
		{"short literal ends first", "cab|a", "cabd", []span{{1, 1, 0, 3}}},
		{"class branch ends first", "([ab]caa|(c[^a]|cb))", "acaab", []span{{1, 1, 0, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pf := range []bool{true, false} {
				e := mustCompile(t, tt.pattern, DefaultConfig().WithPrefilter(pf))
				got := spans(e.Search([]byte(tt.text)))
				if !equalSpans(got, tt.want) {
					t.Errorf("prefilter=%v: Search(%q) = %v, want %v", pf, tt.text, got, tt.want)
				}
			}
		})
	}
}

func TestEngine_FindAndCount(t *testing.T) {
	e := mustCompile(t, "o+", DefaultConfig())
	m, ok := e.Find([]byte("foo boo"))
	if !ok || m.Start() != 1 || m.End() != 3 || m.String() != "oo" {
		t.Errorf("Find = %v %v, want [1,3) oo", m, ok)
	}
	if _, ok := e.Find([]byte("xyz")); ok {
		t.Error("Find(xyz) should fail")
	}
	if got := e.Count([]byte("foo boo o")); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
}

// TestEngine_PrefilterTransparent checks that the prefilter never changes
// the result of Search.
func TestEngine_PrefilterTransparent(t *testing.T) {
	patterns := []string{
		"ab", "a+b", "(ab|cd)e", "x[^y]z", "a|b|c", "b[a-c]+",
		"[^a]b|[^c]d", ".a", "ab{2,3}", "\u00e9t\u00e9", "(a|\u00e9)x",
		"d(a|b)*c", "abc|bcd|cde|e",
		"xyz|y", "cab|a", "([ab]caa|(c[^a]|cb))", "abcde|cd|d",
	}
	alphabet := []rune("abcdexyz\n\u00e9 ")
	rng := rand.New(rand.NewSource(11))
	for _, p := range patterns {
		with := mustCompile(t, p, DefaultConfig())
		without := mustCompile(t, p, DefaultConfig().WithPrefilter(false))
		for i := 0; i < 200; i++ {
			rs := make([]rune, rng.Intn(60))
			for j := range rs {
				rs[j] = alphabet[rng.Intn(len(alphabet))]
			}
			text := []byte(string(rs))
			a, b := spans(with.Search(text)), spans(without.Search(text))
			if !equalSpans(a, b) {
				t.Fatalf("%q on %q: with prefilter %v, without %v", p, text, a, b)
			}
		}
	}
}

// TestEngine_PrefilterRandomAlternations compares Search with and without
// the prefilter on alternations of random literals, where one branch often
// occurs inside another.
func TestEngine_PrefilterRandomAlternations(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	word := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('a' + rng.Intn(3))
		}
		return string(b)
	}
	for round := 0; round < 300; round++ {
		branches := make([]string, 2+rng.Intn(3))
		for i := range branches {
			branches[i] = word(1 + rng.Intn(4))
			if rng.Intn(4) == 0 {
				branches[i] += "[^a]"
			}
		}
		p := strings.Join(branches, "|")
		with := mustCompile(t, p, DefaultConfig())
		without := mustCompile(t, p, DefaultConfig().WithPrefilter(false))
		for i := 0; i < 20; i++ {
			text := []byte(word(rng.Intn(40)))
			a, b := spans(with.Search(text)), spans(without.Search(text))
			if !equalSpans(a, b) {
				t.Fatalf("%q on %q: with prefilter %v, without %v", p, text, a, b)
			}
		}
	}
}

func TestEngine_PrefilterRetires(t *testing.T) {
	e := mustCompile(t, "a[^x]y", DefaultConfig())
	if e.Prefilter() == nil {
		t.Fatal("a[^x]y should have a prefilter")
	}
	text := []byte(strings.Repeat("a", 1000) + "zy")
	got := spans(e.Search(text))
	if want := []span{{1, 1000, 999, 1002}}; !equalSpans(got, want) {
		t.Fatalf("Search = %v, want %v", got, want)
	}
	st := e.Stats()
	if st.PrefilterRetired != 1 {
		t.Errorf("PrefilterRetired = %d, want 1", st.PrefilterRetired)
	}
	if st.PrefilterCandidates < 128 {
		t.Errorf("PrefilterCandidates = %d, want at least the warmup", st.PrefilterCandidates)
	}
}

func TestEngine_Introspection(t *testing.T) {
	tests := []struct {
		pattern   string
		strategy  Strategy
		prefilter bool
	}{
		{"abc", UseSingleState, true},
		{"a|b", UseSingleState, true},
		{"[^a]", UseMultiState, false},
		{"x.", UseMultiState, true},
	}
	for _, tt := range tests {
		e := mustCompile(t, tt.pattern, DefaultConfig())
		if e.Strategy() != tt.strategy {
			t.Errorf("%q: Strategy = %v, want %v", tt.pattern, e.Strategy(), tt.strategy)
		}
		if (e.Prefilter() != nil) != tt.prefilter {
			t.Errorf("%q: prefilter = %v, want %v", tt.pattern, e.Prefilter() != nil, tt.prefilter)
		}
		if (e.Literals() != nil) != tt.prefilter {
			t.Errorf("%q: literals = %v", tt.pattern, e.Literals())
		}
		if e.Pattern() != tt.pattern || e.DFA() == nil || e.NFAStates() < 2 {
			t.Errorf("%q: bad accessors", tt.pattern)
		}
	}
	if e := mustCompile(t, "abc", DefaultConfig().WithPrefilter(false)); e.Prefilter() != nil {
		t.Error("prefilter built although disabled")
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := Compile("a**"); !errors.Is(err, nfa.ErrInvalidPattern) {
		t.Errorf("Compile(a**) = %v, want ErrInvalidPattern", err)
	}
	if _, err := Compile(""); !errors.Is(err, nfa.ErrEmptyPattern) {
		t.Errorf("Compile(\"\") = %v, want ErrEmptyPattern", err)
	}
	_, err := CompileWithConfig("(a|b)*a(a|b){8}", DefaultConfig().WithMaxDFAStates(64))
	if !errors.Is(err, dfa.ErrStateLimitExceeded) {
		t.Errorf("got %v, want ErrStateLimitExceeded", err)
	}
	_, err = CompileWithConfig("a", DefaultConfig().WithMaxDFAStates(0))
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "MaxDFAStates" || !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v, want a MaxDFAStates *ConfigError", err)
	}
}

func TestEngine_Stats(t *testing.T) {
	e := mustCompile(t, "a", DefaultConfig())
	e.Match([]byte("a"))
	e.Match([]byte("b"))
	e.Search([]byte("aXaXa"))
	st := e.Stats()
	if st.MatchCalls != 2 || st.SearchCalls != 1 || st.Matches != 3 {
		t.Errorf("Stats = %+v", st)
	}
	if st.PrefilterCandidates != 3 {
		t.Errorf("PrefilterCandidates = %d, want 3", st.PrefilterCandidates)
	}
	e.ResetStats()
	if st := e.Stats(); st != (Stats{}) {
		t.Errorf("after ResetStats: %+v", st)
	}
}

func TestEngine_Concurrent(t *testing.T) {
	e := mustCompile(t, "[^ ]+x", DefaultConfig())
	text := []byte(strings.Repeat("abx cdx\nyyx zz ", 50))
	want := spans(e.Search(text))
	if len(want) != 100 {
		t.Fatalf("Search found %d matches, want 100", len(want))
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if got := spans(e.Search(text)); !equalSpans(got, want) {
					errs <- "concurrent Search diverged"
					return
				}
				if !e.Match([]byte("abx")) {
					errs <- "concurrent Match failed"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func BenchmarkSearch(b *testing.B) {
	text := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 100))
	for _, p := range []string{"lazy", "qu[a-z]+", "o[^ ]"} {
		for _, pf := range []bool{true, false} {
			e := mustCompile(b, p, DefaultConfig().WithPrefilter(pf))
			name := p
			if !pf {
				name += "/noprefilter"
			}
			b.Run(name, func(b *testing.B) {
				b.SetBytes(int64(len(text)))
				for i := 0; i < b.N; i++ {
					e.Search(text)
				}
			})
		}
	}
}
