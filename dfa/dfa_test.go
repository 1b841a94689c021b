package dfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/nfa"
)

func mustNFA(t testing.TB, pattern string) *nfa.NFA {
	t.Helper()
	n, err := nfa.Compile(pattern)
	if err != nil {
		t.Fatalf("nfa.Compile(%q): %v", pattern, err)
	}
	return n
}

func mustBuild(t testing.TB, pattern string, config Config) *DFA {
	t.Helper()
	d, err := CompileWithConfig(mustNFA(t, pattern), config)
	if err != nil {
		t.Fatalf("CompileWithConfig(%q): %v", pattern, err)
	}
	return d
}

// accepts runs d over s from the start state in the mode its alphabet
// requires.
func accepts(d *DFA, s string) bool {
	if !d.IsNegated() {
		id := d.Start()
		for _, r := range s {
			id = d.Step(id, char.FromRune(r))
			if id == InvalidState {
				return false
			}
		}
		return d.IsAccept(id)
	}
	cur, next := d.NewStateSet(), d.NewStateSet()
	cur.Insert(d.Start())
	for _, r := range s {
		next.Clear()
		d.StepSet(cur, next, char.FromRune(r))
		if next.IsEmpty() {
			return false
		}
		cur, next = next, cur
	}
	return d.AnyAccept(cur)
}

// words returns every string over letters of length 0 through maxLen.
func words(letters string, maxLen int) []string {
	out := []string{""}
	layer := []string{""}
	for n := 0; n < maxLen; n++ {
		var nextLayer []string
		for _, w := range layer {
			for _, r := range letters {
				nextLayer = append(nextLayer, w+string(r))
			}
		}
		out = append(out, nextLayer...)
		layer = nextLayer
	}
	return out
}

func TestCompile_StateCounts(t *testing.T) {
	tests := []struct {
		pattern   string
		raw       int // -1 when not checked
		minimized int
	}{
		{"a", 2, 2},
		{"abc", 4, 4},
		{"a|b", 3, 2},
		{"[ab]", 3, 2},
		{"[^ab]", 3, 2},
		{"a{2,3}", 4, 4},
		{"ab|ac", -1, 3},
		{"(a|b)*c", -1, 2},
		{"a+", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			raw := mustBuild(t, tt.pattern, DefaultConfig().WithMinimize(false))
			if tt.raw >= 0 && raw.States() != tt.raw {
				t.Errorf("raw states = %d, want %d\n%s", raw.States(), tt.raw, raw)
			}
			min := mustBuild(t, tt.pattern, DefaultConfig())
			if min.States() != tt.minimized {
				t.Errorf("minimized states = %d, want %d\n%s", min.States(), tt.minimized, min)
			}
			if min.States() > raw.States() {
				t.Errorf("minimization grew the automaton: %d > %d", min.States(), raw.States())
			}
		})
	}
}

func TestMinimize_PreservesLanguage(t *testing.T) {
	tests := []struct {
		pattern string
		letters string
	}{
		{"a|b", "abc"},
		{"(a|b)+c", "abc"},
		{"a{2,3}", "ab"},
		{"ab|ac", "abc"},
		{"(ab|a)(bc|c)", "abc"},
		{"x+y?z", "xyz"},
		{"(a|ab)(c|bcd)", "abcd"},
		{"a{1,}b{2}", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			raw := mustBuild(t, tt.pattern, DefaultConfig().WithMinimize(false))
			min := Minimize(raw)
			if min.States() > raw.States() {
				t.Fatalf("minimized %d > raw %d", min.States(), raw.States())
			}
			for _, w := range words(tt.letters, 5) {
				if got, want := accepts(min, w), accepts(raw, w); got != want {
					t.Errorf("%q: minimized=%v raw=%v", w, got, want)
				}
			}
		})
	}
}

func TestMinimize_Idempotent(t *testing.T) {
	for _, p := range []string{"a", "a|b", "(a|b)*c", "[^ab]x", "a{2,5}", "(ab|cd)+", "x.y"} {
		once := mustBuild(t, p, DefaultConfig())
		twice := Minimize(once)
		if twice.States() != once.States() {
			t.Errorf("%q: second minimization changed state count %d -> %d", p, once.States(), twice.States())
		}
		if !Equal(once, twice) {
			t.Errorf("%q: second minimization changed structure", p)
		}
	}
}

func TestMinimize_SingleState(t *testing.T) {
	n, err := nfa.NewCompiler(nfa.CompilerConfig{AllowEmptyMatch: true, MaxRepeat: 10, MaxRecursionDepth: 10}).Compile("a*")
	if err != nil {
		t.Fatal(err)
	}
	d, err := Compile(n)
	if err != nil {
		t.Fatal(err)
	}
	if d.States() != 1 {
		t.Fatalf("a* minimized to %d states, want 1\n%s", d.States(), d)
	}
	if !d.IsAccept(d.Start()) {
		t.Error("a* start state should accept")
	}
	if got := d.Step(d.Start(), 'a'); got != d.Start() {
		t.Errorf("a* should loop on 'a', got %d", got)
	}
}

func TestStep_Literal(t *testing.T) {
	d := mustBuild(t, "a{2,3}", DefaultConfig())
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"a", false},
		{"aa", true},
		{"aaa", true},
		{"aaaa", false},
		{"ab", false},
	}
	for _, tt := range tests {
		if got := accepts(d, tt.input); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStepSet_Negated(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"[^ab]", "c", true},
		{"[^ab]", "a", false},
		{"[^ab]", "b", false},
		{"[^ab]", "cc", false},
		{"[^ab]", "", false},
		{"[^a-c]", "d", true},
		{"[^a-c]", "b", false},
		{".", "x", true},
		{".", "\n", false},
		{".", "\r", false},
		{".", "\u2028", false},
		{".", "\u2029", false},
		{"a.c", "abc", true},
		{"a.c", "a\nc", false},
		{"[^a]b|[^c]d", "ad", true},
		{"[^a]b|[^c]d", "ab", false},
		{"[^a]b|[^c]d", "cb", true},
		{"[^a]b|[^c]d", "cd", false},
		{"[^a]b|[^c]d", "xb", true},
		{"a[^a]", "ab", true},
		{"a[^a]", "aa", false},
		{"x|[^x]y", "x", true},
		{"x|[^x]y", "zy", true},
		{"x|[^x]y", "xy", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			d := mustBuild(t, tt.pattern, DefaultConfig())
			if !d.IsNegated() {
				t.Fatalf("%q should need multi-state stepping", tt.pattern)
			}
			if got := accepts(d, tt.input); got != tt.want {
				t.Errorf("accepts(%q) = %v, want %v\n%s", tt.input, got, tt.want, d)
			}
		})
	}
}

func TestState_Accessors(t *testing.T) {
	d := mustBuild(t, "a|x[^b]", DefaultConfig())
	start := d.State(d.Start())
	keys := start.Transitions()
	for i := 1; i < len(keys); i++ {
		if keys[i-1].Key >= keys[i].Key {
			t.Fatalf("transitions not sorted: %v", keys)
		}
	}
	if start.HasNegated() {
		t.Error("start state should have no negated edge")
	}
	mid := d.State(start.Find('x'))
	if mid == nil || !mid.HasNegated() {
		t.Fatal("state after 'x' should have a negated edge")
	}
	if mid.Find('b') != InvalidState {
		t.Error("Find must not match a literal key against a negated edge")
	}
	if mid.Find(char.Char('b').WithNegated()) == InvalidState {
		t.Error("Find should locate the negated key exactly")
	}
	if d.State(StateID(d.States())) != nil {
		t.Error("State(out of range) should be nil")
	}

	count := 0
	for it := d.Iter(); ; count++ {
		id, s, ok := it.Next()
		if !ok {
			break
		}
		if s != d.State(id) {
			t.Errorf("iterator returned mismatched state %d", id)
		}
	}
	if count != d.States() {
		t.Errorf("iterated %d states, want %d", count, d.States())
	}
}

func TestDFA_String(t *testing.T) {
	d := mustBuild(t, "a", DefaultConfig())
	s := d.String()
	for _, want := range []string{"DFA{states: 2, start: 0}", "  0: 'a'->1", " *1:"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}

func TestBuild_StateLimit(t *testing.T) {
	n := mustNFA(t, "(a|b)*a(a|b){8}")
	_, err := CompileWithConfig(n, DefaultConfig().WithMaxStates(64))
	if !errors.Is(err, ErrStateLimitExceeded) {
		t.Fatalf("got %v, want ErrStateLimitExceeded", err)
	}
	var de *DFAError
	if !errors.As(err, &de) || de.Kind != StateLimitExceeded {
		t.Errorf("error is not a StateLimitExceeded *DFAError: %v", err)
	}
	if _, err := Compile(n); err != nil {
		t.Errorf("default limit should suffice: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		ok     bool
	}{
		{"default", DefaultConfig(), true},
		{"zero states", DefaultConfig().WithMaxStates(0), false},
		{"huge", DefaultConfig().WithMaxStates(1 << 30), false},
		{"no minimize", DefaultConfig().WithMinimize(false), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = false")
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{StateLimitExceeded, "StateLimitExceeded"},
		{InvalidConfig, "InvalidConfig"},
		{Internal, "Internal"},
		{ErrorKind(99), "UnknownErrorKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	err := &DFAError{Kind: Internal, Message: "outer", Cause: errors.New("inner")}
	if err.Error() != "outer: inner" {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("Unwrap() = nil")
	}
}

func TestCompilePattern_Error(t *testing.T) {
	_, err := CompilePattern("a**")
	if !errors.Is(err, nfa.ErrInvalidPattern) {
		t.Errorf("got %v, want nfa.ErrInvalidPattern", err)
	}
}

func BenchmarkBuild(b *testing.B) {
	n := mustNFA(b, "(a|b)*a(a|b){6}")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(n); err != nil {
			b.Fatal(err)
		}
	}
}
