package literal

import "testing"

func lits(ss ...string) *Seq {
	out := make([]Literal, len(ss))
	for i, s := range ss {
		out[i] = NewLiteral([]byte(s), true)
	}
	return NewSeq(out...)
}

func TestSeq_Minimize(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"foobar", "foo"}, []string{"foo"}},
		{[]string{"b", "a"}, []string{"a", "b"}},
		{[]string{"ab", "abc", "ad", "a"}, []string{"a"}},
		{[]string{"ab", "abc", "ad"}, []string{"ab", "ad"}},
		{[]string{"x", "x"}, []string{"x"}},
	}
	for _, tt := range tests {
		seq := lits(tt.in...)
		seq.Minimize()
		if seq.Len() != len(tt.want) {
			t.Errorf("Minimize(%q) = %v, want %q", tt.in, seq, tt.want)
			continue
		}
		for i, w := range tt.want {
			if got := string(seq.Get(i).Bytes); got != w {
				t.Errorf("Minimize(%q)[%d] = %q, want %q", tt.in, i, got, w)
			}
		}
	}
}

func TestSeq_Accessors(t *testing.T) {
	var empty *Seq
	if !empty.IsEmpty() || empty.Len() != 0 {
		t.Error("nil Seq should be empty")
	}
	if empty.Patterns() != nil {
		t.Error("nil Seq should have no patterns")
	}

	seq := lits("hello", "help", "hero")
	if got := len(seq.Patterns()); got != 3 {
		t.Errorf("Patterns has %d entries, want 3", got)
	}

	mixed := NewSeq(NewLiteral([]byte("ab"), true), NewLiteral([]byte("c"), false))
	if got, want := mixed.String(), "[literal{ab, complete}, literal{c}]"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if mixed.Get(1).Len() != 1 {
		t.Error("Len of c should be 1")
	}
}
