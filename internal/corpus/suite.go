package corpus

import (
	"errors"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/coregx/dfaregex/meta"
)

// ErrInvalidSuite is matched by every suite validation error.
var ErrInvalidSuite = errors.New("invalid suite")

// Suite is a set of checks run against the compiler and matcher.
//
//	name: basics
//	valid: ["a|b", "[^a]"]
//	invalid: ["a**", "(a"]
//	match:
//	  - pattern: a{2,3}
//	    accept: [aa, aaa]
//	    reject: [a, aaaa]
//	search:
//	  - pattern: a
//	    text: aXaXa
//	    matches:
//	      - {text: a, line: 1, column: 1}
type Suite struct {
	Name    string       `json:"name"`
	Config  *Overrides   `json:"config,omitempty"`
	Valid   []string     `json:"valid,omitempty"`
	Invalid []string     `json:"invalid,omitempty"`
	Match   []MatchCase  `json:"match,omitempty"`
	Search  []SearchCase `json:"search,omitempty"`
}

// Overrides replaces selected fields of the default configuration.
type Overrides struct {
	AllowEmptyMatch *bool   `json:"allowEmptyMatch,omitempty"`
	MaxRepeat       *int    `json:"maxRepeat,omitempty"`
	MaxDFAStates    *uint32 `json:"maxDFAStates,omitempty"`
	EnablePrefilter *bool   `json:"enablePrefilter,omitempty"`
}

// MatchCase lists texts a pattern must accept and reject as a whole.
type MatchCase struct {
	Pattern string   `json:"pattern"`
	Accept  []string `json:"accept,omitempty"`
	Reject  []string `json:"reject,omitempty"`
}

// SearchCase lists every match Search must report in Text, in order.
type SearchCase struct {
	Pattern string     `json:"pattern"`
	Text    string     `json:"text"`
	Matches []Expected `json:"matches,omitempty"`
}

// Expected is one expected search match.
type Expected struct {
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Configuration returns the default configuration with the suite's overrides
// applied.
func (s *Suite) Configuration() meta.Config {
	c := meta.DefaultConfig()
	if o := s.Config; o != nil {
		if o.AllowEmptyMatch != nil {
			c.AllowEmptyMatch = *o.AllowEmptyMatch
		}
		if o.MaxRepeat != nil {
			c.MaxRepeat = *o.MaxRepeat
		}
		if o.MaxDFAStates != nil {
			c.MaxDFAStates = *o.MaxDFAStates
		}
		if o.EnablePrefilter != nil {
			c.EnablePrefilter = *o.EnablePrefilter
		}
	}
	return c
}

// Validate checks the structure of the suite. It does not compile any
// pattern.
func (s *Suite) Validate() error {
	if err := s.Configuration().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSuite, err)
	}
	for i, m := range s.Match {
		if m.Pattern == "" {
			return fmt.Errorf("%w: match[%d]: missing pattern", ErrInvalidSuite, i)
		}
	}
	for i, sc := range s.Search {
		if sc.Pattern == "" {
			return fmt.Errorf("%w: search[%d]: missing pattern", ErrInvalidSuite, i)
		}
		for j, e := range sc.Matches {
			if e.Text == "" || e.Line < 1 || e.Column < 1 {
				return fmt.Errorf("%w: search[%d].matches[%d]: need text, line and column", ErrInvalidSuite, i, j)
			}
		}
	}
	return nil
}

// ParseSuite decodes and validates a YAML suite. Unknown fields are
// rejected.
func ParseSuite(data []byte) (*Suite, error) {
	s := &Suite{}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSuite, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSuite reads a suite from the file at path.
func LoadSuite(path string) (*Suite, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
