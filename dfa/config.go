package dfa

// Config configures DFA construction.
type Config struct {
	// MaxStates is the maximum number of states subset construction may
	// create before giving up with ErrStateLimitExceeded.
	//
	// Default: 10,000 states
	//
	// Hand-written patterns rarely need more than a few hundred. The limit
	// exists for pathological inputs such as (a|b)*a(a|b){15}, whose subset
	// construction is exponential in the repetition count.
	MaxStates uint32

	// Minimize enables partition-refinement minimization after subset
	// construction.
	//
	// Default: true
	//
	// Matching relies on minimization when the pattern contains negated
	// classes: equivalent targets of negated edges must be merged for the
	// multi-state step to exclude them together.
	Minimize bool
}

// DefaultConfig returns a limit of 10,000 states with minimization on.
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
		Minimize:  true,
	}
}

// Validate checks that MaxStates is between 1 and 1<<24.
func (c *Config) Validate() error {
	if c.MaxStates == 0 || c.MaxStates > 1<<24 {
		return configError("MaxStates must be between 1 and %d, got %d", 1<<24, c.MaxStates)
	}
	return nil
}

// WithMaxStates returns a copy of c with MaxStates set.
func (c Config) WithMaxStates(maxStates uint32) Config {
	c.MaxStates = maxStates
	return c
}

// WithMinimize returns a copy of c with Minimize set.
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}
