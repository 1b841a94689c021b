package prefilter

// Tracker counts how many candidates of a prefilter start real matches and
// retires the prefilter once that share drops below a threshold. A literal
// that occurs at nearly every position costs a search call per position
// and saves nothing.
//
// A Tracker follows one scan at a time and is not safe for concurrent use.
// Reset prepares it for the next scan.
type Tracker struct {
	pf     Prefilter
	config TrackerConfig

	candidates uint64
	confirmed  uint64
	nextCheck  uint64
	retired    bool
}

// TrackerConfig sets when a Tracker retires its prefilter.
type TrackerConfig struct {
	// Warmup is the number of candidates seen before the first check.
	Warmup uint64

	// Interval is the number of candidates between later checks.
	Interval uint64

	// MinRatio is the lowest acceptable share of confirmed candidates.
	MinRatio float64
}

// DefaultTrackerConfig returns the configuration used by the engine.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{Warmup: 128, Interval: 64, MinRatio: 0.1}
}

// TrackerStats is a snapshot of a Tracker.
type TrackerStats struct {
	Candidates uint64
	Confirmed  uint64
	Retired    bool
}

// Ratio returns the share of confirmed candidates, or 0 before the first
// candidate.
func (s TrackerStats) Ratio() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Confirmed) / float64(s.Candidates)
}

// NewTracker tracks pf with the default configuration. It returns nil for
// a nil prefilter.
func NewTracker(pf Prefilter) *Tracker {
	return NewTrackerWithConfig(pf, DefaultTrackerConfig())
}

// NewTrackerWithConfig tracks pf. It returns nil for a nil prefilter.
func NewTrackerWithConfig(pf Prefilter, config TrackerConfig) *Tracker {
	if pf == nil {
		return nil
	}
	if config.Interval == 0 {
		config.Interval = 1
	}
	return &Tracker{pf: pf, config: config, nextCheck: config.Warmup}
}

// Find returns the next candidate at or after start, or -1. Once retired
// it always returns -1 and the caller must visit every position itself.
func (t *Tracker) Find(haystack []byte, start int) int {
	if t.retired {
		return -1
	}
	pos := t.pf.Find(haystack, start)
	if pos < 0 {
		return pos
	}
	t.candidates++
	if t.candidates >= t.nextCheck {
		t.nextCheck = t.candidates + t.config.Interval
		if float64(t.confirmed) < t.config.MinRatio*float64(t.candidates) {
			t.retired = true
		}
	}
	return pos
}

// ConfirmMatch records that the last candidate started a match.
func (t *Tracker) ConfirmMatch() {
	t.confirmed++
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return !t.retired
}

// Stats returns the counters of the current scan.
func (t *Tracker) Stats() TrackerStats {
	return TrackerStats{Candidates: t.candidates, Confirmed: t.confirmed, Retired: t.retired}
}

// Reset clears the counters and puts the prefilter back in use.
func (t *Tracker) Reset() {
	t.candidates, t.confirmed = 0, 0
	t.nextCheck = t.config.Warmup
	t.retired = false
}
