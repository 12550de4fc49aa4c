package prefilter

import "sync/atomic"

// Tracker wraps a Prefilter with effectiveness tracking.
//
// A required-literal prefilter only pays off when it rejects a useful share
// of texts. The tracker counts checks and rejections; once the warmup period
// has passed, if the rejection rate stays below the threshold at a
// checkpoint, the prefilter is retired and callers go straight to the
// automaton.
//
// Unlike a plain Prefilter, a Tracker is shared by every search of a
// compiled pattern, so its counters are atomic.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	if tracker.IsActive() && !tracker.IsMatch(text) {
//	    return false
//	}
//	return vm.IsMatch(text)
type Tracker struct {
	inner Prefilter

	checks  atomic.Uint64 // Texts examined while active
	rejects atomic.Uint64 // Texts the prefilter ruled out

	checkInterval uint64
	minEfficiency float64
	warmupPeriod  uint64

	retired atomic.Bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness (in checks).
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the minimum acceptable ratio of rejects/checks.
	// If efficiency drops below this, the prefilter is retired.
	// Default: 0.1 (10%)
	MinEfficiency float64

	// WarmupPeriod is the minimum number of checks before effectiveness is
	// evaluated.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a new tracker for the given prefilter with default config.
//
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a new tracker with custom configuration.
//
// Returns nil if the inner prefilter is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	if config.CheckInterval == 0 {
		config.CheckInterval = 1
	}
	return &Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minEfficiency: config.MinEfficiency,
		warmupPeriod:  config.WarmupPeriod,
	}
}

// IsMatch reports the inner prefilter's verdict and records it.
// A retired tracker answers true without consulting the inner prefilter.
func (t *Tracker) IsMatch(text []byte) bool {
	if t.retired.Load() {
		return true
	}
	ok := t.inner.IsMatch(text)
	if !ok {
		t.rejects.Add(1)
	}
	t.checkEffectiveness(t.checks.Add(1))
	return ok
}

// IsActive returns true if the prefilter is still being used.
func (t *Tracker) IsActive() bool {
	return !t.retired.Load()
}

// IsComplete delegates to the inner prefilter's IsComplete.
func (t *Tracker) IsComplete() bool {
	return t.inner.IsComplete()
}

// Len delegates to the inner prefilter's Len.
func (t *Tracker) Len() int {
	return t.inner.Len()
}

// Stats returns the current tracking statistics.
//
// Returns (checks, rejects, efficiency, active).
func (t *Tracker) Stats() (checks, rejects uint64, efficiency float64, active bool) {
	checks = t.checks.Load()
	rejects = t.rejects.Load()
	if checks > 0 {
		efficiency = float64(rejects) / float64(checks)
	}
	active = t.IsActive()
	return
}

// Reset clears statistics and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.checks.Store(0)
	t.rejects.Store(0)
	t.retired.Store(false)
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// checkEffectiveness evaluates whether to retire the prefilter.
// checks is the count including the current text.
func (t *Tracker) checkEffectiveness(checks uint64) {
	if checks < t.warmupPeriod || checks%t.checkInterval != 0 {
		return
	}
	efficiency := float64(t.rejects.Load()) / float64(checks)
	if efficiency < t.minEfficiency {
		t.retired.Store(true)
	}
}
