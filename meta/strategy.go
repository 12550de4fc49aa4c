package meta

import (
	"github.com/qlcliu/thompson/prefilter"
)

// Strategy represents the execution strategy for whole-string matching.
type Strategy int

const (
	// UseNFA runs the PikeVM on every text.
	// Selected when no usable literals exist or the prefilter is disabled.
	UseNFA Strategy = iota

	// UsePrefilterNFA rejects texts missing every required literal, then
	// runs the PikeVM on the rest.
	UsePrefilterNFA

	// UseExact decides the match by set membership; the PikeVM never runs.
	// Selected when the pattern's language is a finite literal set.
	UseExact
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UsePrefilterNFA:
		return "UsePrefilterNFA"
	case UseExact:
		return "UseExact"
	default:
		return "Unknown"
	}
}

// selectStrategy picks the execution strategy for a built prefilter.
func selectStrategy(pf prefilter.Prefilter, config Config) Strategy {
	switch {
	case !config.EnablePrefilter || pf == nil:
		return UseNFA
	case pf.IsComplete():
		return UseExact
	default:
		return UsePrefilterNFA
	}
}
