// Package prefilter provides fast rejection of texts that cannot match a
// pattern, using literal sets extracted from it.
//
// Matching is whole-string, so a prefilter answers a yes/no question about
// the entire text rather than finding candidate positions:
//   - Complete literal set → exact set: the text matches iff it is one of
//     the literals, and no automaton needs to run
//   - Required literal set → Aho-Corasick automaton: a text containing none
//     of the literals is rejected; any other text still has to be verified
//   - No usable literals → nil (no prefilter)
//
// Example usage:
//
//	seq := literal.New(literal.DefaultConfig()).Extract(syntax.Parse("x*abc.*"))
//	pf, err := prefilter.Build(seq)
//	if err == nil && pf != nil && !pf.IsMatch([]byte("xxab")) {
//	    // "xxab" cannot match; skip the automaton
//	}
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/qlcliu/thompson/literal"
)

// Prefilter decides early whether a text can match.
type Prefilter interface {
	// IsMatch returns false if text cannot match the pattern.
	//
	// When IsComplete() is true the answer is final in both directions.
	// Otherwise true only means the text is a candidate that the automaton
	// must verify.
	IsMatch(text []byte) bool

	// IsComplete returns true if IsMatch alone decides the match.
	IsComplete() bool

	// Len returns the number of literals the prefilter looks for.
	Len() int
}

// Build selects a prefilter for seq.
// It returns (nil, nil) when seq carries no usable literals.
func Build(seq *literal.Seq) (Prefilter, error) {
	if seq.IsEmpty() {
		return nil, nil
	}
	if seq.IsComplete() {
		return newExactSet(seq), nil
	}
	// An empty required literal occurs in every text.
	if seq.MinLen() == 0 {
		return nil, nil
	}
	rs, err := newRequiredSet(seq)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// exactSet holds the complete, finite language of a pattern.
type exactSet struct {
	set map[string]struct{}
}

func newExactSet(seq *literal.Seq) *exactSet {
	s := &exactSet{set: make(map[string]struct{}, seq.Len())}
	for i := 0; i < seq.Len(); i++ {
		s.set[string(seq.Get(i).Bytes)] = struct{}{}
	}
	return s
}

// IsMatch implements Prefilter.IsMatch.
func (s *exactSet) IsMatch(text []byte) bool {
	_, ok := s.set[string(text)]
	return ok
}

// IsComplete implements Prefilter.IsComplete.
func (s *exactSet) IsComplete() bool { return true }

// Len implements Prefilter.Len.
func (s *exactSet) Len() int { return len(s.set) }

// requiredSet rejects texts containing none of its literals.
type requiredSet struct {
	auto *ahocorasick.Automaton
	n    int
}

func newRequiredSet(seq *literal.Seq) (*requiredSet, error) {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &requiredSet{auto: auto, n: seq.Len()}, nil
}

// IsMatch implements Prefilter.IsMatch.
func (s *requiredSet) IsMatch(text []byte) bool {
	return s.auto.IsMatch(text)
}

// IsComplete implements Prefilter.IsComplete.
func (s *requiredSet) IsComplete() bool { return false }

// Len implements Prefilter.Len.
func (s *requiredSet) Len() int { return s.n }
