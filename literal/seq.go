// Package literal extracts literal strings from a postfix pattern.
//
// Whole-string matching can use literals two ways. If the language of a
// pattern is a small finite set of strings (e.g. /foo|bar/), the set itself
// decides the match and the automaton never runs. Otherwise a set of
// required literals, one of which occurs in every matching text (e.g. "abc"
// for /x*abc.*/), lets a prefilter reject texts cheaply.
package literal

import (
	"bytes"
	"sort"
)

// Literal is a literal byte sequence extracted from a pattern.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /he+llo/ → Literal{[]byte("llo"), false}
type Literal struct {
	// Bytes is the UTF-8 encoding of the literal.
	Bytes []byte

	// Complete reports that the literal is an entire matching text, not just
	// a substring every match must contain.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a representation of the literal for debugging.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals. All literals of a Seq share the same
// Complete flag: either the Seq is the exact language of the pattern, or it
// lists required substrings of which every match contains at least one.
type Seq struct {
	literals []Literal
}

// NewSeq creates a Seq from literals, sorted and deduplicated.
func NewSeq(literals ...Literal) *Seq {
	lits := make([]Literal, len(literals))
	copy(lits, literals)
	sort.Slice(lits, func(i, j int) bool {
		return bytes.Compare(lits[i].Bytes, lits[j].Bytes) < 0
	})
	out := lits[:0]
	for _, lit := range lits {
		if len(out) > 0 && bytes.Equal(out[len(out)-1].Bytes, lit.Bytes) {
			continue
		}
		out = append(out, lit)
	}
	return &Seq{literals: out}
}

// Len returns the number of literals
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// IsEmpty returns true if the Seq holds no literals
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Get returns the i-th literal
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsComplete reports whether the Seq is non-empty and is the pattern's exact language.
func (s *Seq) IsComplete() bool {
	return !s.IsEmpty() && s.literals[0].Complete
}

// MinLen returns the length of the shortest literal, or 0 for an empty Seq.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	min := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		if lit.Len() < min {
			min = lit.Len()
		}
	}
	return min
}

// Strings returns the literals as strings, in sorted order.
func (s *Seq) Strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = string(s.literals[i].Bytes)
	}
	return out
}
