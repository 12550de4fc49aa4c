package nfa

import (
	"fmt"
	"strings"

	"github.com/qlcliu/thompson/internal/sparse"
)

// StateID uniquely identifies an NFA state.
// It is an index into the NFA's state arena.
type StateID uint32

// InvalidState marks a successor slot that has not been patched yet.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which fields are valid.
type StateKind uint8

const (
	// StateMatch is the accepting state. Every NFA has exactly one.
	StateMatch StateKind = iota

	// StateRune consumes one specific character.
	StateRune

	// StateAny consumes any single character.
	StateAny

	// StateSplit is an epsilon branch to two states.
	// Used for alternation and repetition; may take part in cycles.
	StateSplit
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateRune:
		return "Rune"
	case StateAny:
		return "Any"
	case StateSplit:
		return "Split"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State is a single NFA state. Its kind determines which fields are valid:
// consuming states use r and out[0], splits use both out slots, and the
// match state uses neither.
type State struct {
	id   StateID
	kind StateKind
	r    rune
	out  [2]StateID
}

// ID returns the state's identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is the match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// IsConsuming returns true for states that consume a character.
func (s *State) IsConsuming() bool {
	return s.kind == StateRune || s.kind == StateAny
}

// Rune returns the accepted character and successor of a Rune state.
// Returns (0, InvalidState) for other kinds.
func (s *State) Rune() (r rune, next StateID) {
	if s.kind == StateRune {
		return s.r, s.out[0]
	}
	return 0, InvalidState
}

// Any returns the successor of an Any state, or InvalidState for other kinds.
func (s *State) Any() StateID {
	if s.kind == StateAny {
		return s.out[0]
	}
	return InvalidState
}

// Next returns the successor of a consuming state, or InvalidState.
func (s *State) Next() StateID {
	if s.IsConsuming() {
		return s.out[0]
	}
	return InvalidState
}

// Split returns the two successors of a Split state.
// Returns (InvalidState, InvalidState) for other kinds.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.out[0], s.out[1]
	}
	return InvalidState, InvalidState
}

// Accepts reports whether a consuming state accepts r.
func (s *State) Accepts(r rune) bool {
	switch s.kind {
	case StateRune:
		return s.r == r
	case StateAny:
		return true
	default:
		return false
	}
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match)", s.id)
	case StateRune:
		return fmt.Sprintf("State(%d, Rune %q -> %d)", s.id, s.r, s.out[0])
	case StateAny:
		return fmt.Sprintf("State(%d, Any -> %d)", s.id, s.out[0])
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.out[0], s.out[1])
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA is a compiled Thompson automaton.
// All states live in one arena owned by the NFA and are addressed by StateID.
// An NFA is immutable once built and safe to share between goroutines.
type NFA struct {
	states  []State
	start   StateID
	match   StateID
	pattern string
}

// Start returns the entry state
func (n *NFA) Start() StateID {
	return n.start
}

// Match returns the identifier of the single match state
func (n *NFA) Match() StateID {
	return n.match
}

// Pattern returns the source pattern, if one was recorded.
func (n *NFA) Pattern() string {
	return n.pattern
}

// State returns the state with the given ID, or nil for an invalid ID.
func (n *NFA) State(id StateID) *State {
	if int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsMatch returns true if id is the match state
func (n *NFA) IsMatch(id StateID) bool {
	return id == n.match
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// Iter returns an iterator over all states in arena order
func (n *NFA) Iter() *StateIter {
	return &StateIter{nfa: n}
}

// StateIter is an iterator over NFA states
type StateIter struct {
	nfa *NFA
	pos int
}

// Next returns the next state, or nil when iteration is complete.
func (it *StateIter) Next() *State {
	if it.pos >= len(it.nfa.states) {
		return nil
	}
	s := &it.nfa.states[it.pos]
	it.pos++
	return s
}

// HasNext returns true if there are more states to iterate
func (it *StateIter) HasNext() bool {
	return it.pos < len(it.nfa.states)
}

// String returns a short summary of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, match: %d}", len(n.states), n.start, n.match)
}

// Dump returns one line per state, prefixed with '>' for the start state.
func (n *NFA) Dump() string {
	var sb strings.Builder
	for i := range n.states {
		if StateID(i) == n.start {
			sb.WriteByte('>')
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(n.states[i].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Closure returns the non-split states reachable from id through split
// states, in the order the Pike VM would add them. Each state appears once.
// It returns nil for an invalid ID.
func (n *NFA) Closure(id StateID) []StateID {
	if int(id) >= len(n.states) {
		return nil
	}
	size := uint32(len(n.states))
	seen := sparse.NewSparseSet(size)
	visited := sparse.NewSparseSet(size)

	var out []StateID
	stack := []StateID{id}
	for len(stack) > 0 {
		sid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := &n.states[sid]
		if s.kind != StateSplit {
			if seen.Insert(uint32(sid)) {
				out = append(out, sid)
			}
			continue
		}
		if !visited.Insert(uint32(sid)) {
			continue
		}
		stack = append(stack, s.out[1], s.out[0])
	}
	return out
}
