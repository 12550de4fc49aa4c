package nfa

import (
	"unicode/utf8"

	"github.com/qlcliu/thompson/internal/ascii"
	"github.com/qlcliu/thompson/internal/conv"
	"github.com/qlcliu/thompson/internal/sparse"
)

// PikeVM implements the Pike VM algorithm for NFA execution.
// It simulates the NFA by keeping the set of active consuming states and
// advancing all of them by one character at a time. There is no
// backtracking: each character is examined once per live state.
//
// Matching is anchored at both ends: IsMatch reports whether the whole text
// is in the language of the pattern.
//
// Thread safety: the NFA is immutable. IsMatch uses internal state and is
// NOT thread-safe; for concurrent usage, give each goroutine its own
// PikeVMState and call IsMatchWithState.
type PikeVM struct {
	nfa *NFA

	internalState PikeVMState
}

// PikeVMState holds mutable per-search state for PikeVM.
// This struct should be pooled (via sync.Pool) for concurrent usage.
// Each goroutine must use its own PikeVMState instance.
type PikeVMState struct {
	// Sets holds the current and next generation of active states.
	// Split states never appear in them.
	Sets *sparse.SparseSets

	// Visited guards epsilon closure against split cycles such as the ones
	// produced by (a*)*. It is cleared once per generation.
	Visited *sparse.SparseSet

	// stack replaces recursion in the closure.
	stack []StateID
}

// NewPikeVM creates a new PikeVM for executing the given NFA
func NewPikeVM(nfa *NFA) *PikeVM {
	p := &PikeVM{nfa: nfa}
	p.initState(&p.internalState)
	return p
}

// NewPikeVMState creates a new mutable state for use with PikeVM.
// The state must be initialized by calling PikeVM.InitState before use.
func NewPikeVMState() *PikeVMState {
	return &PikeVMState{}
}

// InitState prepares state for use with this PikeVM.
// A state already sized for another PikeVM is resized rather than reallocated.
func (p *PikeVM) InitState(state *PikeVMState) {
	p.initState(state)
}

func (p *PikeVM) initState(state *PikeVMState) {
	capacity := conv.IntToUint32(p.NumStates())
	if state.Sets != nil && state.Visited != nil {
		if state.Visited.Capacity() != int(capacity) {
			state.Sets.Resize(capacity)
			state.Visited.Resize(capacity)
		}
		return
	}
	state.Sets = sparse.NewSparseSets(capacity)
	state.Visited = sparse.NewSparseSet(capacity)
	state.stack = make([]StateID, 0, 16)
}

// NFA returns the automaton this VM executes.
func (p *PikeVM) NFA() *NFA {
	return p.nfa
}

// NumStates returns the number of NFA states.
func (p *PikeVM) NumStates() int {
	return p.nfa.States()
}

// IsMatch reports whether text matches the pattern in its entirety.
// This method uses internal state and is NOT thread-safe.
func (p *PikeVM) IsMatch(text string) bool {
	return p.IsMatchWithState(text, &p.internalState)
}

// IsMatchBytes is IsMatch for a byte slice holding UTF-8 text.
func (p *PikeVM) IsMatchBytes(text []byte) bool {
	return p.IsMatchBytesWithState(text, &p.internalState)
}

// IsMatchWithState is the thread-safe form of IsMatch using caller state.
func (p *PikeVM) IsMatchWithState(text string, state *PikeVMState) bool {
	p.begin(state)
	for _, r := range text {
		if !p.step(state, r) {
			return false
		}
	}
	return state.Sets.Set1.Contains(uint32(p.nfa.match))
}

// IsMatchBytesWithState is the thread-safe form of IsMatchBytes.
// Pure ASCII text is stepped byte by byte without UTF-8 decoding.
func (p *PikeVM) IsMatchBytesWithState(text []byte, state *PikeVMState) bool {
	p.begin(state)
	if ascii.Valid(text) {
		for _, b := range text {
			if !p.step(state, rune(b)) {
				return false
			}
		}
		return state.Sets.Set1.Contains(uint32(p.nfa.match))
	}
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		if !p.step(state, r) {
			return false
		}
	}
	return state.Sets.Set1.Contains(uint32(p.nfa.match))
}

// begin seeds the current set with the closure of the start state.
func (p *PikeVM) begin(state *PikeVMState) {
	state.Sets.Set1.Clear()
	state.Sets.Set2.Clear()
	state.Visited.Clear()
	p.addClosure(state, state.Sets.Set1, p.nfa.start)
}

// step advances every state in the current set over r and makes the result
// the current set. It returns false without consuming r when the current set
// is empty, since no continuation can match.
func (p *PikeVM) step(state *PikeVMState, r rune) bool {
	cur, next := state.Sets.Set1, state.Sets.Set2
	if cur.IsEmpty() {
		return false
	}

	next.Clear()
	state.Visited.Clear()
	for _, id := range cur.Values() {
		s := &p.nfa.states[id]
		if s.Accepts(r) {
			p.addClosure(state, next, s.out[0])
		}
	}
	state.Sets.Swap()
	return true
}

// addClosure adds id and everything reachable from it through split states
// to set. Splits themselves are expanded, never added.
func (p *PikeVM) addClosure(state *PikeVMState, set *sparse.SparseSet, id StateID) {
	stack := append(state.stack[:0], id)
	for len(stack) > 0 {
		sid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := &p.nfa.states[sid]
		if s.kind != StateSplit {
			set.Insert(uint32(sid))
			continue
		}
		if !state.Visited.Insert(uint32(sid)) {
			continue
		}
		// Push right first so the left branch is expanded first.
		stack = append(stack, s.out[1], s.out[0])
	}
	state.stack = stack
}
