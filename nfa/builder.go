package nfa

import (
	"fmt"

	"github.com/qlcliu/thompson/internal/conv"
)

// Slot names one successor slot of a state: out[Out] of State.
// While a slot is listed in a fragment's patch list it holds InvalidState;
// Patch resolves it to a real target.
type Slot struct {
	State StateID
	Out   uint8
}

// Builder constructs NFAs incrementally in an arena of states.
// It is used by the Compiler and can also build automata by hand.
type Builder struct {
	states []State
	start  StateID
	match  StateID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
		match:  InvalidState,
	}
}

func (b *Builder) add(s State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	s.id = id
	b.states = append(b.states, s)
	return id
}

// AddMatch adds the match state and returns its ID.
// Calling it again returns the existing match state.
func (b *Builder) AddMatch() StateID {
	if b.match != InvalidState {
		return b.match
	}
	b.match = b.add(State{kind: StateMatch, out: [2]StateID{InvalidState, InvalidState}})
	return b.match
}

// AddRune adds a state consuming r and returns its ID.
// Pass InvalidState as next to leave the successor pending.
func (b *Builder) AddRune(r rune, next StateID) StateID {
	return b.add(State{kind: StateRune, r: r, out: [2]StateID{next, InvalidState}})
}

// AddAny adds a state consuming any character.
func (b *Builder) AddAny(next StateID) StateID {
	return b.add(State{kind: StateAny, out: [2]StateID{next, InvalidState}})
}

// AddSplit adds an epsilon branch to left and right.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{kind: StateSplit, out: [2]StateID{left, right}})
}

// Patch points a single successor slot at target.
func (b *Builder) Patch(slot Slot, target StateID) error {
	if int(slot.State) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: slot.State,
		}
	}

	s := &b.states[slot.State]
	switch {
	case s.kind == StateSplit && slot.Out <= 1:
	case s.IsConsuming() && slot.Out == 0:
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch slot %d of %s state", slot.Out, s.kind),
			StateID: slot.State,
		}
	}
	s.out[slot.Out] = target
	return nil
}

// PatchAll points every slot in list at target.
func (b *Builder) PatchAll(list []Slot, target StateID) error {
	for _, slot := range list {
		if err := b.Patch(slot, target); err != nil {
			return err
		}
	}
	return nil
}

// SetStart sets the entry state
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
//   - the start state is set and in range
//   - there is exactly one match state
//   - every successor slot is resolved and in range
//   - every state is reachable from the start state
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}

	matches := 0
	for i := range b.states {
		s := &b.states[i]
		id := StateID(i)
		switch s.kind {
		case StateMatch:
			matches++
		case StateRune, StateAny:
			if err := b.checkTarget(id, s.out[0], "next"); err != nil {
				return err
			}
		case StateSplit:
			if err := b.checkTarget(id, s.out[0], "left"); err != nil {
				return err
			}
			if err := b.checkTarget(id, s.out[1], "right"); err != nil {
				return err
			}
		default:
			return &BuildError{Message: fmt.Sprintf("unknown state kind %d", s.kind), StateID: id}
		}
	}
	if matches != 1 {
		return &BuildError{
			Message: fmt.Sprintf("expected exactly one match state, found %d", matches),
			StateID: InvalidState,
		}
	}

	reached := b.reachable()
	for i, ok := range reached {
		if !ok {
			return &BuildError{Message: "state unreachable from start", StateID: StateID(i)}
		}
	}
	return nil
}

func (b *Builder) checkTarget(id, target StateID, which string) error {
	if target == InvalidState {
		return &BuildError{Message: which + " successor never patched", StateID: id}
	}
	if int(target) >= len(b.states) {
		return &BuildError{Message: fmt.Sprintf("invalid %s state %d", which, target), StateID: id}
	}
	return nil
}

// reachable marks every state reachable from start. Targets are assumed in range.
func (b *Builder) reachable() []bool {
	seen := make([]bool, len(b.states))
	stack := []StateID{b.start}
	seen[b.start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := &b.states[id]
		n := 0
		switch s.kind {
		case StateRune, StateAny:
			n = 1
		case StateSplit:
			n = 2
		}
		for _, next := range s.out[:n] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return seen
}

// Build validates and returns the constructed NFA.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	nfa := &NFA{
		states: b.states,
		start:  b.start,
		match:  b.match,
	}
	for _, opt := range opts {
		opt(nfa)
	}
	return nfa, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithPattern records the source pattern on the NFA
func WithPattern(pattern string) BuildOption {
	return func(n *NFA) {
		n.pattern = pattern
	}
}
