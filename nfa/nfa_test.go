package nfa

import (
	"strings"
	"testing"
)

func TestStateKind_String(t *testing.T) {
	tests := []struct {
		kind StateKind
		want string
	}{
		{StateMatch, "Match"},
		{StateRune, "Rune"},
		{StateAny, "Any"},
		{StateSplit, "Split"},
		{StateKind(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("StateKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestState_Accessors(t *testing.T) {
	n := mustCompile(t, "a.|b")
	// postfix: a . · b |  ->  0:'a' 1:Any 2:'b' 3:Split 4:Match
	a, dot, b, split, match := n.State(0), n.State(1), n.State(2), n.State(3), n.State(4)

	if !a.IsConsuming() || !dot.IsConsuming() || split.IsConsuming() || match.IsConsuming() {
		t.Error("only Rune and Any states consume input")
	}
	if r, next := a.Rune(); r != 'a' || next != 1 {
		t.Errorf("a.Rune() = (%q, %d), want ('a', 1)", r, next)
	}
	if r, next := dot.Rune(); r != 0 || next != InvalidState {
		t.Errorf("dot.Rune() = (%q, %d), want (0, InvalidState)", r, next)
	}
	if next := dot.Any(); next != 4 {
		t.Errorf("dot.Any() = %d, want 4", next)
	}
	if next := a.Any(); next != InvalidState {
		t.Errorf("a.Any() = %d, want InvalidState", next)
	}
	if next := b.Next(); next != 4 {
		t.Errorf("b.Next() = %d, want 4", next)
	}
	if next := split.Next(); next != InvalidState {
		t.Errorf("split.Next() = %d, want InvalidState", next)
	}
	if l, r := split.Split(); l != 0 || r != 2 {
		t.Errorf("split.Split() = (%d, %d), want (0, 2)", l, r)
	}
	if l, r := a.Split(); l != InvalidState || r != InvalidState {
		t.Errorf("a.Split() = (%d, %d), want invalid", l, r)
	}
	if !a.Accepts('a') || a.Accepts('b') {
		t.Error("a should accept only 'a'")
	}
	if !dot.Accepts('z') || !dot.Accepts('\n') {
		t.Error("Any should accept every rune")
	}
	if split.Accepts('a') || match.Accepts('a') {
		t.Error("Split and Match never accept input")
	}
	if !match.IsMatch() || !n.IsMatch(4) || n.IsMatch(0) {
		t.Error("state 4 should be the only match state")
	}
	if n.Start() != 3 || n.Match() != 4 {
		t.Errorf("Start(), Match() = %d, %d, want 3, 4", n.Start(), n.Match())
	}
}

func TestNFA_StateOutOfRange(t *testing.T) {
	n := mustCompile(t, "a")
	if n.State(2) != nil {
		t.Error("State(2) should be nil for a 2-state NFA")
	}
	if n.State(InvalidState) != nil {
		t.Error("State(InvalidState) should be nil")
	}
}

func TestNFA_Iter(t *testing.T) {
	n := mustCompile(t, "(ab)*")
	var ids []StateID
	for it := n.Iter(); it.HasNext(); {
		ids = append(ids, it.Next().ID())
	}
	if len(ids) != n.States() {
		t.Fatalf("iterated %d states, want %d", len(ids), n.States())
	}
	for i, id := range ids {
		if id != StateID(i) {
			t.Errorf("state %d has ID %d", i, id)
		}
	}
	if n.Iter().Next() == nil {
		t.Error("Next() on a fresh iterator should return the first state")
	}
}

func TestNFA_String(t *testing.T) {
	n := mustCompile(t, "a*")
	if got, want := n.String(), "NFA{states: 3, start: 1, match: 2}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !strings.Contains(n.State(1).String(), "Split -> [0, 2]") {
		t.Errorf("State(1).String() = %q", n.State(1).String())
	}
}

func TestNFA_Closure(t *testing.T) {
	n := mustCompile(t, "a.|b")
	got := n.Closure(n.Start())
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Closure(start) = %v, want [0 2]", got)
	}
	if got := n.Closure(n.Match()); len(got) != 1 || got[0] != n.Match() {
		t.Errorf("Closure(match) = %v, want [%d]", got, n.Match())
	}
	if got := n.Closure(StateID(99)); got != nil {
		t.Errorf("Closure(99) = %v, want nil", got)
	}
}

func TestNFA_ClosureCycle(t *testing.T) {
	n := mustCompile(t, "(a*)*")
	got := n.Closure(n.Start())

	seen := make(map[StateID]bool)
	hasMatch := false
	for _, id := range got {
		if seen[id] {
			t.Fatalf("Closure(start) = %v, state %d repeated", got, id)
		}
		seen[id] = true
		if n.State(id).Kind() == StateSplit {
			t.Errorf("Closure(start) contains split state %d", id)
		}
		hasMatch = hasMatch || n.IsMatch(id)
	}
	if !hasMatch {
		t.Errorf("Closure(start) = %v, want the match state for an empty-matching pattern", got)
	}
}
