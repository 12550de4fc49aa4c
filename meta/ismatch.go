package meta

import (
	"sync/atomic"
)

// IsMatch reports whether haystack, taken as a whole, is in the language of
// the pattern. Safe for concurrent use.
//
// Example:
//
//	engine, _ := meta.Compile("hel+o")
//	if engine.IsMatch([]byte("hellllo")) {
//	    println("matches!")
//	}
func (e *Engine) IsMatch(haystack []byte) bool {
	atomic.AddUint64(&e.stats.Searches, 1)

	switch e.strategy {
	case UseExact:
		atomic.AddUint64(&e.stats.ExactSearches, 1)
		return e.prefilter.IsMatch(haystack)
	case UsePrefilterNFA:
		if !e.prefilterAllows(haystack) {
			atomic.AddUint64(&e.stats.PrefilterRejects, 1)
			return false
		}
	}
	return e.isMatchNFA(haystack)
}

// IsMatchString is IsMatch for a string haystack.
func (e *Engine) IsMatchString(s string) bool {
	if e.strategy == UseNFA {
		atomic.AddUint64(&e.stats.Searches, 1)
		return e.isMatchNFAString(s)
	}
	return e.IsMatch([]byte(s))
}

func (e *Engine) prefilterAllows(haystack []byte) bool {
	if e.tracker != nil {
		return e.tracker.IsMatch(haystack)
	}
	return e.prefilter.IsMatch(haystack)
}

func (e *Engine) isMatchNFA(haystack []byte) bool {
	atomic.AddUint64(&e.stats.NFASearches, 1)
	state := e.statePool.get()
	defer e.statePool.put(state)
	return e.pikevm.IsMatchBytesWithState(haystack, state.pikevm)
}

func (e *Engine) isMatchNFAString(s string) bool {
	atomic.AddUint64(&e.stats.NFASearches, 1)
	state := e.statePool.get()
	defer e.statePool.put(state)
	return e.pikevm.IsMatchWithState(s, state.pikevm)
}
