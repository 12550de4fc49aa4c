package meta

import (
	"sync/atomic"

	"github.com/qlcliu/thompson/literal"
	"github.com/qlcliu/thompson/nfa"
	"github.com/qlcliu/thompson/prefilter"
	"github.com/qlcliu/thompson/syntax"
)

// Engine is a compiled pattern with its execution strategy.
// It is immutable after compilation and safe for concurrent use.
//
// Example:
//
//	// Compile pattern (once)
//	engine, err := meta.Compile("(foo|bar)+baz")
//	if err != nil {
//	    return err
//	}
//
//	// Match (safe to call from multiple goroutines)
//	if engine.IsMatchString("foobarbaz") {
//	    println("matches")
//	}
type Engine struct {
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	// This ensures atomic operations on uint64 fields work correctly.
	stats Stats

	pattern   string
	postfix   []syntax.Symbol
	nfa       *nfa.NFA
	pikevm    *nfa.PikeVM
	literals  *literal.Seq
	prefilter prefilter.Prefilter
	tracker   *prefilter.Tracker
	strategy  Strategy
	config    Config

	// statePool provides thread-safe pooling of per-search mutable state.
	statePool *searchStatePool
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts every IsMatch call
	Searches uint64

	// ExactSearches counts searches decided by the exact literal set
	ExactSearches uint64

	// PrefilterRejects counts texts ruled out by the required-literal prefilter
	PrefilterRejects uint64

	// NFASearches counts PikeVM runs
	NFASearches uint64
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration.
//
// Errors are a *ConfigError for an invalid config or the *nfa.CompileError
// produced by the compiler.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	postfix := syntax.Parse(pattern)
	compiler := nfa.NewCompiler(nfa.CompilerConfig{MaxStates: config.MaxStates})
	n, err := compiler.CompilePostfix(pattern, postfix)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pattern: pattern,
		postfix: postfix,
		nfa:     n,
		pikevm:  nfa.NewPikeVM(n),
		config:  config,
	}
	e.statePool = newSearchStatePool(e.pikevm)

	if config.EnablePrefilter {
		e.literals = literal.New(literal.Config{MaxLiterals: config.MaxLiterals}).Extract(postfix)
		pf, err := prefilter.Build(e.literals)
		if err != nil {
			// The automaton still answers correctly without a prefilter.
			pf = nil
		}
		e.prefilter = pf
	}
	e.strategy = selectStrategy(e.prefilter, config)

	if e.strategy == UsePrefilterNFA && config.TrackPrefilter {
		e.tracker = prefilter.NewTracker(e.prefilter)
	}
	return e, nil
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Postfix returns the postfix symbol stream the automaton was compiled from.
func (e *Engine) Postfix() []syntax.Symbol {
	return e.postfix
}

// NFA returns the compiled automaton.
func (e *Engine) NFA() *nfa.NFA {
	return e.nfa
}

// Literals returns the extracted literal set, or nil when the prefilter is disabled.
func (e *Engine) Literals() *literal.Seq {
	return e.literals
}

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// PrefilterActive reports whether a required-literal prefilter is still in use.
func (e *Engine) PrefilterActive() bool {
	if e.strategy != UsePrefilterNFA {
		return false
	}
	return e.tracker == nil || e.tracker.IsActive()
}

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:         atomic.LoadUint64(&e.stats.Searches),
		ExactSearches:    atomic.LoadUint64(&e.stats.ExactSearches),
		PrefilterRejects: atomic.LoadUint64(&e.stats.PrefilterRejects),
		NFASearches:      atomic.LoadUint64(&e.stats.NFASearches),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.ExactSearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterRejects, 0)
	atomic.StoreUint64(&e.stats.NFASearches, 0)
}
