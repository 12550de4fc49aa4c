package nfa

import (
	"fmt"

	"github.com/qlcliu/thompson/syntax"
)

// DefaultMaxStates is the state limit used when CompilerConfig.MaxStates is zero.
const DefaultMaxStates = 10000

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxStates caps the number of states in the compiled NFA.
	// Patterns needing more fail with ErrTooComplex.
	// Default: 10000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxStates: DefaultMaxStates,
	}
}

// Compiler compiles postfix symbol streams into Thompson NFAs
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	stack   []fragment
}

// fragment is a partially built automaton: an entry state plus the
// successor slots still waiting for a target.
type fragment struct {
	start StateID
	outs  []Slot
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxStates <= 0 {
		config.MaxStates = DefaultMaxStates
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses pattern and compiles it into an NFA
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	return c.CompilePostfix(pattern, syntax.Parse(pattern))
}

// CompilePostfix compiles an already converted postfix stream. pattern is
// only used for error messages and is recorded on the NFA.
//
// An empty stream compiles to an NFA whose start is its match state, which
// accepts only the empty string.
func (c *Compiler) CompilePostfix(pattern string, postfix []syntax.Symbol) (*NFA, error) {
	c.builder = NewBuilderWithCapacity(len(postfix) + 1)
	c.stack = c.stack[:0]

	for i, sym := range postfix {
		if err := c.compileSymbol(sym); err != nil {
			return nil, &CompileError{Pattern: pattern, Pos: i, Err: err}
		}
		if c.builder.States() > c.config.MaxStates {
			return nil, &CompileError{Pattern: pattern, Pos: i, Err: ErrTooComplex}
		}
	}

	match := c.builder.AddMatch()
	if c.builder.States() > c.config.MaxStates {
		return nil, &CompileError{Pattern: pattern, Pos: -1, Err: ErrTooComplex}
	}
	switch len(c.stack) {
	case 0:
		c.builder.SetStart(match)
	case 1:
		e := c.pop()
		if err := c.builder.PatchAll(e.outs, match); err != nil {
			return nil, &CompileError{Pattern: pattern, Pos: -1, Err: err}
		}
		c.builder.SetStart(e.start)
	default:
		return nil, &CompileError{
			Pattern: pattern,
			Pos:     -1,
			Err:     fmt.Errorf("%w (%d fragments)", ErrUnbalanced, len(c.stack)),
		}
	}

	nfa, err := c.builder.Build(WithPattern(pattern))
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Pos: -1, Err: err}
	}
	return nfa, nil
}

// compileSymbol applies one postfix symbol to the fragment stack.
func (c *Compiler) compileSymbol(sym syntax.Symbol) error {
	switch sym.Op {
	case syntax.OpLiteral:
		s := c.builder.AddRune(sym.Rune, InvalidState)
		c.push(fragment{start: s, outs: []Slot{{State: s}}})

	case syntax.OpWildcard:
		s := c.builder.AddAny(InvalidState)
		c.push(fragment{start: s, outs: []Slot{{State: s}}})

	case syntax.OpConcat:
		if len(c.stack) < 2 {
			return fmt.Errorf("%w: %s needs 2, have %d", ErrMissingOperand, sym.Op, len(c.stack))
		}
		e2, e1 := c.pop(), c.pop()
		if err := c.builder.PatchAll(e1.outs, e2.start); err != nil {
			return err
		}
		c.push(fragment{start: e1.start, outs: e2.outs})

	case syntax.OpAlternate:
		if len(c.stack) < 2 {
			return fmt.Errorf("%w: %s needs 2, have %d", ErrMissingOperand, sym.Op, len(c.stack))
		}
		e2, e1 := c.pop(), c.pop()
		s := c.builder.AddSplit(e1.start, e2.start)
		c.push(fragment{start: s, outs: append(e1.outs, e2.outs...)})

	case syntax.OpZeroOrOne:
		if len(c.stack) < 1 {
			return fmt.Errorf("%w: %s needs 1, have 0", ErrMissingOperand, sym.Op)
		}
		e := c.pop()
		s := c.builder.AddSplit(e.start, InvalidState)
		c.push(fragment{start: s, outs: append(e.outs, Slot{State: s, Out: 1})})

	case syntax.OpZeroOrMore:
		if len(c.stack) < 1 {
			return fmt.Errorf("%w: %s needs 1, have 0", ErrMissingOperand, sym.Op)
		}
		e := c.pop()
		s := c.builder.AddSplit(e.start, InvalidState)
		if err := c.builder.PatchAll(e.outs, s); err != nil {
			return err
		}
		c.push(fragment{start: s, outs: []Slot{{State: s, Out: 1}}})

	case syntax.OpOneOrMore:
		if len(c.stack) < 1 {
			return fmt.Errorf("%w: %s needs 1, have 0", ErrMissingOperand, sym.Op)
		}
		e := c.pop()
		s := c.builder.AddSplit(e.start, InvalidState)
		if err := c.builder.PatchAll(e.outs, s); err != nil {
			return err
		}
		// The fragment still starts at e, so e is traversed at least once
		// before the loop exit becomes reachable.
		c.push(fragment{start: e.start, outs: []Slot{{State: s, Out: 1}}})

	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedSymbol, sym.Op)
	}
	return nil
}

func (c *Compiler) push(f fragment) {
	c.stack = append(c.stack, f)
}

func (c *Compiler) pop() fragment {
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return f
}

// Compile is a convenience wrapper compiling pattern with the default configuration.
func Compile(pattern string) (*NFA, error) {
	return NewDefaultCompiler().Compile(pattern)
}
