// Package syntax turns a pattern into the postfix symbol stream consumed by
// the NFA compiler.
//
// Parsing happens in two passes. Normalize maps meta-characters to operator
// symbols, resolves escapes and makes concatenation explicit. ToPostfix then
// reorders the infix stream into Reverse Polish order with a shunting-yard
// pass.
//
// Supported syntax:
//
//	c       literal character
//	.       any single character
//	a|b     alternation
//	a*      zero or more
//	a+      one or more
//	a?      zero or one
//	(...)   grouping
//	\x      literal x
//
// Anything else, including ^ $ [ ] { }, is an ordinary literal.
package syntax

import (
	"fmt"
	"strings"
)

// Op identifies the kind of a Symbol.
type Op uint8

const (
	// OpLiteral matches the symbol's Rune.
	OpLiteral Op = iota

	// OpConcat joins the two preceding operands.
	OpConcat

	// OpAlternate matches either of the two preceding operands.
	OpAlternate

	// OpZeroOrOne makes the preceding operand optional.
	OpZeroOrOne

	// OpZeroOrMore repeats the preceding operand any number of times.
	OpZeroOrMore

	// OpOneOrMore repeats the preceding operand at least once.
	OpOneOrMore

	// OpLeftGroup opens a group. Never present in postfix output.
	OpLeftGroup

	// OpRightGroup closes a group. Never present in postfix output.
	OpRightGroup

	// OpWildcard matches any single character.
	OpWildcard
)

// String returns a human-readable name for the Op.
func (op Op) String() string {
	switch op {
	case OpLiteral:
		return "Literal"
	case OpConcat:
		return "Concat"
	case OpAlternate:
		return "Alternate"
	case OpZeroOrOne:
		return "ZeroOrOne"
	case OpZeroOrMore:
		return "ZeroOrMore"
	case OpOneOrMore:
		return "OneOrMore"
	case OpLeftGroup:
		return "LeftGroup"
	case OpRightGroup:
		return "RightGroup"
	case OpWildcard:
		return "Wildcard"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// IsBinary reports whether op takes two operands.
func (op Op) IsBinary() bool {
	return op == OpConcat || op == OpAlternate
}

// IsRepeat reports whether op is a postfix repetition operator.
func (op Op) IsRepeat() bool {
	return op == OpZeroOrOne || op == OpZeroOrMore || op == OpOneOrMore
}

// precedence orders the binary operators. Concatenation binds tighter than
// alternation; everything else never pops an operator.
func (op Op) precedence() int {
	switch op {
	case OpConcat:
		return 2
	case OpAlternate:
		return 1
	default:
		return 0
	}
}

// Symbol is one element of a normalized pattern.
// Rune is only meaningful when Op is OpLiteral, so operator symbols never
// collide with any literal character.
type Symbol struct {
	Op   Op
	Rune rune
}

// Lit returns a literal symbol for r.
func Lit(r rune) Symbol {
	return Symbol{Op: OpLiteral, Rune: r}
}

// Operator returns a symbol for a non-literal op.
func Operator(op Op) Symbol {
	return Symbol{Op: op}
}

// IsLiteral reports whether s is a literal character.
func (s Symbol) IsLiteral() bool {
	return s.Op == OpLiteral
}

// canEnd reports whether s can terminate an operand.
func (s Symbol) canEnd() bool {
	return s.Op != OpLeftGroup && s.Op != OpConcat && s.Op != OpAlternate
}

// canBegin reports whether s can start an operand.
func (s Symbol) canBegin() bool {
	switch s.Op {
	case OpRightGroup, OpConcat, OpAlternate:
		return false
	default:
		return !s.Op.IsRepeat()
	}
}

// String renders the symbol in pattern notation. Concatenation, which has
// no pattern spelling, is shown as '·'. Literals that collide with
// meta-characters are escaped.
func (s Symbol) String() string {
	if s.IsLiteral() {
		if strings.ContainsRune(metaChars, s.Rune) {
			return `\` + string(s.Rune)
		}
		return string(s.Rune)
	}
	switch s.Op {
	case OpConcat:
		return "·"
	case OpAlternate:
		return "|"
	case OpZeroOrOne:
		return "?"
	case OpZeroOrMore:
		return "*"
	case OpOneOrMore:
		return "+"
	case OpLeftGroup:
		return "("
	case OpRightGroup:
		return ")"
	case OpWildcard:
		return "."
	default:
		return s.Op.String()
	}
}

// Format renders a symbol sequence, e.g. "a b · c |" for the postfix form of
// "ab|c".
func Format(symbols []Symbol) string {
	var sb strings.Builder
	for i, s := range symbols {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
