package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

var (
	cat  = Operator(OpConcat)
	alt  = Operator(OpAlternate)
	opt  = Operator(OpZeroOrOne)
	star = Operator(OpZeroOrMore)
	plus = Operator(OpOneOrMore)
	lpar = Operator(OpLeftGroup)
	rpar = Operator(OpRightGroup)
	any_ = Operator(OpWildcard)
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []Symbol
	}{
		{"empty", "", []Symbol{}},
		{"single literal", "a", []Symbol{Lit('a')}},
		{"concat literals", "abc", []Symbol{Lit('a'), cat, Lit('b'), cat, Lit('c')}},
		{"wildcard", "a.c", []Symbol{Lit('a'), cat, any_, cat, Lit('c')}},
		{"alternation", "a|b", []Symbol{Lit('a'), alt, Lit('b')}},
		{"star then literal", "a*b", []Symbol{Lit('a'), star, cat, Lit('b')}},
		{"optional", "a?b", []Symbol{Lit('a'), opt, cat, Lit('b')}},
		{"group", "(ab)+", []Symbol{lpar, Lit('a'), cat, Lit('b'), rpar, plus}},
		{"adjacent groups", "(a)(b)", []Symbol{lpar, Lit('a'), rpar, cat, lpar, Lit('b'), rpar}},
		{"literal before group", "a(b)", []Symbol{Lit('a'), cat, lpar, Lit('b'), rpar}},
		{"escaped star", `a\*`, []Symbol{Lit('a'), cat, Lit('*')}},
		{"escaped backslash", `\\`, []Symbol{Lit('\\')}},
		{"escaped paren", `\(`, []Symbol{Lit('(')}},
		{"trailing backslash dropped", `ab\`, []Symbol{Lit('a'), cat, Lit('b')}},
		{"lone backslash", `\`, []Symbol{}},
		{"unicode literal", "é.", []Symbol{Lit('é'), cat, any_}},
		{"anchors are literals", "^a$", []Symbol{Lit('^'), cat, Lit('a'), cat, Lit('$')}},
		{"no concat after alternation", "|a", []Symbol{alt, Lit('a')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.pattern)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"", ""},
		{"a", "a"},
		{"ab", "a b ·"},
		{"abc", "a b · c ·"},
		{"a|b", "a b |"},
		{"a|b|c", "a b | c |"},
		{"ab|c", "a b · c |"},
		{"a|bc", "a b c · |"},
		{"ab*", "a b * ·"},
		{"(ab)+", "a b · +"},
		{"a?b", "a ? b ·"},
		{"(a|b)c", "a b | c ·"},
		{"a(b|c)d", "a b c | · d ·"},
		{"(a*)*", "a * *"},
		{"a.c", "a . · c ·"},
		{`a\|b`, `a \| · b ·`},
		{`\.`, `\.`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Format(Parse(tt.pattern))
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestToPostfix_LenientGroups(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"extra close ignored", "a)b", "a b ·"},
		{"unclosed open dropped", "(ab", "a b ·"},
		{"leading close", ")a", "a ·"},
		{"nested unclosed", "((a|b)c", "a b | c ·"},
		{"only parens", "()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(Parse(tt.pattern))
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestToPostfix_NoGroupSymbolsInOutput(t *testing.T) {
	for _, pattern := range []string{"(a", "a)", "((a))", "(a|(b)c)*", ")(", "(()"} {
		for _, s := range Parse(pattern) {
			assert.Assert(t, s.Op != OpLeftGroup && s.Op != OpRightGroup,
				"pattern %q produced %v in postfix", pattern, s)
		}
	}
}

func TestSymbol_String(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want string
	}{
		{Lit('a'), "a"},
		{Lit('*'), `\*`},
		{Lit('\\'), `\\`},
		{cat, "·"},
		{alt, "|"},
		{any_, "."},
		{lpar, "("},
		{Symbol{Op: Op(99)}, "Op(99)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sym.String(), tt.want)
	}
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, OpLiteral.String(), "Literal")
	assert.Equal(t, OpOneOrMore.String(), "OneOrMore")
	assert.Equal(t, Op(42).String(), "Op(42)")
}

func TestIsMeta(t *testing.T) {
	for _, r := range `\.+*?()|` {
		assert.Assert(t, IsMeta(r), "%q should be meta", r)
	}
	for _, r := range "ab^$[]{}-" {
		assert.Assert(t, !IsMeta(r), "%q should not be meta", r)
	}
}

func TestOp_Classes(t *testing.T) {
	for _, op := range []Op{OpLiteral, OpConcat, OpAlternate, OpZeroOrOne, OpZeroOrMore, OpOneOrMore, OpLeftGroup, OpRightGroup, OpWildcard} {
		repeat := op == OpZeroOrOne || op == OpZeroOrMore || op == OpOneOrMore
		if got := op.IsRepeat(); got != repeat {
			t.Errorf("%v.IsRepeat() = %v, want %v", op, got, repeat)
		}
		if got := Operator(op).IsLiteral(); got != (op == OpLiteral) {
			t.Errorf("Operator(%v).IsLiteral() = %v", op, got)
		}
	}
	assert.Assert(t, Lit('*').IsLiteral())
}
