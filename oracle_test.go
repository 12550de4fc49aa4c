package thompson

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"

	"github.com/qlcliu/thompson/internal/ascii"
	"github.com/qlcliu/thompson/syntax"
)

// translate renders pattern as an equivalent body for Perl-style engines.
// Every operator is wrapped in a non-capturing group so that precedence and
// the lenient group handling of this package carry over exactly. ok is false
// for patterns this package rejects.
func translate(pattern string) (body string, ok bool) {
	var stack []string
	pop := func() string {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return s
	}
	for _, sym := range syntax.Parse(pattern) {
		switch sym.Op {
		case syntax.OpLiteral:
			stack = append(stack, regexp.QuoteMeta(string(sym.Rune)))
		case syntax.OpWildcard:
			stack = append(stack, "(?s:.)")
		case syntax.OpConcat, syntax.OpAlternate:
			if len(stack) < 2 {
				return "", false
			}
			r, l := pop(), pop()
			if sym.Op == syntax.OpConcat {
				stack = append(stack, "(?:"+l+")(?:"+r+")")
			} else {
				stack = append(stack, "(?:"+l+"|"+r+")")
			}
		case syntax.OpZeroOrOne, syntax.OpZeroOrMore, syntax.OpOneOrMore:
			if len(stack) < 1 {
				return "", false
			}
			suffix := map[syntax.Op]string{
				syntax.OpZeroOrOne:  "?",
				syntax.OpZeroOrMore: "*",
				syntax.OpOneOrMore:  "+",
			}[sym.Op]
			stack = append(stack, "(?:"+pop()+")"+suffix)
		default:
			return "", false
		}
	}
	switch len(stack) {
	case 0:
		return "", true
	case 1:
		return stack[0], true
	default:
		return "", false
	}
}

// oracles compiles the translated pattern with each reference engine.
type oracles struct {
	std  *regexp.Regexp
	core *coregex.Regex
	pcre *regexp2.Regexp
}

func newOracles(t testing.TB, pattern string) (*oracles, bool) {
	t.Helper()
	body, ok := translate(pattern)
	if !ok {
		return nil, false
	}
	std, err := regexp.Compile("^(?:" + body + ")$")
	if err != nil {
		t.Fatalf("stdlib rejected translation of %q: %v", pattern, err)
	}
	core, err := coregex.Compile("^(?:" + body + ")$")
	if err != nil {
		t.Fatalf("coregex rejected translation of %q: %v", pattern, err)
	}
	pcre, err := regexp2.Compile(`\A(?:`+body+`)\z`, regexp2.None)
	if err != nil {
		t.Fatalf("regexp2 rejected translation of %q: %v", pattern, err)
	}
	return &oracles{std: std, core: core, pcre: pcre}, true
}

func (o *oracles) check(t testing.TB, pattern, text string, got bool) {
	t.Helper()
	if want := o.std.MatchString(text); got != want {
		t.Errorf("Match(%q, %q) = %v, regexp says %v", pattern, text, got, want)
	}
	// coregex v0.10.2 does not let (?s:.) consume a multi-byte character,
	// so it only judges ASCII texts.
	if ascii.Valid([]byte(text)) {
		if want := o.core.MatchString(text); got != want {
			t.Errorf("Match(%q, %q) = %v, coregex says %v", pattern, text, got, want)
		}
	}
	want, err := o.pcre.MatchString(text)
	if err != nil {
		t.Fatalf("regexp2 on %q: %v", text, err)
	}
	if got != want {
		t.Errorf("Match(%q, %q) = %v, regexp2 says %v", pattern, text, got, want)
	}
}

// TestOraclesMultibyteWildcard keeps a wildcard over multi-byte characters
// under the stdlib and regexp2 oracles.
func TestOraclesMultibyteWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"a.c", "aéc", true},
		{"日本.", "日本語", true},
		{"日本.", "日本", false},
		{"(.)+", "héllo", true},
		{"..", "é", false},
	}
	for _, tt := range tests {
		o, ok := newOracles(t, tt.pattern)
		if !ok {
			t.Fatalf("translate(%q) failed", tt.pattern)
		}
		if got := o.std.MatchString(tt.text); got != tt.want {
			t.Errorf("regexp: Match(%q, %q) = %v, want %v", tt.pattern, tt.text, got, tt.want)
		}
		got := MustCompile(tt.pattern).MatchString(tt.text)
		if got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.text, got, tt.want)
		}
		o.check(t, tt.pattern, tt.text, got)
	}
}

// randomPattern builds a pattern over a small alphabet so that random texts
// hit both matching and non-matching paths.
func randomPattern(rng *rand.Rand, depth int) string {
	if depth == 0 || rng.Intn(4) == 0 {
		return string("abc."[rng.Intn(4)])
	}
	switch rng.Intn(6) {
	case 0:
		return randomPattern(rng, depth-1) + randomPattern(rng, depth-1)
	case 1:
		return randomPattern(rng, depth-1) + "|" + randomPattern(rng, depth-1)
	case 2:
		return "(" + randomPattern(rng, depth-1) + ")*"
	case 3:
		return "(" + randomPattern(rng, depth-1) + ")+"
	case 4:
		return "(" + randomPattern(rng, depth-1) + ")?"
	default:
		return "(" + randomPattern(rng, depth-1) + ")"
	}
}

func randomText(rng *rand.Rand) string {
	var sb strings.Builder
	n := rng.Intn(8)
	for i := 0; i < n; i++ {
		sb.WriteByte("abcd"[rng.Intn(4)])
	}
	return sb.String()
}

// TestAgreesWithOracles compares random patterns against regexp, coregex
// and regexp2, with and without the literal prefilter.
func TestAgreesWithOracles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noPrefilter := DefaultConfig()
	noPrefilter.EnablePrefilter = false

	for i := 0; i < 300; i++ {
		pattern := randomPattern(rng, 4)
		o, ok := newOracles(t, pattern)
		if !ok {
			continue
		}
		re := MustCompile(pattern)
		plain, err := CompileWithConfig(pattern, noPrefilter)
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j < 30; j++ {
			text := randomText(rng)
			got := re.MatchString(text)
			o.check(t, pattern, text, got)
			if plain.MatchString(text) != got {
				t.Errorf("Match(%q, %q): prefilter changed the result", pattern, text)
			}
		}
	}
}

func FuzzMatch(f *testing.F) {
	seeds := []struct{ pattern, text string }{
		{"a.c", "abc"},
		{"ab*", "abbbb"},
		{"(ab)+", "ababab"},
		{"a?b", "aab"},
		{"(a*)*", "aaaa"},
		{"", ""},
		{"a)b", "ab"},
		{"(foo|bar)+baz", "foobarbaz"},
		{`a\.b`, "a.b"},
		{"日本.", "日本語"},
	}
	for _, s := range seeds {
		f.Add(s.pattern, s.text)
	}

	f.Fuzz(func(t *testing.T, pattern, text string) {
		if !utf8.ValidString(pattern) || !utf8.ValidString(text) || len(pattern) > 64 || len(text) > 64 {
			return
		}
		re, err := Compile(pattern)
		if err != nil {
			if _, ok := translate(pattern); ok {
				t.Fatalf("Compile(%q) failed but the pattern is well formed: %v", pattern, err)
			}
			return
		}
		o, ok := newOracles(t, pattern)
		if !ok {
			t.Fatalf("Compile(%q) succeeded on a malformed pattern", pattern)
		}
		o.check(t, pattern, text, re.MatchString(text))
	})
}
