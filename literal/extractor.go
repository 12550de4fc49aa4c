package literal

import (
	"sort"
	"unicode/utf8"

	"github.com/qlcliu/thompson/syntax"
)

// Config controls literal extraction.
type Config struct {
	// MaxLiterals caps the size of any literal set. Sets that would grow past
	// it are given up on.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{MaxLiterals: 64}
}

// Extractor derives literal sets from postfix symbol streams.
type Extractor struct {
	config Config
}

// New creates an Extractor. A non-positive MaxLiterals falls back to the default.
func New(config Config) *Extractor {
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = DefaultConfig().MaxLiterals
	}
	return &Extractor{config: config}
}

// set is a sorted, deduplicated string set; nil means "unknown".
type set []string

// info describes the literals of one operand on the evaluation stack.
//   - exact: every string the operand matches, when finite and small.
//   - prefix: every match starts with one of these.
//   - suffix: every match ends with one of these.
//   - required: every match contains one of these.
type info struct {
	exact    set
	prefix   set
	suffix   set
	required set
}

func known(s set) info {
	return info{exact: s, prefix: s, suffix: s, required: s}
}

// Extract evaluates postfix and returns its literal Seq: the exact language
// if known, otherwise the best required set, otherwise an empty Seq.
// Streams the compiler would reject also give an empty Seq.
func (e *Extractor) Extract(postfix []syntax.Symbol) *Seq {
	var stack []info
	pop := func() info {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, sym := range postfix {
		switch sym.Op {
		case syntax.OpLiteral:
			// Invalid input bytes decode to utf8.RuneError, so its encoding
			// says nothing about the bytes of a matching text.
			if sym.Rune == utf8.RuneError {
				stack = append(stack, info{})
				continue
			}
			stack = append(stack, known(set{string(sym.Rune)}))

		case syntax.OpWildcard:
			stack = append(stack, info{})

		case syntax.OpConcat:
			if len(stack) < 2 {
				return NewSeq()
			}
			r, l := pop(), pop()
			stack = append(stack, e.concat(l, r))

		case syntax.OpAlternate:
			if len(stack) < 2 {
				return NewSeq()
			}
			r, l := pop(), pop()
			stack = append(stack, info{
				exact:    e.union(l.exact, r.exact),
				prefix:   e.union(l.prefix, r.prefix),
				suffix:   e.union(l.suffix, r.suffix),
				required: e.union(l.required, r.required),
			})

		case syntax.OpZeroOrOne, syntax.OpZeroOrMore:
			if len(stack) < 1 {
				return NewSeq()
			}
			pop()
			stack = append(stack, info{})

		case syntax.OpOneOrMore:
			if len(stack) < 1 {
				return NewSeq()
			}
			top := pop()
			stack = append(stack, info{prefix: top.prefix, suffix: top.suffix, required: top.required})

		default:
			return NewSeq()
		}
	}

	if len(stack) != 1 {
		return NewSeq()
	}
	top := stack[0]
	switch {
	case top.exact != nil:
		return toSeq(top.exact, true)
	case top.required != nil:
		return toSeq(top.required, false)
	default:
		return NewSeq()
	}
}

func (e *Extractor) concat(l, r info) info {
	if product := e.cross(l.exact, r.exact); product != nil {
		return known(product)
	}

	var out info
	out.prefix = l.prefix
	if l.exact != nil {
		out.prefix = l.exact
		if p := e.cross(l.exact, r.prefix); p != nil {
			out.prefix = p
		}
	}
	out.suffix = r.suffix
	if r.exact != nil {
		out.suffix = r.exact
		if s := e.cross(l.suffix, r.exact); s != nil {
			out.suffix = s
		}
	}
	// A match is uv where u ends in a suffix of l and v starts with a
	// prefix of r, so the joined pairs occur in it.
	out.required = better(better(l.required, r.required), e.cross(l.suffix, r.prefix))
	return out
}

// cross returns every concatenation of a string of a with one of b, or nil
// when either side is unknown or the result would exceed MaxLiterals.
func (e *Extractor) cross(a, b set) set {
	if a == nil || b == nil || len(a)*len(b) > e.config.MaxLiterals {
		return nil
	}
	product := make(set, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			product = append(product, x+y)
		}
	}
	return normalize(product)
}

func (e *Extractor) union(a, b set) set {
	if a == nil || b == nil {
		return nil
	}
	u := normalize(append(append(make(set, 0, len(a)+len(b)), a...), b...))
	if len(u) > e.config.MaxLiterals {
		return nil
	}
	return u
}

// better picks the set that filters more: longer shortest literal first,
// then fewer literals.
func better(a, b set) set {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	ma, mb := minLen(a), minLen(b)
	if ma != mb {
		if ma > mb {
			return a
		}
		return b
	}
	if len(b) < len(a) {
		return b
	}
	return a
}

func minLen(s set) int {
	min := len(s[0])
	for _, v := range s[1:] {
		if len(v) < min {
			min = len(v)
		}
	}
	return min
}

func normalize(s set) set {
	sort.Strings(s)
	out := s[:0]
	for i, v := range s {
		if i > 0 && v == s[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

func toSeq(s set, complete bool) *Seq {
	lits := make([]Literal, len(s))
	for i, v := range s {
		lits[i] = NewLiteral([]byte(v), complete)
	}
	return NewSeq(lits...)
}
