package syntax

// metaChars lists every character with a meaning in pattern syntax.
const metaChars = `\.+*?()|`

// IsMeta reports whether r has a meaning in pattern syntax and must be
// escaped to be matched literally.
func IsMeta(r rune) bool {
	for _, m := range metaChars {
		if r == m {
			return true
		}
	}
	return false
}

// Parse converts a pattern into its postfix symbol stream.
// It never fails: malformed operator placement is detected by the compiler,
// and unbalanced groups are tolerated (see ToPostfix).
func Parse(pattern string) []Symbol {
	return ToPostfix(Normalize(pattern))
}

// Normalize maps pattern characters to symbols and inserts explicit
// OpConcat symbols between adjacent operands.
//
// A backslash makes the following character a literal. A trailing backslash
// with nothing after it is dropped.
func Normalize(pattern string) []Symbol {
	mapped := make([]Symbol, 0, len(pattern))

	escaped := false
	for _, r := range pattern {
		if escaped {
			mapped = append(mapped, Lit(r))
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '|':
			mapped = append(mapped, Operator(OpAlternate))
		case '*':
			mapped = append(mapped, Operator(OpZeroOrMore))
		case '+':
			mapped = append(mapped, Operator(OpOneOrMore))
		case '?':
			mapped = append(mapped, Operator(OpZeroOrOne))
		case '(':
			mapped = append(mapped, Operator(OpLeftGroup))
		case ')':
			mapped = append(mapped, Operator(OpRightGroup))
		case '.':
			mapped = append(mapped, Operator(OpWildcard))
		default:
			mapped = append(mapped, Lit(r))
		}
	}

	out := make([]Symbol, 0, len(mapped)*2)
	for i, s := range mapped {
		out = append(out, s)
		if i+1 < len(mapped) && s.canEnd() && mapped[i+1].canBegin() {
			out = append(out, Operator(OpConcat))
		}
	}
	return out
}

// ToPostfix reorders an infix symbol stream into postfix order.
//
// Operands and the postfix repetition operators are emitted as they arrive.
// Binary operators wait on a stack until an operator of lower precedence, a
// group boundary or the end of input releases them; equal precedence pops,
// so both binary operators are left-associative.
//
// Groups are lenient: a ')' without a matching '(' is ignored and a '('
// that is never closed is dropped at the end.
func ToPostfix(infix []Symbol) []Symbol {
	out := make([]Symbol, 0, len(infix))
	stack := make([]Symbol, 0, 8)

	for _, s := range infix {
		switch s.Op {
		case OpLeftGroup:
			stack = append(stack, s)

		case OpRightGroup:
			for len(stack) > 0 && stack[len(stack)-1].Op != OpLeftGroup {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case OpConcat, OpAlternate:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if !top.Op.IsBinary() || top.Op.precedence() < s.Op.precedence() {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, s)

		default:
			out = append(out, s)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Op != OpLeftGroup {
			out = append(out, top)
		}
	}
	return out
}
