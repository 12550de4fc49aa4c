// Package thompson provides whole-string regular expression matching built on
// Thompson's construction.
//
// A pattern is normalized (explicit concatenation inserted), converted to
// postfix with the shunting-yard algorithm, compiled into an NFA by fragment
// patching, and simulated with a Pike VM that tracks every live state at
// once. Matching is O(len(text) * states) and never backtracks, so patterns
// such as (a*)* cannot blow up.
//
// Supported syntax: literals, '.' (any character), '|', '*', '+', '?',
// grouping with '(' and ')', and '\' to take the next character literally.
// A pattern matches a text only if it matches the text in its entirety.
//
// Basic usage:
//
//	re := thompson.New("a(b|c)*d")
//	ok, err := re.Match("abcbd") // compiles on first use
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ok) // true
//
// Compile eagerly when a pattern is shared or known ahead of time:
//
//	var word = thompson.MustCompile("(a|b)+")
//	word.MatchString("abba") // true
//	word.MatchString("abc")  // false
package thompson

import (
	"errors"
	"sync"

	"github.com/qlcliu/thompson/meta"
	"github.com/qlcliu/thompson/syntax"
)

// Regex is a pattern together with its lazily compiled engine.
//
// A Regex is safe to use concurrently from multiple goroutines. The first
// call that needs the engine compiles it exactly once; every later call
// reuses the result, including a compile failure.
//
// Example:
//
//	re := thompson.New(`hel+o`)
//	if re.MatchString("hellllo") {
//	    println("matched!")
//	}
type Regex struct {
	pattern string
	config  meta.Config

	once   sync.Once
	engine *meta.Engine
	err    error

	// compiles counts engine compilations; it never exceeds one.
	compiles int
}

// New returns a Regex for pattern. Nothing is compiled until the first match.
func New(pattern string) *Regex {
	return &Regex{
		pattern: pattern,
		config:  meta.DefaultConfig(),
	}
}

// Compile compiles a pattern eagerly.
// Returns a *PatternError if the pattern is invalid.
//
// Example:
//
//	re, err := thompson.Compile(`(ab)+c`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, meta.DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var greeting = thompson.MustCompile(`hel+o|hi`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("thompson: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern eagerly with a custom configuration.
//
// An invalid config is reported as a *meta.ConfigError, an invalid pattern as
// a *PatternError.
//
// Example:
//
//	config := thompson.DefaultConfig()
//	config.EnablePrefilter = false // NFA only
//	re, err := thompson.CompileWithConfig("(a|b)*c", config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	re := &Regex{
		pattern: pattern,
		config:  config,
	}
	if _, err := re.compile(); err != nil {
		return nil, err
	}
	return re, nil
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// compile builds the engine on first use and returns the memoized result.
func (r *Regex) compile() (*meta.Engine, error) {
	r.once.Do(func() {
		r.compiles++
		engine, err := meta.CompileWithConfig(r.pattern, r.config)
		if err != nil {
			var cfgErr *meta.ConfigError
			if errors.As(err, &cfgErr) {
				r.err = err
			} else {
				r.err = &PatternError{Pattern: r.pattern, Err: err}
			}
			return
		}
		r.engine = engine
	})
	return r.engine, r.err
}

// Match reports whether text, taken as a whole, matches the pattern.
//
// The pattern is compiled on the first call. If compilation fails, Match
// returns false and the same error on this and every later call.
//
// Example:
//
//	ok, err := thompson.New("a+b").Match("aaab") // true, nil
//	_, err = thompson.New("*a").Match("a")       // false, *PatternError
func (r *Regex) Match(text string) (bool, error) {
	engine, err := r.compile()
	if err != nil {
		return false, err
	}
	return engine.IsMatchString(text), nil
}

// MatchString reports whether text, taken as a whole, matches the pattern.
// An invalid pattern matches nothing; use Match to see the error.
//
// Example:
//
//	re := thompson.MustCompile(`colou?r`)
//	re.MatchString("color")      // true
//	re.MatchString("watercolor") // false: the whole text must match
func (r *Regex) MatchString(text string) bool {
	ok, _ := r.Match(text)
	return ok
}

// MatchBytes is MatchString for UTF-8 encoded bytes.
func (r *Regex) MatchBytes(b []byte) bool {
	engine, err := r.compile()
	if err != nil {
		return false
	}
	return engine.IsMatch(b)
}

// String returns the source text of the pattern.
func (r *Regex) String() string {
	return r.pattern
}

// States returns the number of NFA states, compiling the pattern if needed.
// It returns 0 for an invalid pattern.
func (r *Regex) States() int {
	engine, err := r.compile()
	if err != nil {
		return 0
	}
	return engine.NFA().States()
}

// Stats returns execution statistics of the compiled engine.
// It returns zero statistics for an invalid pattern.
func (r *Regex) Stats() meta.Stats {
	engine, err := r.compile()
	if err != nil {
		return meta.Stats{}
	}
	return engine.Stats()
}

// Engine returns the compiled engine, compiling the pattern if needed.
func (r *Regex) Engine() (*meta.Engine, error) {
	return r.compile()
}

// MatchString reports whether text, as a whole, matches pattern.
// More complicated queries need to use Compile and the full Regex interface.
//
// Example:
//
//	ok, err := thompson.MatchString("a.c", "abc") // true, nil
func MatchString(pattern, text string) (bool, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.Match(text)
}

// QuoteMeta returns a string that escapes all pattern metacharacters
// inside the argument text; the returned string is a pattern matching
// the literal text.
//
// Example:
//
//	escaped := thompson.QuoteMeta("1+1=2?")
//	// escaped = `1\+1=2\?`
//	re := thompson.MustCompile(escaped)
//	re.MatchString("1+1=2?") // true
func QuoteMeta(s string) string {
	// Count how many characters need escaping
	n := 0
	for i := 0; i < len(s); i++ {
		if syntax.IsMeta(rune(s[i])) {
			n++
		}
	}

	// If no escaping needed, return original
	if n == 0 {
		return s
	}

	// Build escaped string. Metacharacters are ASCII, so bytes of multi-byte
	// runes are copied through unchanged.
	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if syntax.IsMeta(rune(s[i])) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}
