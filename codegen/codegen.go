// Package codegen emits standalone Go matchers for a pattern.
//
// The generated file depends on nothing outside the Go standard library. It
// carries the compiled NFA as a state table together with the closure of
// every state, and a MatchString function that simulates the automaton the
// same way the Pike VM does: whole-string, one generation per character, each
// state at most once per generation.
//
// Example:
//
//	err := codegen.Save(codegen.Config{
//	    Pattern: "(foo|bar)+baz",
//	    Package: "words",
//	    Name:    "Word",
//	}, "word_gen.go")
//
// produces a file declaring func WordMatchString(s string) bool.
package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/qlcliu/thompson/nfa"
)

// ErrInvalidConfig is returned for a Config that cannot produce a file.
var ErrInvalidConfig = errors.New("codegen: invalid config")

// Config describes one generated matcher.
type Config struct {
	Pattern string // Pattern source
	Package string // Package clause of the generated file
	Name    string // Exported prefix, e.g. "Word" gives WordMatchString

	// MaxStates caps the compiled NFA. Zero means nfa.DefaultMaxStates.
	MaxStates int

	// Logger receives generation decisions at debug level. May be nil.
	Logger *slog.Logger
}

func (c Config) validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidConfig, c.Package)
	}
	if !token.IsIdentifier(c.Name) {
		return fmt.Errorf("%w: name %q is not an identifier", ErrInvalidConfig, c.Name)
	}
	if r, _ := utf8.DecodeRuneInString(c.Name); !unicode.IsUpper(r) {
		return fmt.Errorf("%w: name %q is not exported", ErrInvalidConfig, c.Name)
	}
	return nil
}

func (c Config) debug(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, args...)
	}
}

// Generate compiles cfg.Pattern and returns the generated file.
func Generate(cfg Config) (*jen.File, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n, err := nfa.NewCompiler(nfa.CompilerConfig{MaxStates: cfg.MaxStates}).Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("codegen: compile %q: %w", cfg.Pattern, err)
	}
	cfg.debug("compiled pattern", "pattern", cfg.Pattern, "states", n.States(), "start", n.Start())

	g := &generator{cfg: cfg, nfa: n, prefix: unexported(cfg.Name)}
	f := jen.NewFile(cfg.Package)
	f.HeaderComment("Code generated by thompson. DO NOT EDIT.")
	g.constants(f)
	g.states(f)
	g.closures(f)
	g.matchString(f)
	return f, nil
}

// Write renders the generated file to w.
func Write(cfg Config, w io.Writer) error {
	f, err := Generate(cfg)
	if err != nil {
		return err
	}
	return f.Render(w)
}

// Save renders the generated file to path.
func Save(cfg Config, path string) error {
	f, err := Generate(cfg)
	if err != nil {
		return err
	}
	cfg.debug("writing file", "path", path)
	return f.Save(path)
}

type generator struct {
	cfg    Config
	nfa    *nfa.NFA
	prefix string
}

func (g *generator) id(suffix string) string {
	return g.prefix + suffix
}

func (g *generator) constants(f *jen.File) {
	f.Comment(fmt.Sprintf("%s is the source of %sMatchString.", g.id("Pattern"), g.cfg.Name))
	f.Const().Id(g.id("Pattern")).Op("=").Lit(g.cfg.Pattern)
	f.Line()
	f.Const().Defs(
		jen.Id(g.id("Start")).Op("=").Lit(int(g.nfa.Start())),
		jen.Id(g.id("Match")).Op("=").Lit(int(g.nfa.Match())),
		jen.Line(),
		jen.Id(g.id("KindRune")).Op("=").Lit(int(nfa.StateRune)),
		jen.Id(g.id("KindAny")).Op("=").Lit(int(nfa.StateAny)),
	)
}

// states emits the arena as a table. Missing successors are -1.
func (g *generator) states(f *jen.File) {
	n := g.nfa.States()
	rows := make([]jen.Code, 0, n)
	consuming := 0
	it := g.nfa.Iter()
	for s := it.Next(); s != nil; s = it.Next() {
		var r rune
		out0, out1 := nfa.InvalidState, nfa.InvalidState
		switch s.Kind() {
		case nfa.StateRune:
			r, out0 = s.Rune()
		case nfa.StateAny:
			out0 = s.Any()
		case nfa.StateSplit:
			out0, out1 = s.Split()
		}
		if s.IsConsuming() {
			consuming++
		}
		rows = append(rows, jen.Values(
			jen.Lit(int(s.Kind())),
			jen.LitRune(r),
			jen.Lit(slot(out0)),
			jen.Lit(slot(out1)),
		))
	}
	g.cfg.debug("emitting state table", "states", n, "consuming", consuming)

	f.Var().Id(g.id("States")).Op("=").Index(jen.Lit(n)).Struct(
		jen.Id("Kind").Uint8(),
		jen.Id("Rune").Rune(),
		jen.List(jen.Id("Out0"), jen.Id("Out1")).Int32(),
	).ValuesFunc(func(group *jen.Group) {
		for _, row := range rows {
			group.Add(row)
		}
	})
}

// closures emits the split closure of every state. Split states never
// appear inside a closure, so the matcher does no epsilon work at run time.
func (g *generator) closures(f *jen.File) {
	n := g.nfa.States()
	total := 0
	f.Var().Id(g.id("Closures")).Op("=").Index(jen.Lit(n)).Index().Int32().ValuesFunc(func(group *jen.Group) {
		for i := 0; i < n; i++ {
			closure := g.nfa.Closure(nfa.StateID(i))
			total += len(closure)
			group.ValuesFunc(func(ids *jen.Group) {
				for _, id := range closure {
					ids.Lit(int(id))
				}
			})
		}
	})
	g.cfg.debug("emitting closures", "entries", total)
}

func (g *generator) matchString(f *jen.File) {
	n := g.nfa.States()
	name := g.cfg.Name + "MatchString"

	f.Comment(fmt.Sprintf("%s reports whether s, as a whole, matches %q.", name, g.cfg.Pattern))
	f.Func().Id(name).Params(jen.Id("s").String()).Bool().Block(
		jen.Var().Id("mark").Index(jen.Lit(n)).Int(),
		jen.Id("cur").Op(":=").Append(jen.Index().Int32().Call(jen.Nil()), jen.Id(g.id("Closures")).Index(jen.Id(g.id("Start"))).Op("...")),
		jen.Id("next").Op(":=").Make(jen.Index().Int32(), jen.Lit(0), jen.Lit(n)),
		jen.Id("gen").Op(":=").Lit(0),
		jen.For(jen.List(jen.Id("_"), jen.Id("r")).Op(":=").Range().Id("s")).Block(
			jen.If(jen.Len(jen.Id("cur")).Op("==").Lit(0)).Block(jen.Return(jen.False())),
			jen.Id("gen").Op("++"),
			jen.Id("next").Op("=").Id("next").Index(jen.Empty(), jen.Lit(0)),
			jen.For(jen.List(jen.Id("_"), jen.Id("id")).Op(":=").Range().Id("cur")).Block(
				jen.Id("st").Op(":=").Op("&").Id(g.id("States")).Index(jen.Id("id")),
				jen.If(
					jen.Id("st").Dot("Kind").Op("!=").Id(g.id("KindAny")).Op("&&").
						Parens(jen.Id("st").Dot("Kind").Op("!=").Id(g.id("KindRune")).Op("||").Id("st").Dot("Rune").Op("!=").Id("r")),
				).Block(jen.Continue()),
				jen.For(jen.List(jen.Id("_"), jen.Id("t")).Op(":=").Range().Id(g.id("Closures")).Index(jen.Id("st").Dot("Out0"))).Block(
					jen.If(jen.Id("mark").Index(jen.Id("t")).Op("!=").Id("gen")).Block(
						jen.Id("mark").Index(jen.Id("t")).Op("=").Id("gen"),
						jen.Id("next").Op("=").Append(jen.Id("next"), jen.Id("t")),
					),
				),
			),
			jen.List(jen.Id("cur"), jen.Id("next")).Op("=").List(jen.Id("next"), jen.Id("cur")),
		),
		jen.For(jen.List(jen.Id("_"), jen.Id("id")).Op(":=").Range().Id("cur")).Block(
			jen.If(jen.Id("id").Op("==").Id(g.id("Match"))).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)
}

func slot(id nfa.StateID) int {
	if id == nfa.InvalidState {
		return -1
	}
	return int(id)
}

func unexported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}
