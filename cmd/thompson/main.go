// Command thompson prints the lines that a pattern matches in their entirety.
//
// Usage:
//
//	thompson [flags] PATTERN [FILE...]
//
// With no FILE, or when FILE is -, standard input is read. The exit status
// is 0 if a line matched, 1 if none did and 2 on error. With -gen the pattern
// is compiled into a standalone Go matcher instead.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/qlcliu/thompson"
	"github.com/qlcliu/thompson/codegen"
	"github.com/qlcliu/thompson/meta"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// maxLine bounds a single input line.
const maxLine = 16 << 20

type options struct {
	count       bool
	verbose     bool
	configPath  string
	noPrefilter bool
	genPath     string
	pkg         string
	name        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("thompson", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.count, "c", false, "print only the number of matching lines")
	fs.BoolVar(&opts.verbose, "v", false, "log compilation and search details")
	fs.StringVar(&opts.configPath, "config", "", "path to YAML engine config")
	fs.BoolVar(&opts.noPrefilter, "no-prefilter", false, "disable the literal prefilter")
	fs.StringVar(&opts.genPath, "gen", "", "write a generated Go matcher to this file instead of matching")
	fs.StringVar(&opts.pkg, "pkg", "main", "package of the generated file")
	fs.StringVar(&opts.name, "name", "Pattern", "exported prefix of the generated matcher")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: thompson [flags] PATTERN [FILE...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		return exitError
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitError
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	pattern, files := fs.Arg(0), fs.Args()[1:]

	if opts.genPath != "" {
		err := codegen.Save(codegen.Config{
			Pattern: pattern,
			Package: opts.pkg,
			Name:    opts.name,
			Logger:  logger,
		}, opts.genPath)
		if err != nil {
			logger.Error("generate failed", "error", err)
			return exitError
		}
		logger.Info("generated matcher", "path", opts.genPath, "func", opts.name+"MatchString")
		return exitMatch
	}

	config, err := loadConfig(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "path", opts.configPath, "error", err)
		return exitError
	}
	if opts.noPrefilter {
		config.EnablePrefilter = false
	}

	re, err := thompson.CompileWithConfig(pattern, config)
	if err != nil {
		logger.Error("compile failed", "error", err)
		return exitError
	}
	if engine, err := re.Engine(); err == nil {
		logger.Debug("compiled pattern",
			"pattern", pattern,
			"states", engine.NFA().States(),
			"strategy", engine.Strategy().String(),
			"literals", engine.Literals().Strings(),
		)
	}

	s := &searcher{re: re, out: stdout, count: opts.count, named: len(files) > 1}
	if len(files) == 0 {
		files = []string{"-"}
	}

	failed := false
	for _, name := range files {
		if err := s.searchFile(name, stdin); err != nil {
			logger.Error("search failed", "file", name, "error", err)
			failed = true
		}
	}

	stats := re.Stats()
	logger.Debug("search done",
		"lines", stats.Searches,
		"matched", s.matched,
		"exact", stats.ExactSearches,
		"prefilter_rejects", stats.PrefilterRejects,
		"nfa", stats.NFASearches,
	)

	switch {
	case failed:
		return exitError
	case s.matched > 0:
		return exitMatch
	default:
		return exitNoMatch
	}
}

// loadConfig reads an engine config, starting from the defaults so that a
// file only needs the fields it changes. An empty path yields the defaults.
func loadConfig(path string) (meta.Config, error) {
	config := meta.DefaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, nil
}

type searcher struct {
	re      *thompson.Regex
	out     io.Writer
	count   bool
	named   bool
	matched int
}

func (s *searcher) searchFile(name string, stdin io.Reader) error {
	if name == "-" {
		return s.search(name, stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.search(name, f)
}

func (s *searcher) search(name string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	n := 0
	for sc.Scan() {
		line := sc.Bytes()
		if !s.re.MatchBytes(line) {
			continue
		}
		n++
		if s.count {
			continue
		}
		if s.named {
			fmt.Fprintf(s.out, "%s:%s\n", name, line)
		} else {
			fmt.Fprintf(s.out, "%s\n", line)
		}
	}
	s.matched += n
	if s.count {
		if s.named {
			fmt.Fprintf(s.out, "%s:%d\n", name, n)
		} else {
			fmt.Fprintf(s.out, "%d\n", n)
		}
	}
	return sc.Err()
}
