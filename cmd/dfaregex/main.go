// Command dfaregex compiles patterns, checks pattern corpora and searches
// text from the command line.
//
//	dfaregex compile [file]          compile the first line of file (default Regexes.txt)
//	dfaregex check <valid> <invalid> check pattern lists
//	dfaregex suite <suite.yaml>...   run YAML suites
//	dfaregex match <pattern> [file]  report which lines match as a whole
//	dfaregex search <pattern> [file] print every match with its position
//	dfaregex dot [-nfa] <pattern>    print the automaton in DOT form
//
// Files ending in .zst are decompressed; "-" reads standard input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/coregx/dfaregex"
	"github.com/coregx/dfaregex/char"
	"github.com/coregx/dfaregex/graphviz"
	"github.com/coregx/dfaregex/internal/corpus"
	"github.com/coregx/dfaregex/internal/harness"
	"github.com/coregx/dfaregex/internal/report"
	"github.com/coregx/dfaregex/nfa"
)

const defaultInput = "Regexes.txt"

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitRuntime = 3
)

type options struct {
	verbose     bool
	allowEmpty  bool
	noPrefilter bool
	maxStates   uint
	level       string
	nfa         bool
}

func (o *options) config() dfaregex.Config {
	c := dfaregex.DefaultConfig()
	c.AllowEmptyMatch = o.allowEmpty
	c.EnablePrefilter = !o.noPrefilter
	c.MaxDFAStates = uint32(o.maxStates)
	return c
}

type command struct {
	opts   options
	sink   *report.Sink
	stdin  io.Reader
	stdout io.Writer
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "usage:\n")
	fmt.Fprintf(w, "    dfaregex [flags] compile [file]\n")
	fmt.Fprintf(w, "        compile the first line of file (default %s)\n", defaultInput)
	fmt.Fprintf(w, "    dfaregex [flags] check <valid-file> <invalid-file>\n")
	fmt.Fprintf(w, "        check that valid patterns compile and invalid ones do not\n")
	fmt.Fprintf(w, "    dfaregex [flags] suite <suite.yaml>...\n")
	fmt.Fprintf(w, "        run YAML test suites\n")
	fmt.Fprintf(w, "    dfaregex [flags] match <pattern> [file]\n")
	fmt.Fprintf(w, "        report for each line of file whether pattern matches all of it\n")
	fmt.Fprintf(w, "    dfaregex [flags] search <pattern> [file]\n")
	fmt.Fprintf(w, "        print line:column and text of every match in file\n")
	fmt.Fprintf(w, "    dfaregex [flags] dot <pattern>\n")
	fmt.Fprintf(w, "        print the minimized DFA (or the NFA with -nfa) as Graphviz DOT\n")
	fmt.Fprintf(w, "flags:\n")
	fs.PrintDefaults()
}

// run executes the command line args and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cmd command
	fs := flag.NewFlagSet("dfaregex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cmd.opts.verbose, "v", false, "verbose")
	fs.BoolVar(&cmd.opts.allowEmpty, "allow-empty", false, "accept patterns that match the empty string")
	fs.BoolVar(&cmd.opts.noPrefilter, "no-prefilter", false, "disable the literal prefilter")
	fs.UintVar(&cmd.opts.maxStates, "max-states", uint(dfaregex.DefaultConfig().MaxDFAStates), "maximum number of DFA states")
	fs.StringVar(&cmd.opts.level, "level", "NOTICE", "least severe report level printed (EXCEPTION, ERROR, WARNING, NOTICE)")
	fs.BoolVar(&cmd.opts.nfa, "nfa", false, "dot: print the NFA instead of the DFA")
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		usage(fs, stderr)
		return exitUsage
	}

	level, err := report.ParseLevel(cmd.opts.level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if uint64(cmd.opts.maxStates) > math.MaxUint32 {
		fmt.Fprintln(stderr, "-max-states out of range")
		return exitUsage
	}
	cmd.sink = report.NewSink(stderr, level)
	cmd.stdin = stdin
	cmd.stdout = stdout

	name, rest := rest[0], rest[1:]
	switch name {
	case "compile":
		if len(rest) > 1 {
			return cmd.usageErr("compile [file]")
		}
		path := defaultInput
		if len(rest) == 1 {
			path = rest[0]
		}
		return cmd.compile(path)
	case "check":
		if len(rest) != 2 {
			return cmd.usageErr("check <valid-file> <invalid-file>")
		}
		return cmd.check(rest[0], rest[1])
	case "suite":
		if len(rest) == 0 {
			return cmd.usageErr("suite <suite.yaml>...")
		}
		return cmd.suite(rest)
	case "match", "search":
		if len(rest) < 1 || len(rest) > 2 {
			return cmd.usageErr(name + " <pattern> [file]")
		}
		path := "-"
		if len(rest) == 2 {
			path = rest[1]
		}
		if name == "match" {
			return cmd.match(rest[0], path)
		}
		return cmd.search(rest[0], path)
	case "dot":
		if len(rest) != 1 {
			return cmd.usageErr("dot <pattern>")
		}
		return cmd.dot(rest[0])
	default:
		cmd.sink.Printf(report.Error, "unknown command %q", name)
		return exitUsage
	}
}

func (c *command) usageErr(text string) int {
	c.sink.Print(report.Error, "usage: "+text)
	return exitUsage
}

// compileErr reports a compilation failure and returns the exit code.
func (c *command) compileErr(err error) int {
	if errors.Is(err, nfa.ErrInternal) {
		c.sink.Report(report.Exception, report.Runtime, err.Error())
		return exitRuntime
	}
	c.sink.Print(report.Error, err.Error())
	return exitFailed
}

func (c *command) compilePattern(pattern string) (*dfaregex.Regexp, int) {
	re, err := dfaregex.CompileWithConfig(pattern, c.opts.config())
	if err != nil {
		return nil, c.compileErr(err)
	}
	return re, exitOK
}

func (c *command) compile(path string) int {
	pattern, err := corpus.FirstLine(path)
	if err != nil {
		c.sink.Report(report.Error, report.InputFile, path)
		return exitFailed
	}
	re, code := c.compilePattern(pattern)
	if re == nil {
		return code
	}
	if c.opts.verbose {
		c.sink.Printf(report.Notice, "RE: %s: %d states, digest %s",
			char.GlyphString(pattern), re.NumStates(), re.DFA().DigestString())
	}
	fmt.Fprintf(c.stdout, "\nSuccess!\n")
	return exitOK
}

func (c *command) check(validPath, invalidPath string) int {
	var lists [2][]string
	for i, path := range []string{validPath, invalidPath} {
		lines, err := corpus.LoadLines(path)
		if err != nil {
			c.sink.Report(report.Error, report.InputFile, path)
			return exitFailed
		}
		lists[i] = lines
	}
	h := harness.New(c.sink, c.opts.config())
	h.Lists(lists[0], lists[1])
	r := h.Result()
	c.sink.Printf(report.Notice, "%d checks, %d failed", r.Checks, r.Failures)
	return c.finish()
}

func (c *command) suite(paths []string) int {
	for _, path := range paths {
		s, err := corpus.LoadSuite(path)
		if err != nil {
			c.sink.Print(report.Error, err.Error())
			continue
		}
		harness.RunSuite(s, c.sink)
	}
	return c.finish()
}

func (c *command) finish() int {
	if c.opts.verbose {
		c.sink.Print(report.Notice, c.sink.Summary())
	}
	if c.sink.Count(report.Exception) > 0 {
		return exitRuntime
	}
	if c.sink.Failed() {
		return exitFailed
	}
	return exitOK
}

func (c *command) open(path string) (io.ReadCloser, bool) {
	if path == "-" {
		return io.NopCloser(c.stdin), true
	}
	r, err := corpus.Open(path)
	if err != nil {
		c.sink.Report(report.Error, report.InputFile, path)
		return nil, false
	}
	return r, true
}

func (c *command) match(pattern, path string) int {
	re, code := c.compilePattern(pattern)
	if re == nil {
		return code
	}
	r, ok := c.open(path)
	if !ok {
		return exitFailed
	}
	defer r.Close()
	lines, err := corpus.ReadLines(r)
	if err != nil {
		c.sink.Print(report.Error, err.Error())
		return exitFailed
	}
	for _, line := range lines {
		fmt.Fprintf(c.stdout, "%t\t%s\n", re.Match(line), char.GlyphString(line))
	}
	return exitOK
}

func (c *command) search(pattern, path string) int {
	re, code := c.compilePattern(pattern)
	if re == nil {
		return code
	}
	r, ok := c.open(path)
	if !ok {
		return exitFailed
	}
	defer r.Close()
	text, err := io.ReadAll(r)
	if err != nil {
		c.sink.Print(report.Error, err.Error())
		return exitFailed
	}
	matches := re.SearchBytes(text)
	for _, m := range matches {
		fmt.Fprintf(c.stdout, "%s: %s\n", m.Position(), char.GlyphString(m.String()))
	}
	if c.opts.verbose {
		c.sink.Printf(report.Notice, "%d matches", len(matches))
	}
	return exitOK
}

func (c *command) dot(pattern string) int {
	title := char.GlyphString(pattern)
	if c.opts.nfa {
		cc := c.opts.config().CompilerConfig()
		n, err := nfa.NewCompiler(cc).Compile(pattern)
		if err != nil {
			return c.compileErr(err)
		}
		if err := graphviz.FromNFA(n).WriteTo(c.stdout, "NFA", title); err != nil {
			c.sink.Report(report.Error, report.OutputFile, err.Error())
			return exitFailed
		}
		return exitOK
	}
	re, code := c.compilePattern(pattern)
	if re == nil {
		return code
	}
	if err := graphviz.FromDFA(re.DFA()).WriteTo(c.stdout, "DFA", title); err != nil {
		c.sink.Report(report.Error, report.OutputFile, err.Error())
		return exitFailed
	}
	return exitOK
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("dfaregex: ")
	code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if code == exitRuntime {
		log.Print("aborted on an internal error")
	}
	os.Exit(code)
}
