// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jfuzz runs a differential fuzzer over several JSON parsers.
//
// The "run" command generates (or loads) a document, and repeatedly mutates
// it, comparing the results of the selected parsers after each mutation. Any
// disagreement is written as a report to the output directory. The "check"
// command compares the parsers once on a given file, and "events" prints the
// events each parser reports for a file.
//
// Flags for "run" may also be set from JFUZZ_ environment variables, or from
// a config file named by --config with one "name value" pair per line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/backend"
	"github.com/creachadair/jfuzz/randjson"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	root := newCommand(os.Stdout, newLogger)
	if err := root.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "jfuzz: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a development logger if verbose is set, or otherwise a
// production logger that records only warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// A tool carries the dependencies shared by the subcommands.
type tool struct {
	out    io.Writer
	logger func(verbose bool) (*zap.Logger, error)
}

// newCommand constructs the root command. Output is written to out, and
// logs to the logger returned by logger.
func newCommand(out io.Writer, logger func(bool) (*zap.Logger, error)) *ffcli.Command {
	t := &tool{out: out, logger: logger}
	return &ffcli.Command{
		Name:       "jfuzz",
		ShortUsage: "jfuzz <command> [flags] ...",
		ShortHelp:  "Differential fuzzing of JSON parsers",
		LongHelp:   `For help on subcommands, add --help after: "jfuzz run --help".`,
		Subcommands: []*ffcli.Command{
			t.runCommand(),
			t.checkCommand(),
			t.eventsCommand(),
			t.parsersCommand(),
		},
		Exec: func(context.Context, []string) error { return flag.ErrHelp },
	}
}

// runFlags are the settings for the run command.
type runFlags struct {
	file         string
	size         int
	genSeed      uint64
	mutSeed      uint64
	id           int
	maxMutations int
	precision    float64
	verbose      bool
	dir          string
	parsers      string
	maxValues    int
}

func (t *tool) runCommand() *ffcli.Command {
	var rf runFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.String("config", "", "Read flag values from this file")
	for _, name := range []string{"file", "f"} {
		fs.StringVar(&rf.file, name, "", "Fuzz the document in this file instead of generating one")
	}
	for _, name := range []string{"size", "s"} {
		fs.IntVar(&rf.size, name, randjson.DefaultSize, "Approximate size in bytes of a generated document")
	}
	for _, name := range []string{"generation-seed", "g"} {
		fs.Uint64Var(&rf.genSeed, name, 0, "Seed for generating the document (0 means choose one)")
	}
	for _, name := range []string{"mutation-seed", "m"} {
		fs.Uint64Var(&rf.mutSeed, name, 0, "Seed for choosing mutations (0 means choose one)")
	}
	for _, name := range []string{"id", "i"} {
		fs.IntVar(&rf.id, name, 0, "Process identifier used to name output files")
	}
	for _, name := range []string{"max-mutations", "a"} {
		fs.IntVar(&rf.maxMutations, name, jfuzz.DefaultMaxMutations, "Number of fuzzing rounds")
	}
	for _, name := range []string{"precision", "p"} {
		fs.Float64Var(&rf.precision, name, jfuzz.DefaultPrecision, "Relative precision for comparing floating-point values")
	}
	for _, name := range []string{"verbose", "v"} {
		fs.BoolVar(&rf.verbose, name, false, "Log the progress of each round")
	}
	fs.StringVar(&rf.dir, "dir", ".", "Output directory for reports")
	fs.StringVar(&rf.parsers, "parsers", "", "Comma-separated parsers to compare, leader first (default all)")
	fs.IntVar(&rf.maxValues, "max-values", jfuzz.DefaultMaxValues, "Maximum number of events compared per round")

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "jfuzz run [flags]",
		ShortHelp:  "Fuzz the selected parsers",
		LongHelp: strings.TrimSpace(`
Generate a random document, or load one with --file, and compare the selected
parsers on it while applying random mutations. Each divergence is written to
the output directory as a report and a copy of the input.`),
		FlagSet: fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("JFUZZ"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
		},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %q", args)
			}
			return t.run(ctx, rf)
		},
	}
}

func (t *tool) run(ctx context.Context, rf runFlags) error {
	ps, err := selectParsers(rf.parsers)
	if err != nil {
		return err
	}
	doc, err := randjson.New(randjson.Settings{
		Path:           rf.file,
		Size:           rf.size,
		GenerationSeed: rf.genSeed,
		MutationSeed:   rf.mutSeed,
	})
	if err != nil {
		return err
	}
	log, err := t.logger(rf.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	if rf.file != "" {
		fmt.Fprintf(t.out, "file %s, mutation seed %d\n", rf.file, doc.MutationSeed())
	} else {
		fmt.Fprintf(t.out, "generation seed %d, mutation seed %d\n", doc.GenerationSeed(), doc.MutationSeed())
	}
	f := jfuzz.New(doc, jfuzz.Settings{
		ID:           rf.id,
		MaxMutations: rf.maxMutations,
		Precision:    rf.precision,
		MaxValues:    rf.maxValues,
		Dir:          rf.dir,
		Verbose:      rf.verbose,
		Logger:       log,
	})
	for _, p := range ps {
		f.AddParser(p)
	}
	ferr := f.Fuzz(ctx)
	st := f.Stats()
	fmt.Fprintf(t.out, "rounds %d, reports %d, reverts %d, suppressed %d\n",
		st.Rounds, st.Reports, st.Reverts, st.Suppressed)
	return ferr
}

// errDiverged is reported by check when the parsers disagree.
var errDiverged = errors.New("parsers diverged")

func (t *tool) checkCommand() *ffcli.Command {
	var parsers string
	var opts jfuzz.CompareOptions
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.StringVar(&parsers, "parsers", "", "Comma-separated parsers to compare, leader first (default all)")
	fs.Float64Var(&opts.Precision, "precision", jfuzz.DefaultPrecision, "Relative precision for comparing floating-point values")
	fs.IntVar(&opts.MaxValues, "max-values", jfuzz.DefaultMaxValues, "Maximum number of events compared")

	return &ffcli.Command{
		Name:       "check",
		ShortUsage: "jfuzz check [flags] <file>",
		ShortHelp:  "Compare the selected parsers once on a file",
		LongHelp: strings.TrimSpace(`
Parse the file with each selected parser and print the outcome, followed by a
report for each divergence. Known problems are reported but do not count as
failures.`),
		FlagSet: fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: jfuzz check <file>")
			}
			ps, err := selectParsers(parsers)
			if err != nil {
				return err
			}
			doc, err := randjson.New(randjson.Settings{Path: args[0]})
			if err != nil {
				return err
			}
			out, divs := jfuzz.Compare(doc.Bytes(), ps, &opts)
			fmt.Fprintln(t.out, out)

			var failed bool
			for _, d := range divs {
				data, err := jfuzz.NewReport(doc, d).Encode()
				if err != nil {
					return err
				}
				if d.Known {
					fmt.Fprint(t.out, "known problem: ")
				} else if d.Kind != jfuzz.Rejected {
					failed = true
				}
				fmt.Fprintf(t.out, "%s\n", data)
			}
			if failed {
				return errDiverged
			}
			return nil
		},
	}
}

func (t *tool) eventsCommand() *ffcli.Command {
	var parsers string
	var maxEvents int
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.StringVar(&parsers, "parsers", "", "Comma-separated parsers to run (default all)")
	fs.IntVar(&maxEvents, "max", jfuzz.DefaultMaxValues, "Maximum number of events printed per parser")

	return &ffcli.Command{
		Name:       "events",
		ShortUsage: "jfuzz events [flags] <file>",
		ShortHelp:  "Print the events each parser reports for a file",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: jfuzz events <file>")
			}
			ps, err := selectParsers(parsers)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			for _, p := range ps {
				t.printEvents(p.Parse(data), maxEvents)
			}
			return nil
		},
	}
}

// printEvents writes the events of tr, with their values, to t.out.
func (t *tool) printEvents(tr jfuzz.Traverser, max int) {
	fmt.Fprintf(t.out, "%s: %v\n", tr.Parser(), tr.State())
	if ed, ok := tr.(jfuzz.ErrorDetail); ok && ed.ParseError() != nil {
		fmt.Fprintf(t.out, "  %v\n", ed.ParseError())
	}
	if tr.State() != jfuzz.OK {
		return
	}
	cur := tr.Type()
	for i := 0; i < max; i++ {
		if v := eventValue(tr); v != "" {
			fmt.Fprintf(t.out, "  %v %s\n", cur, v)
		} else {
			fmt.Fprintf(t.out, "  %v\n", cur)
		}
		if cur == jfuzz.EndOfDocument {
			break
		}
		cur = tr.Next()
	}
}

// eventValue renders the payload of the current event of tr, or "" if the
// event has none.
func eventValue(tr jfuzz.Traverser) string {
	switch tr.Type() {
	case jfuzz.String, jfuzz.Key:
		return jfuzz.Quote(tr.Text())
	case jfuzz.Integer:
		return strconv.FormatInt(tr.Int64(), 10)
	case jfuzz.Floating:
		return strconv.FormatFloat(tr.Float64(), 'g', -1, 64)
	case jfuzz.Boolean:
		return strconv.FormatBool(tr.Bool())
	}
	return ""
}

func (t *tool) parsersCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "parsers",
		ShortUsage: "jfuzz parsers",
		ShortHelp:  "List the available parsers in their default order",
		Exec: func(context.Context, []string) error {
			for _, name := range backend.Names() {
				fmt.Fprintln(t.out, name)
			}
			return nil
		},
	}
}

// selectParsers resolves a comma-separated list of parser names.
func selectParsers(list string) ([]jfuzz.Parser, error) {
	if list == "" {
		return backend.Default(), nil
	}
	return backend.Select(strings.Split(list, ","))
}
