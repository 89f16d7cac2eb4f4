// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// A Source is a mutable input document.
type Source interface {
	// Bytes returns the current contents of the document. The slice is only
	// valid until the next call to Mutate or Revert.
	Bytes() []byte

	// Len returns the length of the document in bytes.
	Len() int

	// Mutate applies one pseudo-random edit to the document.
	Mutate()

	// Revert undoes the most recent call to Mutate.
	Revert()

	// Save writes the current contents of the document to path.
	Save(path string) error

	GenerationSeed() uint64
	MutationSeed() uint64

	// Mutations reports the number of times Mutate has been called.
	// Zero means the document is exactly as generated or loaded.
	Mutations() int

	// Provenance reports where the document came from.
	Provenance() Provenance
}

// ProvenanceKind records how a document was created.
type ProvenanceKind byte

const (
	FromSeed ProvenanceKind = iota // generated from a random seed
	FromFile                       // loaded from a file
)

// Provenance describes the origin of a document.
type Provenance struct {
	Kind ProvenanceKind
	Seed uint64 // for FromSeed
	Path string // for FromFile
}

// ErrGeneratorDefect is reported by Fuzz when the parsers disagree about a
// document to which no mutations have been applied. This indicates a problem
// with the document itself, so there is no mutation to blame or revert.
var ErrGeneratorDefect = errors.New("divergence on unmutated document")

// DefaultMaxMutations is the default number of rounds in a fuzzing run.
const DefaultMaxMutations = 10000

// Settings are configuration values for a Fuzzer.
type Settings struct {
	// An identifier for this process, used to name output files so that
	// several processes can share an output directory.
	ID int

	// The number of rounds to run. If zero, DefaultMaxMutations is used.
	MaxMutations int

	// The relative precision for floating-point comparison.
	// If zero, DefaultPrecision is used.
	Precision float64

	// The maximum number of events compared per round.
	// If zero, DefaultMaxValues is used.
	MaxValues int

	// The directory where reports and snapshots are written.
	// If empty, the current working directory is used.
	Dir string

	// If true, log the progress of each round.
	Verbose bool

	// If non-nil, write log output here. If nil, logs are discarded.
	Logger *zap.Logger
}

func (s Settings) maxMutations() int {
	if s.MaxMutations <= 0 {
		return DefaultMaxMutations
	}
	return s.MaxMutations
}

// Stats are counters describing the progress of a fuzzing run.
type Stats struct {
	Rounds     int // comparison rounds completed
	Reverts    int // mutations reverted after a divergence or uniform failure
	Reports    int // reports written
	Suppressed int // divergences dropped as known problems
}

// A Fuzzer compares the output of several parsers on a mutating document.
type Fuzzer struct {
	src     Source
	parsers []Parser
	set     Settings
	opts    CompareOptions
	log     *zap.Logger
	rep     Reporter
	stats   Stats
}

// New constructs a Fuzzer that reads documents from src. Add parsers with
// AddParser before calling Fuzz.
func New(src Source, set Settings) *Fuzzer {
	log := set.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Fuzzer{
		src: src,
		set: set,
		opts: CompareOptions{
			Precision: set.Precision,
			MaxValues: set.MaxValues,
		},
		log: log.With(zap.Int("id", set.ID)),
		rep: Reporter{Dir: set.Dir, ID: set.ID},
	}
}

// AddParser adds p to the parsers compared by f. The first parser added is
// the leader, against which all the others are compared.
func (f *Fuzzer) AddParser(p Parser) { f.parsers = append(f.parsers, p) }

// Stats returns the current counters for f.
func (f *Fuzzer) Stats() Stats { return f.stats }

// Fuzz runs the configured number of rounds. Each round compares the parsers
// on the current document and then mutates it. Every divergence that is not a
// known problem is reported. If the parsers disagree about whether the
// document is valid, or all of them reject it, the mutation that caused it is
// reverted.
//
// Before each round the current document is saved to a temporary file in the
// output directory, so that the input survives if a parser crashes the
// process. The file is removed when Fuzz returns without error.
//
// Fuzz returns an error wrapping ErrGeneratorDefect if the parsers disagree
// about the validity of the original document, or if none of them accepts
// it; in either case the divergence is reported first. A disagreement that is
// a known problem is not a defect. Fuzz checks ctx between rounds,
// and returns its error if it ends.
func (f *Fuzzer) Fuzz(ctx context.Context) error {
	if f.src.Provenance().Kind == FromFile {
		f.log.Info("fuzzing document", zap.String("file", f.src.Provenance().Path),
			zap.Uint64("mutationSeed", f.src.MutationSeed()))
	} else {
		f.log.Info("fuzzing document", zap.Uint64("seed", f.src.GenerationSeed()),
			zap.Uint64("mutationSeed", f.src.MutationSeed()))
	}
	tmp := filepath.Join(f.set.Dir, "temp-"+strconv.Itoa(f.set.ID)+".json")
	for i := 0; i < f.set.maxMutations(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.src.Save(tmp); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if err := f.round(); err != nil {
			return err
		}
		if f.set.Verbose {
			f.log.Info("mutation", zap.Int("round", i), zap.Int("size", f.src.Len()))
		}
		f.src.Mutate()
	}
	f.log.Info("fuzzing complete",
		zap.Int("rounds", f.stats.Rounds),
		zap.Int("reverts", f.stats.Reverts),
		zap.Int("reports", f.stats.Reports),
		zap.Int("suppressed", f.stats.Suppressed),
	)
	return os.Remove(tmp)
}

// round runs one comparison of the parsers on the current document.
func (f *Fuzzer) round() error {
	defer func() { f.stats.Rounds++ }()

	out, divs := Compare(f.src.Bytes(), f.parsers, &f.opts)
	switch out {
	case Agreed:
		return nil

	case StatesDiffer:
		// Each state report records every parser, so one suffices.
		n, err := f.report(divs[:1])
		if err != nil {
			return err
		}
		if f.src.Mutations() == 0 {
			// There is no mutation to blame, so the fault lies with the
			// document itself, unless the divergence is a known problem.
			if n == 0 {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrGeneratorDefect, out)
		}
		f.revert()

	case AllFailed:
		// Uniform failure is only interesting if the generated document is
		// itself malformed, which ends the run.
		if f.src.Mutations() == 0 {
			if _, err := f.report(divs); err != nil {
				return err
			}
			return fmt.Errorf("%w: %v", ErrGeneratorDefect, out)
		}
		f.revert()

	case ValuesDiffer:
		// Value divergences are reported, and the mutation is kept.
		if _, err := f.report(divs); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fuzzer) revert() {
	if f.set.Verbose {
		f.log.Info("revert", zap.Int("mutations", f.src.Mutations()))
	}
	f.src.Revert()
	f.stats.Reverts++
}

// report writes a report for each divergence in divs that is not a known
// problem, and returns the number of reports written.
func (f *Fuzzer) report(divs []Divergence) (int, error) {
	var n int
	for _, d := range divs {
		if d.Known {
			f.stats.Suppressed++
			f.log.Debug("suppressed known problem",
				zap.Stringer("kind", d.Kind), zap.String("follower", d.Follower))
			continue
		}
		path, err := f.rep.Write(NewReport(f.src, d), f.src.Bytes())
		if err != nil {
			return n, fmt.Errorf("write report: %w", err)
		}
		n++
		f.stats.Reports++
		f.log.Info("report",
			zap.Stringer("kind", d.Kind),
			zap.String("leader", d.Leader),
			zap.String("follower", d.Follower),
			zap.Int("index", d.Index),
			zap.String("path", path),
		)
	}
	return n, nil
}
