// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

import (
	"math"
)

// DefaultMaxValues is the default limit on the number of events compared in
// a single value walk.
const DefaultMaxValues = 1024

// DefaultPrecision is the default relative tolerance for comparing
// floating-point values: the difference between successive float64 values
// near 1.
const DefaultPrecision = 2.220446049250313e-16

// FloatsEqual reports whether a and b are equal within the given relative
// precision, that is, whether |a-b| <= precision * max(|a|, |b|).
func FloatsEqual(a, b, precision float64) bool {
	if a == b {
		return true // includes matching infinities
	}
	biggest := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= precision*biggest
}

// CompareOptions are settings for Compare. A nil *CompareOptions provides
// default values.
type CompareOptions struct {
	// The relative precision for floating-point comparison.
	// If zero, DefaultPrecision is used.
	Precision float64

	// The maximum number of events to compare.
	// If zero, DefaultMaxValues is used.
	MaxValues int
}

func (o *CompareOptions) precision() float64 {
	if o == nil || o.Precision <= 0 {
		return DefaultPrecision
	}
	return o.Precision
}

func (o *CompareOptions) maxValues() int {
	if o == nil || o.MaxValues <= 0 {
		return DefaultMaxValues
	}
	return o.MaxValues
}

// Outcome classifies the result of comparing one input.
type Outcome byte

const (
	Agreed       Outcome = iota // every parser accepted the input and agreed on its contents
	StatesDiffer                // some parser accepted what another rejected
	AllFailed                   // every parser rejected the input
	ValuesDiffer                // every parser accepted the input, but the contents differ
)

var outcomeStr = [...]string{
	Agreed:       "agreed",
	StatesDiffer: "states differ",
	AllFailed:    "all failed",
	ValuesDiffer: "values differ",
}

func (o Outcome) String() string {
	if int(o) >= len(outcomeStr) {
		return "unknown"
	}
	return outcomeStr[o]
}

// Kind is the kind of a Divergence.
type Kind byte

const (
	StateMismatch Kind = iota // follower state differs from the leader
	TypeMismatch              // follower event type differs from the leader
	ValueMismatch             // same event type, different payload
	Rejected                  // every parser rejected the input
)

var kindStr = [...]string{
	StateMismatch: "parsing_state",
	TypeMismatch:  "value_type",
	ValueMismatch: "value",
	Rejected:      "rejected",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "unknown"
	}
	return kindStr[k]
}

// A Divergence records one disagreement found by Compare.
type Divergence struct {
	Kind     Kind
	Leader   string // name of the leading parser
	Follower string // name of the disagreeing parser; empty for Rejected
	Index    int    // index of the event in the value walk, or -1

	// Known reports whether some traverser claimed the input as a known
	// problem of its parser. Known divergences should not be reported.
	Known bool

	// Results captures the state of every parser at the point of the
	// divergence, in parser order.
	Results []Result
}

// A Result is a snapshot of one traverser at a divergence.
type Result struct {
	Parser string
	State  State
	Detail string // parse error text, if the parser provided one

	// Type is Error for state-level divergences, which have no current value.
	// Value is populated only for value-level divergences.
	Type  ValueType
	Value any // string, int64, float64, bool, or nil
}

// Compare parses input with each of the parsers, and compares the results of
// each parser to the first ("leader"). It reports the outcome of the
// comparison along with any divergences found. For AllFailed, the result
// contains a single Rejected divergence describing the failure.
//
// If the parsers agree on the parse state and the leader succeeded, Compare
// walks all the traversers in lockstep for up to opts.MaxValues events,
// checking each event type and payload against the leader. Floating-point
// values are compared with FloatsEqual at opts.Precision.
//
// With fewer than two parsers, Compare never reports a divergence.
func Compare(input []byte, parsers []Parser, opts *CompareOptions) (Outcome, []Divergence) {
	if len(parsers) == 0 {
		return Agreed, nil
	}
	ts := make([]Traverser, len(parsers))
	for i, p := range parsers {
		ts[i] = p.Parse(input)
	}
	c := &comparison{input: input, ts: ts}

	lead := ts[0].State()
	for i, t := range ts[1:] {
		if t.State() != lead {
			c.add(StateMismatch, i+1, -1)
		}
	}
	if len(c.divs) != 0 {
		return StatesDiffer, c.divs
	} else if lead == Failed {
		c.add(Rejected, 0, -1)
		return AllFailed, c.divs
	}

	c.walk(opts.maxValues(), opts.precision())
	if len(c.divs) != 0 {
		return ValuesDiffer, c.divs
	}
	return Agreed, nil
}

type comparison struct {
	input []byte
	ts    []Traverser
	divs  []Divergence
	known *bool // cached result of knownProblem
}

// walk advances all the traversers in lockstep, recording divergences from
// the leader. All followers are compared before any traverser advances.
func (c *comparison) walk(maxValues int, precision float64) {
	lead := c.ts[0]
	for idx := 0; idx < maxValues; idx++ {
		cur := lead.Type()
		for i, t := range c.ts[1:] {
			if t.Type() != cur {
				c.add(TypeMismatch, i+1, idx)
			} else if !sameValue(cur, lead, t, precision) {
				c.add(ValueMismatch, i+1, idx)
			}
		}
		if cur == EndOfDocument {
			return
		}
		for _, t := range c.ts {
			t.Next()
		}
	}
}

// sameValue reports whether a and b, which are both positioned on an event of
// type vt, have equal payloads.
func sameValue(vt ValueType, a, b Traverser, precision float64) bool {
	switch vt {
	case String, Key:
		return a.Text() == b.Text()
	case Integer:
		return a.Int64() == b.Int64()
	case Floating:
		return FloatsEqual(a.Float64(), b.Float64(), precision)
	case Boolean:
		return a.Bool() == b.Bool()
	default:
		return true
	}
}

func (c *comparison) add(kind Kind, follower, index int) {
	d := Divergence{
		Kind:    kind,
		Leader:  c.ts[0].Parser(),
		Index:   index,
		Known:   c.knownProblem(),
		Results: snapshot(c.ts, index),
	}
	if kind != Rejected {
		d.Follower = c.ts[follower].Parser()
	}
	c.divs = append(c.divs, d)
}

// knownProblem reports whether any traverser claims the input as a known
// problem. The answer depends only on the input and the parses, so it is
// computed once per comparison.
func (c *comparison) knownProblem() bool {
	if c.known == nil {
		var ok bool
		for _, t := range c.ts {
			if t.KnownProblem(c.input) {
				ok = true
				break
			}
		}
		c.known = &ok
	}
	return *c.known
}

// snapshot captures the current state of each traverser in ts. If index >= 0,
// the current event type and value are included.
func snapshot(ts []Traverser, index int) []Result {
	out := make([]Result, len(ts))
	for i, t := range ts {
		r := Result{Parser: t.Parser(), State: t.State(), Type: Error}
		if ed, ok := t.(ErrorDetail); ok {
			if err := ed.ParseError(); err != nil {
				r.Detail = err.Error()
			}
		}
		if index >= 0 {
			r.Type = t.Type()
			r.Value = currentValue(t)
		}
		out[i] = r
	}
	return out
}

func currentValue(t Traverser) any {
	switch t.Type() {
	case String, Key:
		return t.Text()
	case Integer:
		return t.Int64()
	case Floating:
		return t.Float64()
	case Boolean:
		return t.Bool()
	default:
		return nil
	}
}
