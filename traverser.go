// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

// A Traverser is a forward-only cursor over one parsed document. It presents
// the document as a flat pre-order sequence of events, regardless of how the
// underlying parser represents it.
//
// A fresh traverser is positioned on the root value. Each call to Next moves
// one step and returns the new current type:
//
//   - On Object or Array, Next descends into the container. The next event is
//     the first Key (for an object), the first element (for an array), or
//     EndOfContainer if the container is empty.
//   - On a scalar or a Key, Next moves to the next event of the enclosing
//     container, or EndOfContainer if none remain. Within an object, each
//     member is reported as a Key followed by its value.
//   - On EndOfContainer, Next resumes in the parent container, or reports
//     EndOfDocument if there is no parent.
//   - On EndOfDocument, Next returns EndOfDocument.
//
// The typed accessors are defined only when Type reports the matching type.
// Text is valid for both String and Key. Calling an accessor for a different
// type is a programming error and the result is unspecified.
type Traverser interface {
	// Parser returns the name of the parser that produced the traverser.
	Parser() string

	// State reports whether the parse succeeded.
	State() State

	// Type reports the type of the current event.
	Type() ValueType

	// Next advances to the next event and returns its type.
	Next() ValueType

	Text() string
	Int64() int64
	Float64() float64
	Bool() bool

	// KnownProblem reports whether a divergence involving this traverser on
	// the given input is an already-understood quirk of its parser, so that
	// it should not be reported.
	KnownProblem(input []byte) bool
}

// A Parser constructs traversers from raw input.
type Parser interface {
	// Name returns a unique human-readable name for the parser.
	Name() string

	// Parse parses input and returns a traverser positioned at the root of
	// the document. If parsing fails, Parse must return a traverser whose
	// State is Failed, such as the one returned by Invalid. Parse must not
	// retain input after it returns.
	Parse(input []byte) Traverser
}

// Header carries the name and state shared by all traversers. Embed a Header
// in a concrete traverser to provide the Parser, State, and KnownProblem
// methods. The default KnownProblem reports false.
type Header struct {
	name  string
	state State
}

// NewHeader constructs a Header for the given parser name and state.
func NewHeader(name string, state State) Header { return Header{name: name, state: state} }

// Parser implements part of the Traverser interface.
func (h Header) Parser() string { return h.name }

// State implements part of the Traverser interface.
func (h Header) State() State { return h.state }

// KnownProblem implements part of the Traverser interface.
func (h Header) KnownProblem([]byte) bool { return false }

// An ErrorDetail is implemented by traversers that can describe why their
// parse failed. The detail is recorded in reports but never compared.
type ErrorDetail interface {
	ParseError() error
}

// Invalid returns a traverser for a failed parse by the named parser.
func Invalid(name string) Traverser { return invalid{Header: NewHeader(name, Failed)} }

// InvalidErr is as Invalid, but records err as the reason for the failure.
func InvalidErr(name string, err error) Traverser {
	return invalid{Header: NewHeader(name, Failed), err: err}
}

// invalid is the traverser for a failed parse. Its accessors return zero
// values and Next does not move.
type invalid struct {
	Header
	err error
}

func (invalid) Type() ValueType     { return Error }
func (invalid) Next() ValueType     { return Error }
func (invalid) Text() string        { return "" }
func (invalid) Int64() int64        { return 0 }
func (invalid) Float64() float64    { return 0 }
func (invalid) Bool() bool          { return false }
func (v invalid) ParseError() error { return v.err }

// Events returns the sequence of event types reported by t, starting with its
// current type and ending with EndOfDocument or Error. At most max events are
// returned; if max <= 0, DefaultMaxValues is used.
func Events(t Traverser, max int) []ValueType {
	if max <= 0 {
		max = DefaultMaxValues
	}
	var out []ValueType
	for cur := t.Type(); len(out) < max; cur = t.Next() {
		out = append(out, cur)
		if cur == EndOfDocument || cur == Error {
			break
		}
	}
	return out
}
