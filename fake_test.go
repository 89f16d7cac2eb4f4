// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz_test

import (
	"os"

	"github.com/creachadair/jfuzz"
)

// An event is one step of a scripted traversal.
type event struct {
	typ jfuzz.ValueType
	val any
}

// A script is a jfuzz.Parser that ignores its input and reports a fixed
// sequence of events, or a failure.
type script struct {
	name   string
	fail   bool
	known  bool
	events []event // EndOfDocument is implied at the end

	nexts *int // if non-nil, counts calls to Next
}

func (s script) Name() string { return s.name }

func (s script) Parse([]byte) jfuzz.Traverser {
	state := jfuzz.OK
	if s.fail {
		state = jfuzz.Failed
	}
	return &scripted{Header: jfuzz.NewHeader(s.name, state), s: s}
}

type scripted struct {
	jfuzz.Header
	s   script
	pos int
}

func (t *scripted) cur() event {
	if t.s.fail {
		return event{typ: jfuzz.Error}
	} else if t.pos >= len(t.s.events) {
		return event{typ: jfuzz.EndOfDocument}
	}
	return t.s.events[t.pos]
}

func (t *scripted) Type() jfuzz.ValueType { return t.cur().typ }

func (t *scripted) Next() jfuzz.ValueType {
	if t.s.nexts != nil {
		*t.s.nexts++
	}
	if t.pos < len(t.s.events) {
		t.pos++
	}
	return t.Type()
}

func (t *scripted) Text() string               { s, _ := t.cur().val.(string); return s }
func (t *scripted) Int64() int64               { z, _ := t.cur().val.(int64); return z }
func (t *scripted) Float64() float64           { f, _ := t.cur().val.(float64); return f }
func (t *scripted) Bool() bool                 { b, _ := t.cur().val.(bool); return b }
func (t *scripted) KnownProblem(_ []byte) bool { return t.s.known }

// A wrapped parser delegates to a base parser under a different name, and
// can be made to fail, rewrite its input, or claim known problems.
type wrapped struct {
	name  string
	base  jfuzz.Parser
	fail  func([]byte) bool   // if set and true, the parse fails
	edit  func([]byte) []byte // if set, rewrites the input before parsing
	known func([]byte) bool   // if set, the known-problem predicate
}

func (w wrapped) Name() string { return w.name }

func (w wrapped) Parse(input []byte) jfuzz.Traverser {
	if w.fail != nil && w.fail(input) {
		return wrappedTraverser{Traverser: jfuzz.Invalid(w.name), w: w}
	}
	if w.edit != nil {
		input = w.edit(input)
	}
	return wrappedTraverser{Traverser: w.base.Parse(input), w: w}
}

type wrappedTraverser struct {
	jfuzz.Traverser
	w wrapped
}

func (t wrappedTraverser) Parser() string { return t.w.name }

func (t wrappedTraverser) KnownProblem(input []byte) bool {
	return t.w.known != nil && t.w.known(input)
}

// A fakeSource is a jfuzz.Source that steps through a fixed list of
// documents. Each mutation moves to the next document (staying on the last),
// and each revert moves back one.
type fakeSource struct {
	docs    []string
	pos     int
	nmut    int
	reverts int
}

func (f *fakeSource) Bytes() []byte { return []byte(f.docs[f.pos]) }
func (f *fakeSource) Len() int      { return len(f.docs[f.pos]) }

func (f *fakeSource) Mutate() {
	f.nmut++
	if f.pos < len(f.docs)-1 {
		f.pos++
	}
}

func (f *fakeSource) Revert() {
	f.reverts++
	if f.pos > 0 {
		f.pos--
	}
}

func (f *fakeSource) Save(path string) error { return os.WriteFile(path, f.Bytes(), 0600) }
func (f *fakeSource) GenerationSeed() uint64 { return 12345 }
func (f *fakeSource) MutationSeed() uint64   { return 678 }
func (f *fakeSource) Mutations() int         { return f.nmut }

func (f *fakeSource) Provenance() jfuzz.Provenance {
	return jfuzz.Provenance{Kind: jfuzz.FromSeed, Seed: 12345}
}
