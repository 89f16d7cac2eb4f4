// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package stdjson implements a jfuzz parser backend over the token stream of
// the standard library's encoding/json decoder.
//
// The tokens are recorded on a flat tape of events as they are read, so the
// traverser is a cursor over a slice and keeps no container stack.
package stdjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/internal/escape"
	"go4.org/mem"
)

// Name is the registered name of this backend.
const Name = "stdjson"

// Parser is a jfuzz.Parser for the stdjson backend.
type Parser struct{}

// Name implements part of the jfuzz.Parser interface.
func (Parser) Name() string { return Name }

// Parse implements part of the jfuzz.Parser interface.
func (Parser) Parse(input []byte) jfuzz.Traverser {
	tape, err := record(input)
	if err != nil {
		return jfuzz.InvalidErr(Name, err)
	}
	return &Traverser{Header: jfuzz.NewHeader(Name, jfuzz.OK), tape: tape}
}

// An event is one entry on the tape.
type event struct {
	typ  jfuzz.ValueType
	text string // for String and Key
	z    int64
	f    float64
	b    bool
}

// An open tracks a container that has been entered but not closed.
type open struct {
	obj bool // whether the container is an object
	key bool // whether the next string in the object is a key
}

// record decodes input into a tape of events ending with EndOfDocument.
// Input must contain exactly one value.
func record(input []byte) ([]event, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var tape []event
	var stk []open

	// The decoder reports keys and string values alike, so the traverser
	// tracks which one is due in each open object.
	valueDone := func() {
		if n := len(stk); n != 0 && stk[n-1].obj {
			stk[n-1].key = true
		}
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("incomplete value: %w", io.ErrUnexpectedEOF)
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				tape = append(tape, event{typ: jfuzz.Object})
				stk = append(stk, open{obj: true, key: true})
			case '[':
				tape = append(tape, event{typ: jfuzz.Array})
				stk = append(stk, open{})
			default: // '}' or ']'
				tape = append(tape, event{typ: jfuzz.EndOfContainer})
				stk = stk[:len(stk)-1]
				valueDone()
			}
		case string:
			if n := len(stk); n != 0 && stk[n-1].obj && stk[n-1].key {
				tape = append(tape, event{typ: jfuzz.Key, text: t})
				stk[n-1].key = false
			} else {
				tape = append(tape, event{typ: jfuzz.String, text: t})
				valueDone()
			}
		case json.Number:
			vt, z, f := jfuzz.ParseNumber(t.String())
			tape = append(tape, event{typ: vt, z: z, f: f})
			valueDone()
		case bool:
			tape = append(tape, event{typ: jfuzz.Boolean, b: t})
			valueDone()
		case nil:
			tape = append(tape, event{typ: jfuzz.Null})
			valueDone()
		default:
			return nil, fmt.Errorf("unexpected token %T", tok)
		}

		if len(stk) == 0 {
			break // the root value is complete
		}
	}

	// Nothing but whitespace may follow the root value.
	if tok, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("unexpected %v after top-level value", tok)
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return append(tape, event{typ: jfuzz.EndOfDocument}), nil
}

// A Traverser is a cursor over a recorded tape.
type Traverser struct {
	jfuzz.Header

	tape []event
	pos  int
}

// Type implements part of the jfuzz.Traverser interface.
func (t *Traverser) Type() jfuzz.ValueType { return t.tape[t.pos].typ }

// Next implements part of the jfuzz.Traverser interface.
func (t *Traverser) Next() jfuzz.ValueType {
	if t.pos < len(t.tape)-1 {
		t.pos++
	}
	return t.Type()
}

// Text implements part of the jfuzz.Traverser interface.
func (t *Traverser) Text() string { return t.tape[t.pos].text }

// Int64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Int64() int64 { return t.tape[t.pos].z }

// Float64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Float64() float64 { return t.tape[t.pos].f }

// Bool implements part of the jfuzz.Traverser interface.
func (t *Traverser) Bool() bool { return t.tape[t.pos].b }

// KnownProblem reports whether input is not valid UTF-8 or escapes an
// unpaired surrogate. The encoding/json decoder accepts both and replaces
// them with U+FFFD.
func (t *Traverser) KnownProblem(input []byte) bool {
	return !utf8.Valid(input) || escape.HasLoneSurrogate(mem.B(input))
}
