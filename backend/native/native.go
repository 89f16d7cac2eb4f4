// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package native implements a jfuzz parser backend over the in-house strict
// stream parser. Documents are decoded into a syntax tree, which the
// traverser walks with an explicit stack of container frames.
package native

import (
	"fmt"
	"unicode/utf8"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/internal/escape"
	"go4.org/mem"
)

// Name is the registered name of this backend.
const Name = "native"

// Parser is a jfuzz.Parser for the native backend.
type Parser struct{}

// Name implements part of the jfuzz.Parser interface.
func (Parser) Name() string { return Name }

// Parse implements part of the jfuzz.Parser interface.
func (Parser) Parse(input []byte) jfuzz.Traverser {
	root, err := Decode(input)
	if err != nil {
		return jfuzz.InvalidErr(Name, err)
	}
	return NewTraverser(root)
}

// A frame records the progress of the traversal through one container.
type frame struct {
	obj *Object
	arr *Array
	pos int // index of the next member or element
}

// A Traverser walks a syntax tree in pre-order. The typed accessors panic if
// the current event does not have the matching type.
type Traverser struct {
	jfuzz.Header

	stk []frame
	typ jfuzz.ValueType
	cur Value  // the current value, or the value of the current key
	key string // the current key, when typ == jfuzz.Key
}

// NewTraverser constructs a traverser positioned on root.
func NewTraverser(root Value) *Traverser {
	return &Traverser{
		Header: jfuzz.NewHeader(Name, jfuzz.OK),
		typ:    root.Type(),
		cur:    root,
	}
}

// Type implements part of the jfuzz.Traverser interface.
func (t *Traverser) Type() jfuzz.ValueType { return t.typ }

// Next implements part of the jfuzz.Traverser interface.
func (t *Traverser) Next() jfuzz.ValueType {
	switch t.typ {
	case jfuzz.EndOfDocument:
		// no change
	case jfuzz.Object:
		t.stk = append(t.stk, frame{obj: t.cur.(*Object)})
		t.advance()
	case jfuzz.Array:
		t.stk = append(t.stk, frame{arr: t.cur.(*Array)})
		t.advance()
	case jfuzz.Key:
		t.typ = t.cur.Type()
	default:
		if len(t.stk) == 0 {
			t.typ, t.cur = jfuzz.EndOfDocument, nil
		} else {
			t.advance()
		}
	}
	return t.typ
}

// advance moves to the next event of the innermost open container. When the
// container is exhausted its frame is popped.
func (t *Traverser) advance() {
	f := &t.stk[len(t.stk)-1]
	if f.obj != nil && f.pos < len(f.obj.Members) {
		m := f.obj.Members[f.pos]
		f.pos++
		t.typ, t.cur, t.key = jfuzz.Key, m.Value, m.Key
		return
	} else if f.arr != nil && f.pos < len(f.arr.Values) {
		t.cur = f.arr.Values[f.pos]
		f.pos++
		t.typ = t.cur.Type()
		return
	}
	t.stk = t.stk[:len(t.stk)-1]
	t.typ, t.cur = jfuzz.EndOfContainer, nil
}

func (t *Traverser) check(want jfuzz.ValueType) {
	if t.typ != want && !(want == jfuzz.String && t.typ == jfuzz.Key) {
		panic(fmt.Sprintf("native: %v accessor called on %v", want, t.typ))
	}
}

// Text implements part of the jfuzz.Traverser interface.
func (t *Traverser) Text() string {
	t.check(jfuzz.String)
	if t.typ == jfuzz.Key {
		return t.key
	}
	return t.cur.(String).Value
}

// Int64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Int64() int64 { t.check(jfuzz.Integer); return t.cur.(Integer).Value }

// Float64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Float64() float64 { t.check(jfuzz.Floating); return t.cur.(Number).Value }

// Bool implements part of the jfuzz.Traverser interface.
func (t *Traverser) Bool() bool { t.check(jfuzz.Boolean); return t.cur.(Bool).Value }

// KnownProblem reports whether input is not valid UTF-8 or escapes an
// unpaired surrogate. The native parser accepts both, replacing an unpaired
// surrogate with U+FFFD, where strict parsers reject the document.
func (t *Traverser) KnownProblem(input []byte) bool {
	return !utf8.Valid(input) || escape.HasLoneSurrogate(mem.B(input))
}
