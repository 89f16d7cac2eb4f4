// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package hujson implements a jfuzz parser backend over the syntax tree of
// github.com/tailscale/hujson.
//
// HuJSON extends JSON with comments and trailing commas, so this backend
// accepts some documents that strict parsers reject. Such inputs are known
// problems, detected with Value.IsStandard.
package hujson

import (
	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/internal/escape"
	"github.com/tailscale/hujson"
	"go4.org/mem"
)

// Name is the registered name of this backend.
const Name = "hujson"

// Parser is a jfuzz.Parser for the hujson backend.
type Parser struct{}

// Name implements part of the jfuzz.Parser interface.
func (Parser) Name() string { return Name }

// Parse implements part of the jfuzz.Parser interface.
func (Parser) Parse(input []byte) jfuzz.Traverser {
	// Literals in the tree alias their input, which must not be retained.
	root, err := hujson.Parse(append([]byte(nil), input...))
	if err != nil {
		return jfuzz.InvalidErr(Name, err)
	}
	t := &Traverser{
		Header:   jfuzz.NewHeader(Name, jfuzz.OK),
		standard: root.IsStandard(),
	}
	t.load(root.Value)
	return t
}

// A frame records the progress of the traversal through one container.
// Exactly one of obj and arr is set.
type frame struct {
	obj *hujson.Object
	arr *hujson.Array
	pos int
}

// A Traverser walks a HuJSON syntax tree in pre-order.
type Traverser struct {
	jfuzz.Header
	standard bool

	stk  []frame
	typ  jfuzz.ValueType
	cur  hujson.ValueTrimmed // the current value, or the value of the current key
	next hujson.ValueTrimmed // the member value following the current key

	// Decoded payload of the current scalar or key.
	text string
	z    int64
	f    float64
}

// load positions t on v and decodes its payload.
func (t *Traverser) load(v hujson.ValueTrimmed) {
	t.cur = v
	switch v := v.(type) {
	case *hujson.Object:
		t.typ = jfuzz.Object
	case *hujson.Array:
		t.typ = jfuzz.Array
	case hujson.Literal:
		switch v.Kind() {
		case '"':
			t.typ, t.text = jfuzz.String, v.String()
		case '0':
			t.typ, t.z, t.f = jfuzz.ParseNumber(string(v))
		case 't', 'f':
			t.typ = jfuzz.Boolean
		case 'n':
			t.typ = jfuzz.Null
		default:
			t.typ = jfuzz.Error
		}
	default:
		t.typ = jfuzz.Error
	}
}

// Type implements part of the jfuzz.Traverser interface.
func (t *Traverser) Type() jfuzz.ValueType { return t.typ }

// Next implements part of the jfuzz.Traverser interface.
func (t *Traverser) Next() jfuzz.ValueType {
	switch t.typ {
	case jfuzz.EndOfDocument, jfuzz.Error:
	case jfuzz.Object:
		t.stk = append(t.stk, frame{obj: t.cur.(*hujson.Object)})
		t.advance()
	case jfuzz.Array:
		t.stk = append(t.stk, frame{arr: t.cur.(*hujson.Array)})
		t.advance()
	case jfuzz.Key:
		t.load(t.next)
	default:
		if len(t.stk) == 0 {
			t.typ, t.cur = jfuzz.EndOfDocument, nil
		} else {
			t.advance()
		}
	}
	return t.typ
}

func (t *Traverser) advance() {
	f := &t.stk[len(t.stk)-1]
	switch {
	case f.obj != nil && f.pos < len(f.obj.Members):
		m := f.obj.Members[f.pos]
		f.pos++
		t.typ, t.cur, t.next = jfuzz.Key, m.Name.Value, m.Value.Value
		t.text = m.Name.Value.(hujson.Literal).String()
	case f.arr != nil && f.pos < len(f.arr.Elements):
		e := f.arr.Elements[f.pos]
		f.pos++
		t.load(e.Value)
	default:
		t.stk = t.stk[:len(t.stk)-1]
		t.typ, t.cur = jfuzz.EndOfContainer, nil
	}
}

// Text implements part of the jfuzz.Traverser interface.
func (t *Traverser) Text() string { return t.text }

// Int64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Int64() int64 { return t.z }

// Float64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Float64() float64 { return t.f }

// Bool implements part of the jfuzz.Traverser interface.
func (t *Traverser) Bool() bool {
	lit, ok := t.cur.(hujson.Literal)
	return ok && lit.Bool()
}

// KnownProblem reports whether the parsed document used HuJSON extensions,
// such as comments or trailing commas, that standard JSON does not allow.
// An escaped unpaired surrogate is also a known problem, since hujson accepts
// it where strict parsers do not.
func (t *Traverser) KnownProblem(input []byte) bool {
	return !t.standard || escape.HasLoneSurrogate(mem.B(input))
}
