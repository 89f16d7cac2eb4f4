// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jsontext implements a jfuzz parser backend over the streaming
// decoder of github.com/go-json-experiment/json/jsontext.
//
// The decoder is strict about RFC 8259 and rejects invalid UTF-8. Duplicate
// object names are permitted, since the other backends accept them.
package jsontext

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jfuzz"
	"github.com/go-json-experiment/json/jsontext"
)

// Name is the registered name of this backend.
const Name = "jsontext"

// Parser is a jfuzz.Parser for the jsontext backend.
type Parser struct{}

// Name implements part of the jfuzz.Parser interface.
func (Parser) Name() string { return Name }

// Parse implements part of the jfuzz.Parser interface.
func (Parser) Parse(input []byte) jfuzz.Traverser {
	root, err := decode(input)
	if err != nil {
		return jfuzz.InvalidErr(Name, err)
	}
	return &Traverser{
		Header: jfuzz.NewHeader(Name, jfuzz.OK),
		typ:    root.typ,
		cur:    root,
	}
}

// A node is a decoded JSON value.
type node struct {
	typ   jfuzz.ValueType
	text  string // string value
	z     int64
	f     float64
	b     bool
	names []string // object member names, parallel to kids
	kids  []*node
}

// decode reads exactly one JSON value from input.
func decode(input []byte) (*node, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(input), jsontext.AllowDuplicateNames(true))

	var root *node
	var stk []*node
	var name *string // pending object member name
	add := func(n *node) {
		if len(stk) == 0 {
			root = n
			return
		}
		top := stk[len(stk)-1]
		if top.typ == jfuzz.Object {
			top.names = append(top.names, *name)
			name = nil
		}
		top.kids = append(top.kids, n)
	}

	for {
		// Numbers are read as raw values so their text can be classified;
		// the decoder would otherwise report only the float64 value.
		if dec.PeekKind() == '0' {
			v, err := dec.ReadValue()
			if err != nil {
				return nil, err
			}
			vt, z, f := jfuzz.ParseNumber(string(v))
			add(&node{typ: vt, z: z, f: f})
		} else {
			tok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			switch k := tok.Kind(); k {
			case '{', '[':
				n := &node{typ: jfuzz.Object}
				if k == '[' {
					n.typ = jfuzz.Array
				}
				add(n)
				stk = append(stk, n)
			case '}', ']':
				stk = stk[:len(stk)-1]
			case '"':
				s := tok.String()
				if top := len(stk) - 1; top >= 0 && stk[top].typ == jfuzz.Object && name == nil {
					name = &s
				} else {
					add(&node{typ: jfuzz.String, text: s})
				}
			case 't', 'f':
				add(&node{typ: jfuzz.Boolean, b: tok.Bool()})
			case 'n':
				add(&node{typ: jfuzz.Null})
			default:
				return nil, fmt.Errorf("unexpected token kind %v", k)
			}
		}
		if len(stk) == 0 {
			break // the root value is complete
		}
	}

	// Nothing but whitespace may follow the root value.
	if _, err := dec.ReadToken(); err == nil {
		return nil, errors.New("unexpected data after top-level value")
	} else if err != io.EOF {
		return nil, err
	}
	return root, nil
}

// A frame records the progress of the traversal through one container.
type frame struct {
	n   *node
	pos int
}

// A Traverser walks a decoded value in pre-order.
type Traverser struct {
	jfuzz.Header

	stk []frame
	typ jfuzz.ValueType
	cur *node  // the current value, or the value of the current key
	key string // the current key, when typ == jfuzz.Key
}

// Type implements part of the jfuzz.Traverser interface.
func (t *Traverser) Type() jfuzz.ValueType { return t.typ }

// Next implements part of the jfuzz.Traverser interface.
func (t *Traverser) Next() jfuzz.ValueType {
	switch t.typ {
	case jfuzz.EndOfDocument:
	case jfuzz.Object, jfuzz.Array:
		t.stk = append(t.stk, frame{n: t.cur})
		t.advance()
	case jfuzz.Key:
		t.typ = t.cur.typ
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
	if f.pos >= len(f.n.kids) {
		t.stk = t.stk[:len(t.stk)-1]
		t.typ, t.cur = jfuzz.EndOfContainer, nil
		return
	}
	t.cur = f.n.kids[f.pos]
	if f.n.typ == jfuzz.Object {
		t.typ, t.key = jfuzz.Key, f.n.names[f.pos]
	} else {
		t.typ = t.cur.typ
	}
	f.pos++
}

// Text implements part of the jfuzz.Traverser interface.
func (t *Traverser) Text() string {
	if t.typ == jfuzz.Key {
		return t.key
	} else if t.cur == nil {
		return ""
	}
	return t.cur.text
}

// Int64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Int64() int64 { return t.scalar().z }

// Float64 implements part of the jfuzz.Traverser interface.
func (t *Traverser) Float64() float64 { return t.scalar().f }

// Bool implements part of the jfuzz.Traverser interface.
func (t *Traverser) Bool() bool { return t.scalar().b }

var zero node

// scalar returns the current node, or a zero node if there is none.
func (t *Traverser) scalar() *node {
	if t.cur == nil || t.typ == jfuzz.Key {
		return &zero
	}
	return t.cur
}
