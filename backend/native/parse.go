// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package native

import (
	"errors"
	"fmt"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/internal/escape"
	"github.com/creachadair/jfuzz/internal/jstream"

	"go4.org/mem"
)

// Decode parses src, which must contain exactly one JSON value, and returns
// its syntax tree. In case of a syntax error, the returned error has type
// [*jstream.SyntaxError].
func Decode(src []byte) (Value, error) {
	h := new(parseHandler)
	if err := jstream.NewStream(src).Parse(h); err != nil {
		return nil, err
	}
	if len(h.stk) != 1 {
		return nil, errors.New("incomplete value")
	}
	return h.stk[0], nil
}

// A parseHandler implements the jstream.Handler interface to construct
// syntax trees for JSON values.
type parseHandler struct {
	stk []Value
	mem []*Member // members awaiting their values, innermost last
}

// reduce closes the container atop the stack. The outermost value remains on
// the stack as the result.
func (h *parseHandler) reduce() error {
	if len(h.stk) > 1 {
		return h.reduceValue(h.pop())
	}
	return nil
}

func (h *parseHandler) reduceValue(v Value) error {
	if len(h.stk) == 0 {
		h.push(v)
		return nil
	}
	switch prev := h.top().(type) {
	case *Object:
		m := h.mem[len(h.mem)-1]
		m.Value = v
	case *Array:
		prev.Values = append(prev.Values, v)
	default:
		return fmt.Errorf("unexpected value after %T", prev)
	}
	return nil
}

func (h *parseHandler) top() Value { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() Value {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v Value) { h.stk = append(h.stk, v) }

func (h *parseHandler) BeginObject(loc jstream.Anchor) error {
	h.push(new(Object))
	return nil
}

func (h *parseHandler) EndObject(loc jstream.Anchor) error { return h.reduce() }

func (h *parseHandler) BeginArray(loc jstream.Anchor) error {
	h.push(new(Array))
	return nil
}

func (h *parseHandler) EndArray(loc jstream.Anchor) error { return h.reduce() }

func (h *parseHandler) BeginMember(loc jstream.Anchor) error {
	// The object this member belongs to is atop the stack. Add the member to
	// it eagerly, so that when its value is known only the value is needed.
	key, err := unquote(loc.Text())
	if err != nil {
		return err
	}
	m := &Member{Key: key}
	obj := h.top().(*Object)
	obj.Members = append(obj.Members, m)
	h.mem = append(h.mem, m)
	return nil
}

func (h *parseHandler) EndMember(loc jstream.Anchor) error {
	h.mem = h.mem[:len(h.mem)-1]
	return nil
}

func (h *parseHandler) Value(loc jstream.Anchor) error {
	switch loc.Token() {
	case jstream.String:
		s, err := unquote(loc.Text())
		if err != nil {
			return err
		}
		return h.reduceValue(String{Value: s})
	case jstream.Integer, jstream.Number:
		vt, z, f := jfuzz.ParseNumber(string(loc.Text()))
		if vt == jfuzz.Integer {
			return h.reduceValue(Integer{Value: z})
		}
		return h.reduceValue(Number{Value: f})
	case jstream.True, jstream.False:
		return h.reduceValue(Bool{Value: loc.Token() == jstream.True})
	case jstream.Null:
		return h.reduceValue(Null{})
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
}

func (h *parseHandler) EndOfInput(loc jstream.Anchor) {}

// unquote decodes the text of a quoted string token.
func unquote(text []byte) (string, error) {
	dec, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
