// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package native

import "github.com/creachadair/jfuzz"

// A Value is an arbitrary JSON value in a syntax tree.
type Value interface {
	Type() jfuzz.ValueType
}

// An Object is a collection of key-value members, in input order.
type Object struct {
	Members []*Member
}

// Type satisfies the Value interface.
func (*Object) Type() jfuzz.ValueType { return jfuzz.Object }

// A Member is a single key-value pair belonging to an Object.
// Its key is stored decoded.
type Member struct {
	Key   string
	Value Value
}

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// Type satisfies the Value interface.
func (*Array) Type() jfuzz.ValueType { return jfuzz.Array }

// An Integer is a number with no fraction or exponent that fits in an int64.
type Integer struct{ Value int64 }

// Type satisfies the Value interface.
func (Integer) Type() jfuzz.ValueType { return jfuzz.Integer }

// A Number is any other numeric value.
type Number struct{ Value float64 }

// Type satisfies the Value interface.
func (Number) Type() jfuzz.ValueType { return jfuzz.Floating }

// A Bool is a Boolean constant, true or false.
type Bool struct{ Value bool }

// Type satisfies the Value interface.
func (Bool) Type() jfuzz.ValueType { return jfuzz.Boolean }

// A String is a string value, stored decoded.
type String struct{ Value string }

// Type satisfies the Value interface.
func (String) Type() jfuzz.ValueType { return jfuzz.String }

// Null represents the null constant.
type Null struct{}

// Type satisfies the Value interface.
func (Null) Type() jfuzz.ValueType { return jfuzz.Null }
