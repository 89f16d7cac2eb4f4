// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

import (
	"strconv"
	"strings"
)

// ValueType is the type of a traversal event.
type ValueType byte

// Constants defining the valid ValueType values.
const (
	Object         ValueType = iota // start of an object
	Array                           // start of an array
	String                          // string value
	Key                             // object member name
	Integer                         // number with no fraction or exponent that fits in int64
	Floating                        // any other number
	Boolean                         // true or false
	Null                            // null
	EndOfContainer                  // end of the current object or array
	EndOfDocument                   // end of the document; Next is idempotent here
	Error                           // not a value: the traversal is invalid

	// Do not reorder these constants without updating typeStr.
)

var typeStr = [...]string{
	Object:         "object",
	Array:          "array",
	String:         "string",
	Key:            "key",
	Integer:        "integer",
	Floating:       "floating",
	Boolean:        "boolean",
	Null:           "null",
	EndOfContainer: "end_of_container",
	EndOfDocument:  "end_of_document",
	Error:          "error",
}

// String returns the display name of v. Values outside the defined range
// render as "error".
func (v ValueType) String() string {
	if int(v) >= len(typeStr) {
		return typeStr[Error]
	}
	return typeStr[v]
}

// State is the outcome of parsing a document.
type State byte

const (
	OK     State = iota // the document parsed
	Failed              // the parser rejected the document
)

func (s State) String() string {
	if s == OK {
		return "ok"
	}
	return "error"
}

// ParseNumber classifies the text of a JSON number and decodes its value.
// A number written without a fraction or exponent whose value fits in an
// int64 is an Integer; every other number is Floating. A Floating value that
// overflows float64 is reported as an infinity. All backends classify numbers
// with this rule, so that a classification difference is never a divergence.
func ParseNumber(text string) (vt ValueType, z int64, f float64) {
	if !strings.ContainsAny(text, ".eE") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Integer, v, float64(v)
		}
	}
	f, _ = strconv.ParseFloat(text, 64) // on range error, f is ±Inf
	return Floating, 0, f
}
