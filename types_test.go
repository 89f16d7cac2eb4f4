// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz_test

import (
	"math"
	"testing"

	"github.com/creachadair/jfuzz"
)

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		input jfuzz.ValueType
		want  string
	}{
		{jfuzz.Object, "object"},
		{jfuzz.Key, "key"},
		{jfuzz.Floating, "floating"},
		{jfuzz.EndOfContainer, "end_of_container"},
		{jfuzz.EndOfDocument, "end_of_document"},
		{jfuzz.Error, "error"},
		{jfuzz.ValueType(200), "error"},
	}
	for _, tc := range tests {
		if got := tc.input.String(); got != tc.want {
			t.Errorf("String(%d): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		vt    jfuzz.ValueType
		z     int64
		f     float64
	}{
		{"0", jfuzz.Integer, 0, 0},
		{"-17", jfuzz.Integer, -17, -17},
		{"9223372036854775807", jfuzz.Integer, math.MaxInt64, math.MaxInt64},
		{"-9223372036854775808", jfuzz.Integer, math.MinInt64, math.MinInt64},

		// Out of int64 range.
		{"9223372036854775808", jfuzz.Floating, 0, 9223372036854775808},

		// Fractions and exponents are always floating.
		{"1.0", jfuzz.Floating, 0, 1},
		{"2e3", jfuzz.Floating, 0, 2000},
		{"-0.5E-1", jfuzz.Floating, 0, -0.05},

		// Out of float64 range.
		{"1e400", jfuzz.Floating, 0, math.Inf(1)},
		{"-1e400", jfuzz.Floating, 0, math.Inf(-1)},
	}
	for _, tc := range tests {
		vt, z, f := jfuzz.ParseNumber(tc.input)
		if vt != tc.vt || z != tc.z || f != tc.f {
			t.Errorf("ParseNumber(%q): got (%v, %d, %g), want (%v, %d, %g)",
				tc.input, vt, z, f, tc.vt, tc.z, tc.f)
		}
	}
}
