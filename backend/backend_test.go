// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package backend_test

import (
	"math"
	"testing"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/backend"
	"github.com/creachadair/jfuzz/randjson"
	"github.com/google/go-cmp/cmp"
)

const (
	obj  = jfuzz.Object
	arr  = jfuzz.Array
	str  = jfuzz.String
	key  = jfuzz.Key
	num  = jfuzz.Integer
	flt  = jfuzz.Floating
	bln  = jfuzz.Boolean
	null = jfuzz.Null
	eoc  = jfuzz.EndOfContainer
	eod  = jfuzz.EndOfDocument
)

func TestEvents(t *testing.T) {
	tests := []struct {
		input string
		want  []jfuzz.ValueType
	}{
		{`1`, []jfuzz.ValueType{num, eod}},
		{` "x" `, []jfuzz.ValueType{str, eod}},
		{`null`, []jfuzz.ValueType{null, eod}},
		{`{}`, []jfuzz.ValueType{obj, eoc, eod}},
		{`[]`, []jfuzz.ValueType{arr, eoc, eod}},
		{`{"k": 1}`, []jfuzz.ValueType{obj, key, num, eoc, eod}},
		{`[{}, [], 1, 1.2, "string", true, false, null]`, []jfuzz.ValueType{
			arr, obj, eoc, arr, eoc, num, flt, str, bln, bln, null, eoc, eod,
		}},
		{`{"a": {"b": [1, {"c": null}]}, "d": -0.5e3}`, []jfuzz.ValueType{
			obj, key, obj, key, arr, num, obj, key, null, eoc, eoc, eoc, key, flt, eoc, eod,
		}},
		{`[[[]]]`, []jfuzz.ValueType{arr, arr, arr, eoc, eoc, eoc, eod}},
	}
	for _, p := range backend.Default() {
		t.Run(p.Name(), func(t *testing.T) {
			for _, test := range tests {
				tr := p.Parse([]byte(test.input))
				if tr.State() != jfuzz.OK {
					t.Errorf("Parse(%#q): got state %v, want ok", test.input, tr.State())
					continue
				}
				if tr.Parser() != p.Name() {
					t.Errorf("Parser: got %q, want %q", tr.Parser(), p.Name())
				}
				got := jfuzz.Events(tr, 0)
				if diff := cmp.Diff(test.want, got); diff != "" {
					t.Errorf("Events(%#q) (-want, +got):\n%s", test.input, diff)
				}
				if vt := tr.Next(); vt != eod {
					t.Errorf("Next after end: got %v, want %v", vt, eod)
				}
			}
		})
	}
}

func TestValues(t *testing.T) {
	const input = `{"k\u00e9y": ["\ud83d\ude00\n", -12, 9223372036854775807, 9223372036854775808, 1.5, 2e3, 1e400, true, false]}`
	type event struct {
		Type  jfuzz.ValueType
		Value any
	}
	want := []event{
		{obj, nil},
		{key, "kéy"},
		{arr, nil},
		{str, "\U0001f600\n"},
		{num, int64(-12)},
		{num, int64(math.MaxInt64)},
		{flt, 9223372036854775808.0},
		{flt, 1.5},
		{flt, 2000.0},
		{flt, math.Inf(1)},
		{bln, true},
		{bln, false},
		{eoc, nil},
		{eoc, nil},
		{eod, nil},
	}
	for _, p := range backend.Default() {
		t.Run(p.Name(), func(t *testing.T) {
			tr := p.Parse([]byte(input))
			if tr.State() != jfuzz.OK {
				t.Fatalf("Parse: got state %v, want ok", tr.State())
			}
			var got []event
			for vt := tr.Type(); ; vt = tr.Next() {
				e := event{Type: vt}
				switch vt {
				case key, str:
					e.Value = tr.Text()
				case num:
					e.Value = tr.Int64()
				case flt:
					e.Value = tr.Float64()
				case bln:
					e.Value = tr.Bool()
				}
				got = append(got, e)
				if vt == eod || len(got) > len(want) {
					break
				}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Values (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRejects(t *testing.T) {
	for _, input := range []string{
		"", "  ", "[", "]", "{", `{"a"}`, `{"a":}`, `{"a" 1}`, `{1: 2}`, "[1 2]",
		"1 2", "[] []", "[1]x", "01", "1.", "-", "+1", ".5", "1e", "tru", "nul",
		`"\x"`, `"a`, "\"a\tb\"", "NaN", "'a'", `{"a":1,,}`,
	} {
		for _, p := range backend.Default() {
			if tr := p.Parse([]byte(input)); tr.State() != jfuzz.Failed {
				t.Errorf("%s: Parse(%#q): got state %v, want error", p.Name(), input, tr.State())
			} else if tr.Type() != jfuzz.Error || tr.Next() != jfuzz.Error {
				t.Errorf("%s: Parse(%#q): failed traverser did not report error", p.Name(), input)
			}
		}
	}
}

func TestKnownProblems(t *testing.T) {
	tests := []struct {
		input  string
		parser string
		want   bool
	}{
		{"[\"a\xffb\"]", "native", true},
		{"[\"a\xffb\"]", "stdjson", true},
		{`["ab"]`, "native", false},
		{`["ab"]`, "stdjson", false},
		{`["\ud83d\u5e00"]`, "native", true},
		{`["\ud83d\u5e00"]`, "stdjson", true},
		{`["\ude00"]`, "hujson", true},
		{`["\ud83d\ude00"]`, "native", false},
		{`["\ud83d\ude00"]`, "stdjson", false},
		{`["\ud83d\ude00"]`, "hujson", false},
		{"[1, 2,]", "hujson", true},
		{"// note\n[1]", "hujson", true},
		{"[1, /* two */ 2]", "hujson", true},
		{"[1, 2]", "hujson", false},
	}
	for _, test := range tests {
		tr := backend.Lookup(test.parser).Parse([]byte(test.input))
		if tr.State() != jfuzz.OK {
			t.Errorf("%s: Parse(%#q): got state %v, want ok", test.parser, test.input, tr.State())
			continue
		}
		if got := tr.KnownProblem([]byte(test.input)); got != test.want {
			t.Errorf("%s: KnownProblem(%#q): got %v, want %v", test.parser, test.input, got, test.want)
		}
	}

	// The strict backends reject what the others claim as known problems.
	for _, input := range []string{"[\"a\xffb\"]", "[1, 2,]", `["\ud83d\u5e00"]`} {
		if tr := backend.Lookup("jsontext").Parse([]byte(input)); tr.State() != jfuzz.Failed {
			t.Errorf("jsontext: Parse(%#q): got state %v, want error", input, tr.State())
		}
	}
}

func TestCompareLoneSurrogate(t *testing.T) {
	input := []byte(`{"k": "a\ud83d\u5e00b"}`)
	for _, leader := range []string{"native", "stdjson", "hujson"} {
		ps := []jfuzz.Parser{backend.Lookup(leader), backend.Lookup("jsontext")}
		out, divs := jfuzz.Compare(input, ps, nil)
		if out != jfuzz.StatesDiffer || len(divs) != 1 {
			t.Errorf("%s: Compare: got %v, %d divergences; want %v, 1", leader, out, len(divs), jfuzz.StatesDiffer)
			continue
		}
		if !divs[0].Known {
			t.Errorf("%s: Compare: unpaired surrogate divergence was not known", leader)
		}
	}
}

func TestSelect(t *testing.T) {
	if diff := cmp.Diff([]string{"native", "stdjson", "jsontext", "hujson"}, backend.Names()); diff != "" {
		t.Errorf("Names (-want, +got):\n%s", diff)
	}
	names := func(ps []jfuzz.Parser) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name())
		}
		return out
	}

	if ps, err := backend.Select(nil); err != nil {
		t.Errorf("Select(nil): unexpected error: %v", err)
	} else if diff := cmp.Diff(backend.Names(), names(ps)); diff != "" {
		t.Errorf("Select(nil) (-want, +got):\n%s", diff)
	}
	if ps, err := backend.Select([]string{"hujson", " native"}); err != nil {
		t.Errorf("Select: unexpected error: %v", err)
	} else if diff := cmp.Diff([]string{"hujson", "native"}, names(ps)); diff != "" {
		t.Errorf("Select (-want, +got):\n%s", diff)
	}
	for _, bad := range [][]string{{"nonesuch"}, {"native", "native"}} {
		if ps, err := backend.Select(bad); err == nil {
			t.Errorf("Select(%q): got %v, want error", bad, names(ps))
		}
	}
}

// Every backend agrees on generated documents.
func TestAgreeOnGenerated(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		doc := randjson.Generate(seed, 2000)
		out, divs := jfuzz.Compare(doc, backend.Default(), nil)
		if out != jfuzz.Agreed {
			t.Errorf("Seed %d: got %v, want agreed\n%s", seed, out, doc)
			for _, d := range divs {
				t.Logf("Divergence: %+v", d)
			}
		}
	}
}
