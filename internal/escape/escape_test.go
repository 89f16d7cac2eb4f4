// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jfuzz/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ``},
		{" ", ` `},
		{"a\t\nb", `a\t\nb`},
		{"\x00\x01\x02", `\u0000\u0001\u0002`},
		{`a "b c\" d"`, `a \"b c\\\" d\"`},
		{`\ufffd`, `\\ufffd`},
		{"\u2028 \u2029 \ufffd", `\u2028 \u2029 \ufffd`},
		{"This is the end\v", `This is the end\u000b`},
		{"<\x1e>", `<\u001e>`},
		{"bad \xff byte", `bad \ufffd byte`},
		{"\u00e9/\u4e2d", "\u00e9/\u4e2d"},
	}
	for _, test := range tests {
		got := string(escape.Quote(mem.S(test.input)))
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, false},                         // empty
		{`ok go`, "ok go", false},               // no escapes
		{`abc\ndef`, "abc\ndef", false},         // C escapes
		{`\b\f\n\r\t`, "\b\f\n\r\t", false},     // C escapes
		{`a \u0026 b`, "a & b", false},          // short Unicode escape
		{`\u00e9\u4E2D`, "\u00e9\u4e2d", false}, // BMP escapes
		{`\ud83d\ude00`, "\U0001f600", false},   // surrogate pair
		{`\ud83d`, "\ufffd", false},             // lone high surrogate
		{`\ude00x`, "\ufffdx", false},           // lone low surrogate
		{`\ud83dA`, "\ufffdA", false},           // high surrogate without its pair
		{`\ud83d\u0041`, "\ufffdA", false},      // high surrogate followed by a non-surrogate
		{`\`, ``, true},                         // incomplete escape
		{`\u`, ``, true},                        // incomplete Unicode escape
		{`\u00`, ``, true},                      // incomplete Unicode escape
		{`\u00x9`, "\ufffd", false},             // invalid Unicode escape
		{`\q`, "\ufffd", false},                 // invalid escape
		{`a\"b`, `a"b`, false},                  // ok
		{`a\\b\\cd\/`, `a\b\cd/`, false},        // ok
	}

	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", `"quoted"`, "\x00\x1f", "\u00e9\u4e2d\U0001f600", "\u2028"} {
		got, err := escape.Unquote(mem.B(escape.Quote(mem.S(s))))
		if err != nil {
			t.Errorf("Unquote(Quote(%#q)): unexpected error: %v", s, err)
		} else if string(got) != s {
			t.Errorf("Unquote(Quote(%#q)): got %#q", s, got)
		}
	}
}

func TestHasLoneSurrogate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{``, false},
		{`"abc"`, false},
		{`["\ud83d\ude00", "\u00e9"]`, false},
		{`"\\ud800"`, false},
		{`"\n\udbff\udfff"`, false},
		{`"\ud83"`, false},
		{`"\ud83d"`, true},
		{`"\ud83d\u5e00"`, true},
		{`"\ud83d x \ude00"`, true},
		{`"\ude00"`, true},
		{`"\ud83d\ud83d\ude00"`, true},
		{`{"\\\udc00": 1}`, true},
	}
	for _, test := range tests {
		if got := escape.HasLoneSurrogate(mem.S(test.input)); got != test.want {
			t.Errorf("HasLoneSurrogate(%#q): got %v, want %v", test.input, got, test.want)
		}
	}
}
