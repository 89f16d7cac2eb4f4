// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"io"
	"strings"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	// Do not modify the order of these constants without updating the
	// self-delimiting token check below.
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from a byte slice. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The scanner decodes its input as UTF-8. As with a bufio.Reader, a byte that
// does not begin a valid encoding is read as utf8.RuneError.
type Scanner struct {
	buf []byte
	src mem.RO
	tok Token
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from src.
// The scanner does not modify src.
func NewScanner(src []byte) *Scanner { return &Scanner{buf: src, src: mem.B(src)} }

// Next advances s to the next token of the input, and reports whether a
// token is available. At the end of the input or in case of error, Next
// returns false and Err reports the reason (io.EOF at the end of input).
func (s *Scanner) Next() bool {
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, ok := s.rune()
		if !ok {
			s.err = io.EOF
			return false
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.tok = t
			return true
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch) == nil
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString() == nil
		}

		// Handle constants: true, false, null
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
		case 'f':
			s.tok = False
			want = mem.S("false")
		case 'n':
			s.tok = Null
			want = mem.S("null")
		default:
			s.failf("unexpected %q", ch)
			return false
		}
		if _, _, ok := s.readWhile(isNameRune); ok {
			s.unrune()
		}
		if got := s.text(); !got.Equal(want) {
			s.failf("unknown constant %q", got.StringCopy())
			return false
		}
		return true // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The return value
// aliases the input and must not be modified.
func (s *Scanner) Text() []byte { return s.buf[s.pos:s.end] }

func (s *Scanner) text() mem.RO { return s.src.Slice(s.pos, s.end) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) scanString() error {
	var esc bool
	for {
		ch, ok := s.rune()
		if !ok {
			return s.failf("unterminated string")
		} else if ch == '"' && !esc {
			s.tok = String
			return nil
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if err := s.readHex4(); err != nil {
					return s.failf("invalid Unicode escape: %w", err)
				}
			default:
				return s.failf("invalid %q after escape", ch)
			}
			esc = false
		} else if ch < ' ' {
			return s.failf("unescaped control %q", ch)
		} else {
			esc = ch == '\\'
		}
	}
}

func (s *Scanner) scanNumber(start rune) error {
	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		if _, err := s.require(isDigit, "digit"); err != nil {
			return err
		}
	}

	// Consume the remainder of an integer.
	_, ch, ok := s.readWhile(isDigit)

	// Check for extra leading zeroes, which are disallowed by RFC 8259.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.text()) {
		return s.failf("extra leading zeroes")
	} else if !ok {
		s.tok = Integer
		return nil
	}

	// If a decimal point follows, consume a fractional part.
	var isFloat bool
	if ch == '.' {
		var nr int
		nr, ch, ok = s.readWhile(isDigit)
		if nr == 0 {
			return s.failf("no digits after decimal point")
		}
		isFloat = true
	}

	// If an exponent follows, consume it.
	if !ok || (ch != 'E' && ch != 'e') {
		if ok {
			s.unrune()
		}
		if isFloat {
			s.tok = Number
		} else {
			s.tok = Integer
		}
		return nil
	}

	ch, err := s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	nr, _, ok := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf("missing exponent digits")
	} else if ok {
		s.unrune()
	}
	s.tok = Number
	return nil
}

// rune reads the next rune from the input, and reports false if the input is
// exhausted.
func (s *Scanner) rune() (rune, bool) {
	if s.end >= s.src.Len() {
		s.last = 0
		return 0, false
	}
	ch, nb := mem.DecodeRune(s.src.SliceFrom(s.end))
	if nb == 0 {
		nb = 1
	}
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, true
}

// unrune unreads the most recently read rune.
func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
}

// require reads a single rune matching f from the input, or returns an error
// mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, ok := s.rune()
	if !ok {
		return 0, s.failf("want %s, got EOF", label)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned
// and ok is true; if the input ran out, ok is false. It is the caller's
// responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (nr int, next rune, ok bool) {
	for {
		ch, ok := s.rune()
		if !ok {
			return nr, 0, false
		} else if !f(ch) {
			return nr, ch, true
		}
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for i := 0; i < 4; i++ {
		ch, ok := s.rune()
		if !ok {
			return io.ErrUnexpectedEOF
		} else if !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) failf(msg string, args ...any) error {
	s.err = posError{s.end, fmt.Errorf(msg, args...)}
	return s.err
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the representation of a number in
// text has redundant leading zeroes, disallowed by RFC 8259.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(text mem.RO) bool {
	if text.At(0) == '-' {
		text = text.SliceFrom(1) // skip leading sign
	}
	if text.At(0) == '0' {
		// A leading zero is OK if it's the only digit before a non-digit.
		return text.Len() > 1 && isDigit(rune(text.At(1)))
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
