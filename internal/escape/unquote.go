// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A \u escape
// for a high surrogate followed by a \u escape for a low surrogate is decoded
// as a single rune. Unpaired surrogates and invalid escapes are replaced by
// the Unicode replacement rune. Unquote reports an error for an incomplete
// escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		// Decode the rune after the escape to figure out what to substitute.
		// The scanner should have caught any errors here, but if not, insert
		// replacement runes (utf8.RuneError == '\ufffd').
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			putByte(byte(r))
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			v, rest, err := unicodeEscape(src)
			if err != nil {
				return nil, err
			}
			src = rest
			dec = utf8.AppendRune(dec, v)
		default:
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// unicodeEscape decodes the four hex digits of a \u escape at the front of
// src, whose "\u" prefix has already been consumed. If the result is a high
// surrogate and src continues with a \u escape for a low surrogate, both are
// consumed and combined. It returns the decoded rune and the remaining input.
func unicodeEscape(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	src = src.SliceFrom(4)
	if err != nil {
		return utf8.RuneError, src, nil
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, src, nil
	}

	// Look for the second half of a surrogate pair.
	if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
		if lo, err := parseHex(src.Slice(2, 6)); err == nil {
			if pr := utf16.DecodeRune(r, rune(lo)); pr != utf8.RuneError {
				return pr, src.SliceFrom(6), nil
			}
		}
	}
	return utf8.RuneError, src, nil
}

// HasLoneSurrogate reports whether src contains a \u escape for a UTF-16
// surrogate that is not part of a valid pair: a high surrogate not directly
// followed by an escaped low surrogate, or a low surrogate on its own.
// Other escapes are skipped whole, so an escaped backslash followed by "u"
// is not taken for a \u escape.
func HasLoneSurrogate(src mem.RO) bool {
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 || i+1 >= src.Len() {
			return false
		}
		esc := src.At(i + 1)
		src = src.SliceFrom(i + 2)
		if esc != 'u' || src.Len() < 4 {
			continue
		}
		v, err := parseHex(src.SliceTo(4))
		if err != nil {
			continue
		}
		src = src.SliceFrom(4)
		r := rune(v)
		if !utf16.IsSurrogate(r) {
			continue
		} else if r >= 0xdc00 {
			return true // low surrogate without a high
		}
		if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
			return true
		}
		lo, err := parseHex(src.Slice(2, 6))
		if err != nil || utf16.DecodeRune(r, rune(lo)) == utf8.RuneError {
			return true
		}
		src = src.SliceFrom(6)
	}
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
