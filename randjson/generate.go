// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package randjson

import (
	"math/rand/v2"
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/jfuzz/internal/escape"

	"go4.org/mem"
)

// maxDepth bounds the nesting of generated containers.
const maxDepth = 8

// Generate returns a valid JSON document of approximately size bytes,
// determined entirely by seed. The root of the document is an object or an
// array. Object keys are unique within each object.
func Generate(seed uint64, size int) []byte {
	g := &generator{rng: newRand(seed), size: size}
	if g.rng.IntN(2) == 0 {
		g.object(0)
	} else {
		g.array(0)
	}
	return g.buf
}

type generator struct {
	rng  *rand.Rand
	buf  []byte
	size int
}

func (g *generator) full() bool { return len(g.buf) >= g.size }

func (g *generator) put(s string) { g.buf = append(g.buf, s...) }

// space writes a random run of insignificant whitespace.
func (g *generator) space() {
	const ws = " \t\n\r"
	for g.rng.IntN(4) == 0 {
		g.buf = append(g.buf, ws[g.rng.IntN(len(ws))])
	}
}

// more reports whether a container at the given depth with n members should
// have another. The root container keeps growing until the document is full.
func (g *generator) more(depth, n int) bool {
	if g.full() {
		return false
	} else if depth == 0 {
		return true
	}
	return n < 6 && g.rng.IntN(n+2) != 0
}

func (g *generator) value(depth int) {
	pick := g.rng.IntN(10)
	if depth >= maxDepth && pick < 2 {
		pick += 2
	}
	switch pick {
	case 0:
		g.object(depth + 1)
	case 1:
		g.array(depth + 1)
	case 2, 3:
		g.string()
	case 4, 5:
		g.integer()
	case 6:
		g.floating()
	case 7:
		g.put("true")
	case 8:
		g.put("false")
	default:
		g.put("null")
	}
}

func (g *generator) object(depth int) {
	g.put("{")
	for i := 0; g.more(depth, i); i++ {
		if i > 0 {
			g.put(",")
		}
		g.space()
		g.key(i)
		g.space()
		g.put(":")
		g.space()
		g.value(depth)
		g.space()
	}
	g.put("}")
}

func (g *generator) array(depth int) {
	g.put("[")
	for i := 0; g.more(depth, i); i++ {
		if i > 0 {
			g.put(",")
		}
		g.space()
		g.value(depth)
		g.space()
	}
	g.put("]")
}

// key writes a key for the ith member of an object. The suffix makes each key
// unique within its object, since the random prefix contains only letters.
func (g *generator) key(i int) {
	g.put(`"`)
	g.letters(1 + g.rng.IntN(6))
	g.put("_")
	g.put(strconv.Itoa(i))
	g.put(`"`)
}

func (g *generator) letters(n int) {
	const alpha = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for range n {
		g.buf = append(g.buf, alpha[g.rng.IntN(len(alpha))])
	}
}

// Non-ASCII runes used in generated strings, spanning 2-, 3-, and 4-byte
// UTF-8 encodings.
var runes = []rune{'é', 'ß', 'Ω', 'ж', '中', '€', '\u2028', '😀', '𝄞'}

func (g *generator) string() {
	var text []byte
	for n := g.rng.IntN(8); n > 0; n-- {
		switch g.rng.IntN(4) {
		case 0:
			text = utf8.AppendRune(text, runes[g.rng.IntN(len(runes))])
		case 1:
			// Control characters, quotes, and backslashes are escaped below.
			text = append(text, "\n\t\"\\/\b\f\r\x01"[g.rng.IntN(9)])
		default:
			start := len(g.buf)
			g.letters(1 + g.rng.IntN(8))
			text = append(text, g.buf[start:]...)
			g.buf = g.buf[:start]
		}
	}
	g.put(`"`)
	if g.rng.IntN(4) == 0 {
		g.unicodeEscapes(text)
	} else {
		g.buf = append(g.buf, escape.Quote(mem.B(text))...)
	}
	g.put(`"`)
}

// unicodeEscapes writes text with every rune encoded as a \u escape, using a
// surrogate pair for runes outside the basic multilingual plane.
func (g *generator) unicodeEscapes(text []byte) {
	const hex = "0123456789abcdef"
	put4 := func(v rune) {
		g.buf = append(g.buf, '\\', 'u', hex[v>>12&15], hex[v>>8&15], hex[v>>4&15], hex[v&15])
	}
	for len(text) != 0 {
		r, n := utf8.DecodeRune(text)
		text = text[n:]
		if r > 0xffff {
			r -= 0x10000
			put4(0xd800 + r>>10)
			put4(0xdc00 + r&0x3ff)
		} else {
			put4(r)
		}
	}
}

func (g *generator) integer() {
	var v int64
	switch g.rng.IntN(4) {
	case 0:
		v = int64(g.rng.IntN(10))
	case 1:
		v = -g.rng.Int64N(1000)
	case 2:
		v = g.rng.Int64()
	default:
		v = g.rng.Int64N(1 << 32)
	}
	g.buf = strconv.AppendInt(g.buf, v, 10)
}

func (g *generator) floating() {
	if g.rng.IntN(2) == 0 {
		g.put("-")
	}
	g.buf = strconv.AppendInt(g.buf, g.rng.Int64N(100000), 10)
	exp := g.rng.IntN(3) != 0
	if !exp || g.rng.IntN(2) == 0 {
		g.put(".")
		g.buf = strconv.AppendInt(g.buf, g.rng.Int64N(1000000), 10)
	}
	if exp {
		g.put([]string{"e", "E", "e+", "e-", "E-"}[g.rng.IntN(5)])
		g.buf = strconv.AppendInt(g.buf, int64(g.rng.IntN(30)), 10)
	}
}
