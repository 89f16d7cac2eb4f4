// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package randjson

import "slices"

type editOp byte

const (
	opReplace editOp = iota // overwrite one byte
	opInsert                // insert one byte
	opDelete                // delete one byte
)

// An edit records a mutation and the data needed to undo it.
type edit struct {
	op  editOp
	pos int
	old byte // the byte replaced or deleted
}

// undo reverses the effect of e on data and returns the updated slice.
func (e *edit) undo(data []byte) []byte {
	switch e.op {
	case opReplace:
		data[e.pos] = e.old
	case opInsert:
		data = slices.Delete(data, e.pos, e.pos+1)
	case opDelete:
		data = slices.Insert(data, e.pos, e.old)
	}
	return data
}

// Bytes that are significant to the JSON grammar, or that are known to
// trouble parsers. Mutations favour these over arbitrary bytes.
const interesting = "{}[],:\"\\/ \t\n\r0123456789-+.eEtrufalsn\x00\x7f\xef\xbb\xbf\xc0\xff"

func (d *Document) randomByte() byte {
	if d.rng.IntN(2) == 0 {
		return interesting[d.rng.IntN(len(interesting))]
	}
	return byte(d.rng.UintN(256))
}

// mutate applies one random edit to d.data and returns its undo record.
func (d *Document) mutate() *edit {
	if len(d.data) == 0 {
		d.data = append(d.data, d.randomByte())
		return &edit{op: opInsert, pos: 0}
	}
	switch op := editOp(d.rng.IntN(3)); op {
	case opReplace:
		pos := d.rng.IntN(len(d.data))
		e := &edit{op: op, pos: pos, old: d.data[pos]}
		d.data[pos] = d.randomByte()
		return e
	case opInsert:
		pos := d.rng.IntN(len(d.data) + 1)
		d.data = slices.Insert(d.data, pos, d.randomByte())
		return &edit{op: op, pos: pos}
	default:
		pos := d.rng.IntN(len(d.data))
		e := &edit{op: opDelete, pos: pos, old: d.data[pos]}
		d.data = slices.Delete(d.data, pos, pos+1)
		return e
	}
}
