// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package randjson generates random JSON documents and applies random
// mutations to them, with single-step undo.
package randjson

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/creachadair/jfuzz"
)

// DefaultSize is the default approximate size in bytes of a generated
// document.
const DefaultSize = 1000

// Settings control the construction of a Document.
type Settings struct {
	// If set, load the document from this file instead of generating it.
	Path string

	// The approximate size of a generated document in bytes.
	// If zero, DefaultSize is used.
	Size int

	// The seed for generating the document. If zero, a seed is chosen from
	// the clock.
	GenerationSeed uint64

	// The seed for choosing mutations. If zero, a seed is chosen from the
	// clock.
	MutationSeed uint64
}

// A Document is a JSON document subject to random mutation. It implements
// the jfuzz.Source interface.
type Document struct {
	data    []byte
	genSeed uint64
	mutSeed uint64
	path    string
	nmut    int
	rng     *rand.Rand
	last    *edit // the most recent mutation, or nil
}

// New constructs a new document from the given settings.
func New(s Settings) (*Document, error) {
	d := &Document{
		genSeed: seedOrClock(s.GenerationSeed),
		mutSeed: seedOrClock(s.MutationSeed),
		path:    s.Path,
	}
	d.rng = newRand(d.mutSeed)
	if s.Path != "" {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("load document: %w", err)
		}
		d.data = data
		return d, nil
	}
	size := s.Size
	if size <= 0 {
		size = DefaultSize
	}
	d.data = Generate(d.genSeed, size)
	return d, nil
}

// FromBytes constructs a document with the given initial contents. The
// document reports file provenance with an empty path.
func FromBytes(data []byte, mutationSeed uint64) *Document {
	seed := seedOrClock(mutationSeed)
	return &Document{
		data:    append([]byte(nil), data...),
		mutSeed: seed,
		rng:     newRand(seed),
	}
}

func seedOrClock(seed uint64) uint64 {
	for seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return seed
}

func newRand(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

// Bytes returns the current contents of d. The slice is only valid until the
// next call to Mutate or Revert.
func (d *Document) Bytes() []byte { return d.data }

// Len returns the length of the document in bytes.
func (d *Document) Len() int { return len(d.data) }

// GenerationSeed returns the seed used to generate the document.
func (d *Document) GenerationSeed() uint64 { return d.genSeed }

// MutationSeed returns the seed used to choose mutations.
func (d *Document) MutationSeed() uint64 { return d.mutSeed }

// Mutations reports the number of calls to Mutate. Reverting a mutation does
// not change this count.
func (d *Document) Mutations() int { return d.nmut }

// Provenance reports whether d was generated or loaded.
func (d *Document) Provenance() jfuzz.Provenance {
	if d.path != "" || d.genSeed == 0 {
		return jfuzz.Provenance{Kind: jfuzz.FromFile, Path: d.path}
	}
	return jfuzz.Provenance{Kind: jfuzz.FromSeed, Seed: d.genSeed}
}

// Save writes the current contents of d to path.
func (d *Document) Save(path string) error { return os.WriteFile(path, d.data, 0644) }

// Mutate applies one random edit to the document.
func (d *Document) Mutate() {
	d.nmut++
	d.last = d.mutate()
}

// Revert undoes the most recent call to Mutate. Calling Revert again without
// an intervening Mutate has no effect.
func (d *Document) Revert() {
	if d.last == nil {
		return
	}
	d.data = d.last.undo(d.data)
	d.last = nil
}
