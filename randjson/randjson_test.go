// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package randjson_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/randjson"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
)

func TestGenerate(t *testing.T) {
	for _, size := range []int{1, 50, 1000, 10000} {
		for seed := uint64(1); seed <= 50; seed++ {
			doc := randjson.Generate(seed, size)
			if !jsontext.Value(doc).IsValid() {
				t.Fatalf("Generate(%d, %d): invalid document:\n%s", seed, size, doc)
			}
			if len(doc) < size {
				t.Errorf("Generate(%d, %d): got %d bytes, want at least %d", seed, size, len(doc), size)
			}
			if c := doc[0]; c != '{' && c != '[' {
				t.Errorf("Generate(%d, %d): root begins with %q, want object or array", seed, size, c)
			}
			if again := randjson.Generate(seed, size); !bytes.Equal(again, doc) {
				t.Errorf("Generate(%d, %d) is not deterministic", seed, size)
			}
		}
	}
	if bytes.Equal(randjson.Generate(1, 500), randjson.Generate(2, 500)) {
		t.Error("Generate: seeds 1 and 2 produced the same document")
	}
}

func TestNew(t *testing.T) {
	d, err := randjson.New(randjson.Settings{Size: 300, GenerationSeed: 9, MutationSeed: 4})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	if got, want := d.Bytes(), randjson.Generate(9, 300); !bytes.Equal(got, want) {
		t.Errorf("Bytes: got %q, want %q", got, want)
	}
	if d.Len() != len(d.Bytes()) {
		t.Errorf("Len: got %d, want %d", d.Len(), len(d.Bytes()))
	}
	if d.GenerationSeed() != 9 || d.MutationSeed() != 4 {
		t.Errorf("Seeds: got %d, %d; want 9, 4", d.GenerationSeed(), d.MutationSeed())
	}
	if diff := cmp.Diff(jfuzz.Provenance{Kind: jfuzz.FromSeed, Seed: 9}, d.Provenance()); diff != "" {
		t.Errorf("Provenance (-want, +got):\n%s", diff)
	}

	def, err := randjson.New(randjson.Settings{})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	if def.GenerationSeed() == 0 || def.MutationSeed() == 0 {
		t.Errorf("Seeds: got %d, %d; want non-zero", def.GenerationSeed(), def.MutationSeed())
	}
	if def.Len() < randjson.DefaultSize {
		t.Errorf("Len: got %d, want at least %d", def.Len(), randjson.DefaultSize)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	const text = `{"a": [1, 2, 3]}`
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := randjson.New(randjson.Settings{Path: path, MutationSeed: 1})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	if got := string(d.Bytes()); got != text {
		t.Errorf("Bytes: got %q, want %q", got, text)
	}
	if diff := cmp.Diff(jfuzz.Provenance{Kind: jfuzz.FromFile, Path: path}, d.Provenance()); diff != "" {
		t.Errorf("Provenance (-want, +got):\n%s", diff)
	}

	if _, err := randjson.New(randjson.Settings{Path: filepath.Join(t.TempDir(), "nonesuch")}); err == nil {
		t.Error("New: got nil error for a missing file")
	}
}

func TestMutateRevert(t *testing.T) {
	d := randjson.FromBytes(randjson.Generate(3, 200), 11)
	for i := range 2000 {
		before := bytes.Clone(d.Bytes())
		d.Mutate()
		if d.Mutations() != i+1 {
			t.Fatalf("Mutations: got %d, want %d", d.Mutations(), i+1)
		}
		if diff := len(d.Bytes()) - len(before); diff < -1 || diff > 1 {
			t.Fatalf("Mutate changed length by %d", diff)
		}
		if i%2 == 0 {
			d.Revert()
			if got := d.Bytes(); !bytes.Equal(got, before) {
				t.Fatalf("Revert %d:\n got %q\nwant %q", i, got, before)
			}
			d.Revert() // no effect
			if got := d.Bytes(); !bytes.Equal(got, before) {
				t.Fatalf("Second revert %d:\n got %q\nwant %q", i, got, before)
			}
		}
	}
}

func TestMutateEmpty(t *testing.T) {
	d := randjson.FromBytes(nil, 5)
	d.Mutate()
	if d.Len() != 1 {
		t.Errorf("Len after mutate: got %d, want 1", d.Len())
	}
	d.Revert()
	if d.Len() != 0 {
		t.Errorf("Len after revert: got %d, want 0", d.Len())
	}
}

func TestMutateDeterministic(t *testing.T) {
	a := randjson.FromBytes([]byte(`[1, 2, 3]`), 77)
	b := randjson.FromBytes([]byte(`[1, 2, 3]`), 77)
	for i := range 100 {
		a.Mutate()
		b.Mutate()
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Fatalf("Mutation %d: got %q and %q", i, a.Bytes(), b.Bytes())
		}
	}
}

func TestFromBytes(t *testing.T) {
	input := []byte(`[true]`)
	d := randjson.FromBytes(input, 1)
	d.Mutate()
	if string(input) != `[true]` {
		t.Errorf("Mutate modified the caller's slice: %q", input)
	}
	if diff := cmp.Diff(jfuzz.Provenance{Kind: jfuzz.FromFile}, d.Provenance()); diff != "" {
		t.Errorf("Provenance (-want, +got):\n%s", diff)
	}
}

func TestSave(t *testing.T) {
	d := randjson.FromBytes(randjson.Generate(5, 100), 2)
	d.Mutate()
	path := filepath.Join(t.TempDir(), "saved.json")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, d.Bytes()) {
		t.Errorf("Saved: got %q, want %q", got, d.Bytes())
	}
}
