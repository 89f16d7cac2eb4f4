// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// A Report describes one divergence and the document that produced it.
type Report struct {
	Source     SourceInfo     `json:"randomjson"`
	Divergence DivergenceInfo `json:"divergence"`
	Results    []ResultInfo   `json:"parsing_results"`
}

// SourceInfo records the provenance and mutation state of a document.
type SourceInfo struct {
	Provenance     string  `json:"provenance_type"`
	GenerationSeed *uint64 `json:"generation_seed,omitzero"`
	Filename       string  `json:"filename,omitempty"`
	Size           int     `json:"size"`
	MutationSeed   uint64  `json:"mutation_seed"`
	Mutations      int     `json:"number_of_mutations"`
}

// DivergenceInfo summarizes what disagreed.
type DivergenceInfo struct {
	Kind       string `json:"kind"`
	Leader     string `json:"leader"`
	Follower   string `json:"follower,omitempty"`
	ValueIndex *int   `json:"value_index,omitzero"`
}

// ResultInfo is the state of one parser at the divergence.
type ResultInfo struct {
	Parser      string `json:"parser_name"`
	State       string `json:"parsing_state"`
	ErrorDetail string `json:"error_detail,omitempty"`
	ValueIndex  *int   `json:"value_index,omitzero"`
	ValueType   string `json:"value_type,omitempty"`
	Value       any    `json:"value,omitzero"`
}

// NewReport constructs a report for d on the current document of src.
func NewReport(src Source, d Divergence) *Report {
	r := &Report{
		Source: sourceInfo(src),
		Divergence: DivergenceInfo{
			Kind:     d.Kind.String(),
			Leader:   d.Leader,
			Follower: d.Follower,
		},
		Results: make([]ResultInfo, len(d.Results)),
	}
	if d.Index >= 0 {
		r.Divergence.ValueIndex = &d.Index
	}
	for i, res := range d.Results {
		ri := ResultInfo{
			Parser:      res.Parser,
			State:       res.State.String(),
			ErrorDetail: res.Detail,
		}
		if d.Index >= 0 {
			ri.ValueIndex = &d.Index
			ri.ValueType = res.Type.String()
			ri.Value = reportValue(res.Value)
		}
		r.Results[i] = ri
	}
	return r
}

func sourceInfo(src Source) SourceInfo {
	si := SourceInfo{
		Size:         src.Len(),
		MutationSeed: src.MutationSeed(),
		Mutations:    src.Mutations(),
	}
	switch p := src.Provenance(); p.Kind {
	case FromFile:
		si.Provenance = "file"
		si.Filename = p.Path
	default:
		si.Provenance = "seed"
		seed := p.Seed
		si.GenerationSeed = &seed
	}
	return si
}

// reportValue converts v into a form that can be encoded as JSON.
// Non-finite floats have no JSON representation and are rendered as strings.
func reportValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// Encode renders r as indented JSON text.
func (r *Report) Encode() ([]byte, error) {
	return json.Marshal(r, jsontext.Multiline(true), jsontext.WithIndent("  "))
}

// timeNow is the clock used to name report files.
var timeNow = time.Now

// A Reporter writes reports to files in a directory. Each report produces a
// pair of files named for the process ID, the time of the report, and a
// sequence number: the report itself, and a copy of the input document.
type Reporter struct {
	Dir string // output directory; "" means the current directory
	ID  int    // process identifier

	seq int
}

// Write writes r and a copy of doc to new files, and returns the path of the
// report file.
func (w *Reporter) Write(r *Report, doc []byte) (string, error) {
	data, err := r.Encode()
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	w.seq++
	stem := fmt.Sprintf("%d-%s-%d", w.ID, timeNow().UTC().Format("20060102T150405.000000000"), w.seq)
	path := filepath.Join(w.Dir, stem+"_fuzzyreport.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(w.Dir, stem+"_reportedjson.json"), doc, 0644); err != nil {
		return "", err
	}
	return path, nil
}
