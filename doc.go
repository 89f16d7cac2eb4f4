// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jfuzz implements differential fuzzing of JSON parsers.
//
// The same input is given to several independent parsers, and any
// disagreement between them is reported: either because one parser accepts
// an input another rejects, or because they disagree about the contents of
// the document. No parser is assumed to be correct.
//
// # Traversal
//
// Each parser is wrapped in a Parser, whose Parse method returns a Traverser.
// A Traverser presents the parsed document as a flat sequence of events in
// pre-order, regardless of how the parser represents the document:
//
//	Input               | Events
//	------------------- | ---------------------------------------------------
//	1                   | integer, end_of_document
//	{"k": 1}            | object, key, integer, end_of_container, end_of_document
//	[[], true]          | array, array, end_of_container, boolean,
//	                    | end_of_container, end_of_document
//
// A parse that fails yields a traverser whose State is Failed, and whose
// events and values are meaningless. See Invalid.
//
// # Comparison
//
// Compare parses one input with a list of parsers. The first parser is the
// leader, and every other parser is compared to it:
//
//	out, divs := jfuzz.Compare(input, parsers, nil)
//	for _, d := range divs {
//	   log.Printf("%v: %s vs. %s at %d", d.Kind, d.Leader, d.Follower, d.Index)
//	}
//
// If the parse states differ, the outcome is StatesDiffer. If every parser
// failed, the outcome is AllFailed. Otherwise, the traversers are walked in
// lockstep and the types and values of their events are compared.
// Floating-point values are compared with a relative tolerance (FloatsEqual).
//
// # Fuzzing
//
// A Fuzzer repeatedly mutates a Source and compares the parsers on each
// version of the document. When the parsers disagree, a Report is written
// along with a copy of the document. If the disagreement is about whether
// the document is valid at all, the mutation is also reverted, so that
// fuzzing continues from a document the parsers agree about:
//
//	f := jfuzz.New(src, jfuzz.Settings{ID: 1, MaxMutations: 5000})
//	f.AddParser(leader)
//	f.AddParser(other)
//	if err := f.Fuzz(ctx); err != nil {
//	   log.Fatalf("Fuzz: %v", err)
//	}
//
// A traverser may claim a divergence as a known problem of its parser (see
// Traverser.KnownProblem), in which case no report is written.
package jfuzz
