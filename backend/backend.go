// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package backend is a registry of the jfuzz parser backends.
package backend

import (
	"fmt"
	"strings"

	"github.com/creachadair/jfuzz"
	"github.com/creachadair/jfuzz/backend/hujson"
	"github.com/creachadair/jfuzz/backend/jsontext"
	"github.com/creachadair/jfuzz/backend/native"
	"github.com/creachadair/jfuzz/backend/stdjson"
)

// registry lists the available backends in their default order. The first
// entry leads comparisons by default.
var registry = []jfuzz.Parser{
	native.Parser{},
	stdjson.Parser{},
	jsontext.Parser{},
	hujson.Parser{},
}

// Default returns all the registered backends in their default order.
func Default() []jfuzz.Parser { return append([]jfuzz.Parser(nil), registry...) }

// Names returns the names of the registered backends in their default order.
func Names() []string {
	out := make([]string, len(registry))
	for i, p := range registry {
		out[i] = p.Name()
	}
	return out
}

// Lookup returns the backend with the given name, or nil if there is none.
func Lookup(name string) jfuzz.Parser {
	for _, p := range registry {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Select returns the backends named, in the order given. The first one named
// leads comparisons. If names is empty, Select returns Default(). It reports
// an error for an unknown or repeated name.
func Select(names []string) ([]jfuzz.Parser, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	seen := make(map[string]bool)
	var out []jfuzz.Parser
	for _, name := range names {
		name = strings.TrimSpace(name)
		p := Lookup(name)
		if p == nil {
			return nil, fmt.Errorf("unknown parser %q (known: %s)", name, strings.Join(Names(), ", "))
		} else if seen[name] {
			return nil, fmt.Errorf("parser %q selected more than once", name)
		}
		seen[name] = true
		out = append(out, p)
	}
	return out, nil
}
