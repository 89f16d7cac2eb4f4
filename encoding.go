// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfuzz

import (
	"github.com/creachadair/jfuzz/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value, for display in logs and
// diagnostics. The contents are escaped and double quotation marks are added.
// Bytes that are not valid UTF-8 are encoded as the replacement rune.
func Quote(src string) string {
	return `"` + string(escape.Quote(mem.S(src))) + `"`
}
