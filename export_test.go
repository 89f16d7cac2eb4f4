// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jfuzz

// TimeNow exposes the report clock to tests.
var TimeNow = &timeNow
