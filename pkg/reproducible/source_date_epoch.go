// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package reproducible deals with the clock that ends up embedded in bundle output.
package reproducible

import (
	"os"
	"strconv"
	"sync"
	"time"
)

var (
	nowOnce sync.Once
	now     time.Time
)

// Now returns $SOURCE_DATE_EPOCH if it is set and valid, or the wall-clock time (truncated to
// whole seconds) otherwise.  The value is computed once per process, so that every file in a
// bundle gets the same timestamp.
func Now() time.Time {
	nowOnce.Do(func() {
		now = fromEnv(os.Getenv("SOURCE_DATE_EPOCH"), time.Now())
	})
	return now
}

func fromEnv(val string, fallback time.Time) time.Time {
	secs, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fallback.Truncate(time.Second)
	}
	return time.Unix(secs, 0)
}

// Clamp returns t, or max if t is after max.  A zero max means "no clamping".
func Clamp(t, max time.Time) time.Time {
	if !max.IsZero() && t.After(max) {
		return max
	}
	return t
}
