// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package reproducible implements the reproducible-builds.org SOURCE_DATE_EPOCH convention.
//
// https://reproducible-builds.org/specs/source-date-epoch/
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

// Now returns $SOURCE_DATE_EPOCH if it is set, or else the time of the first call to Now.
func Now() time.Time {
	nowOnce.Do(func() {
		now = parseEpoch(os.Getenv("SOURCE_DATE_EPOCH"), time.Now())
	})
	return now
}

func parseEpoch(str string, fallback time.Time) time.Time {
	secs, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fallback
	}
	return time.Unix(secs, 0).UTC()
}

// Clamp returns t, or ceiling if t is after it.
func Clamp(t, ceiling time.Time) time.Time {
	if t.After(ceiling) {
		return ceiling
	}
	return t
}
