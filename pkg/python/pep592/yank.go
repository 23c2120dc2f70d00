// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep592 implements PEP 592 -- Adding "Yank" Support to the Simple API.
//
// https://www.python.org/dev/peps/pep-0592/
package pep592

import (
	"github.com/datawire/wheelresolver/pkg/python/pep503"
)

func IsYanked(l pep503.FileLink) bool {
	_, yanked := l.DataAttrs["data-yanked"]
	return yanked
}

// YankReason returns the reason the index gave for yanking the file, which may be empty even if
// the file is yanked.
func YankReason(l pep503.FileLink) string {
	return l.DataAttrs["data-yanked"]
}

// Usable returns whether a link may be used for installation.  A yanked file is only usable if
// the requirement pins an exact version (with "==" or "===").
func Usable(l pep503.FileLink, pinned bool) bool {
	return pinned || !IsYanked(l)
}
