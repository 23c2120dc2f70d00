// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

const (
	wrapSlop     = 5
	wrapMinWidth = 24
)

// wrapN splits s at whitespace in to a first line of at most n bytes and the remainder.  It goes up
// to slop over n if that would finish the string.
func wrapN(n, slop int, s string) (string, string) {
	if n+slop > len(s) {
		return s, ""
	}
	sp := strings.LastIndexAny(s[:n], " \t\n")
	if sp <= 0 {
		return s, ""
	}
	if nl := strings.LastIndex(s[:n], "\n"); nl > 0 && nl < sp {
		return s[:nl], s[nl+1:]
	}
	return s[:sp], s[sp+1:]
}

// wrap is the same algorithm that pflag uses for flag usage text, so that the flag table and the
// rest of the help text wrap alike.
func wrap(i, w int, s string) string {
	if w == 0 {
		return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", i))
	}

	var ret strings.Builder
	width := w - i
	if width < wrapMinWidth {
		// Not enough room beside the indent; start on the next line instead.
		i = 16
		width = w - i
		ret.WriteString("\n" + strings.Repeat(" ", i))
	}
	indent := "\n" + strings.Repeat(" ", i)
	if width < wrapMinWidth {
		return ret.String() + strings.ReplaceAll(s, "\n", indent)
	}
	width -= wrapSlop

	line, s := wrapN(width, wrapSlop, s)
	ret.WriteString(strings.ReplaceAll(line, "\n", indent))
	for s != "" {
		line, s = wrapN(width, wrapSlop, s)
		ret.WriteString(indent + strings.ReplaceAll(line, "\n", indent))
	}
	return ret.String()
}
