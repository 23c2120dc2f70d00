// Copyright (C) 2020  Ambassador Labs (for Telepresence)
// Copyright (C) 2021-2022  Ambassador Labs (for ocibuild and wheel-resolver)
//
// SPDX-License-Identifier: Apache-2.0
//
// Based on
// https://github.com/telepresenceio/telepresence/blob/b6dfa04ff014915b47386191cc3d8b1352522fea/pkg/client/cli/command_group.go#L35-L63

package cliutil

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// TerminalWidth returns the width that text written to w should be wrapped to; 0 means "don't
// wrap".
//
// $COLUMNS wins if it is set.  Otherwise it is the width of w, if w is a terminal.  Help text
// goes to stderr when a subcommand is missing, so it is w that matters, not stdout.
func TerminalWidth(w io.Writer) int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil {
		return cols
	}

	file, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
		return cols
	}
	return 80
}
