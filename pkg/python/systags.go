// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package python

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/datawire/dlib/dexec"

	"github.com/datawire/wheelresolver/pkg/python/pep425"
)

const sysTagsScript = `
from packaging.tags import sys_tags
for tag in sys_tags():
    print(tag)
`

// SysTags asks a Python interpreter for the tags that it supports, most-preferred first, as
// reported by `packaging.tags.sys_tags()`.  The cmdline is the interpreter to run; such as
// "python3" or "/usr/bin/python3.10".
func SysTags(ctx context.Context, cmdline ...string) (pep425.Installer, error) {
	if len(cmdline) == 0 {
		cmdline = []string{"python3"}
	}
	cmd := dexec.CommandContext(ctx, cmdline[0], append(cmdline[1:], "-c", sysTagsScript)...)
	cmd.DisableLogging = true
	bs, err := cmd.Output()
	if err != nil {
		var exitErr *dexec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%w:\n > %s", err,
				strings.Join(strings.Split(strings.TrimSpace(string(exitErr.Stderr)), "\n"), "\n > "))
		}
		return nil, fmt.Errorf("running Python: %w", err)
	}
	return ParseTagLines(string(bs))
}

// ParseTagLines parses newline-separated tags, ignoring blank lines.
func ParseTagLines(str string) (pep425.Installer, error) {
	var lines []string
	for _, line := range strings.Split(str, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return pep425.ParseTags(lines)
}

// SplitTags returns the distinct interpreters, ABIs, and platforms named by a list of tags, each
// in order of first appearance.
func SplitTags(tags pep425.Installer) (interpreters, abis, platforms []string) {
	seen := make(map[string]bool)
	add := func(list []string, kind, item string) []string {
		if seen[kind+item] {
			return list
		}
		seen[kind+item] = true
		return append(list, item)
	}
	for _, tag := range tags {
		for _, single := range tag.Decompress() {
			interpreters = add(interpreters, "interpreter:", single.Python)
			abis = add(abis, "abi:", single.ABI)
			platforms = add(platforms, "platform:", single.Platform)
		}
	}
	return interpreters, abis, platforms
}
