// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep508 implements the name-and-version subset of PEP 508 -- Dependency specification
// for Python Software Packages.  Extras, URLs, and environment markers are not supported.
//
// https://www.python.org/dev/peps/pep-0508/
package pep508

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/datawire/wheelresolver/pkg/python/pep440"
)

type Requirement struct {
	Name      string
	Specifier pep440.Specifier
}

var reRequirement = regexp.MustCompile(`^\s*` +
	`(?P<name>[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)` +
	`\s*` +
	`(?:\((?P<paren>[^()]*)\)|(?P<bare>[<>=!~][^()]*))?` +
	`\s*$`)

// ParseRequirement parses a requirement string.  Both the PEP 508 spelling ("name>=1.0,<2") and
// the older parenthesized PEP 345 spelling ("name (>=1.0,<2)") are accepted.
func ParseRequirement(str string) (*Requirement, error) {
	match := reRequirement.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("pep508.ParseRequirement: invalid requirement: %q", str)
	}
	specStr := match[reRequirement.SubexpIndex("paren")] + match[reRequirement.SubexpIndex("bare")]
	spec, err := pep440.ParseSpecifier(specStr)
	if err != nil {
		return nil, fmt.Errorf("pep508.ParseRequirement: %q: %w", str, err)
	}
	return &Requirement{
		Name:      match[reRequirement.SubexpIndex("name")],
		Specifier: spec,
	}, nil
}

// String returns the requirement in the parenthesized form, "name (==1.0)", which is what locators
// are queried with.
func (req Requirement) String() string {
	if len(req.Specifier) == 0 {
		return req.Name
	}
	return fmt.Sprintf("%s (%s)", req.Name, req.Specifier)
}

// NormalizedName returns the name normalized as described by PEP 503: runs of "-", "_", and "."
// collapse to a single "-", and letters are lowercased.
func (req Requirement) NormalizedName() string {
	return NormalizeName(req.Name)
}

var reNameSeparators = regexp.MustCompile(`[-_.]+`)

func NormalizeName(name string) string {
	return strings.ToLower(reNameSeparators.ReplaceAllLiteralString(name, "-"))
}

// PinnedVersion returns the version named by a lone "==" clause, if that's what the specifier is.
func (req Requirement) PinnedVersion() (pep440.Version, bool) {
	if len(req.Specifier) != 1 || req.Specifier[0].CmpOp != pep440.CmpOpStrictMatch {
		return pep440.Version{}, false
	}
	return req.Specifier[0].Version, true
}
