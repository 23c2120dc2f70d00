// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package bdist

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/datawire/wheelresolver/pkg/python/pep425"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
)

// The wheel filename is ``{distribution}-{version}(-{build tag})?-{python tag}-{abi tag}-{platform
// tag}.whl``.
//
// The build tag is optional, and must start with a digit.  The last three components are the
// compatibility tags, each of which may be a "."-separated compressed tag set.

// MalformedWheelNameError is returned when a filename ends in ".whl" but does not follow the wheel
// naming convention.
type MalformedWheelNameError struct {
	Filename string
	Reason   string
}

func (e *MalformedWheelNameError) Error() string {
	return fmt.Sprintf("malformed wheel filename %q: %s", e.Filename, e.Reason)
}

type FileNameData struct {
	Distribution     string
	Version          pep440.Version
	BuildTag         *BuildTag
	CompatibilityTag pep425.Tag
}

type BuildTag struct {
	Int int
	Str string
}

func (t BuildTag) String() string {
	return fmt.Sprintf("%d%s", t.Int, t.Str)
}

// Basename returns the filename part of a URL or path, without any query or fragment.
func Basename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// IsWheel returns whether a URL or filename names a wheel file.
func IsWheel(rawURL string) bool {
	return strings.HasSuffix(Basename(rawURL), ".whl")
}

type rawFields struct {
	distribution string
	version      string
	build        string
	tag          pep425.Tag
}

func splitFilename(rawURL string) (*rawFields, error) {
	filename := Basename(rawURL)
	if !strings.HasSuffix(filename, ".whl") {
		return nil, &MalformedWheelNameError{Filename: filename, Reason: "does not end with .whl"}
	}
	parts := strings.Split(strings.TrimSuffix(filename, ".whl"), "-")
	for _, part := range parts {
		if part == "" {
			return nil, &MalformedWheelNameError{Filename: filename, Reason: "empty component"}
		}
	}
	var ret rawFields
	switch len(parts) {
	case 5:
		// no build tag
	case 6:
		ret.build = parts[2]
		if ret.build[0] < '0' || ret.build[0] > '9' {
			return nil, &MalformedWheelNameError{
				Filename: filename,
				Reason:   fmt.Sprintf("build tag %q does not start with a digit", ret.build),
			}
		}
	default:
		return nil, &MalformedWheelNameError{
			Filename: filename,
			Reason:   fmt.Sprintf("expected 5 or 6 dash-separated components, got %d", len(parts)),
		}
	}
	ret.distribution = parts[0]
	ret.version = parts[1]
	n := len(parts)
	ret.tag = pep425.Tag{
		Python:   parts[n-3],
		ABI:      parts[n-2],
		Platform: parts[n-1],
	}
	return &ret, nil
}

// ParseTags returns the full set of individual compatibility tags that a wheel URL or filename
// supports; that is: the cartesian product of its python, ABI, and platform tag sets.
func ParseTags(rawURL string) (pep425.TagSet, error) {
	fields, err := splitFilename(rawURL)
	if err != nil {
		return nil, err
	}
	return pep425.NewTagSet(fields.tag), nil
}

// ParseFilename parses all of the fields of a wheel filename (or of the last path segment of a
// wheel URL).
func ParseFilename(filename string) (*FileNameData, error) {
	fields, err := splitFilename(filename)
	if err != nil {
		return nil, err
	}

	ret := FileNameData{
		Distribution:     fields.distribution,
		CompatibilityTag: fields.tag,
	}

	ver, err := pep440.ParseVersion(fields.version)
	if err != nil {
		return nil, &MalformedWheelNameError{Filename: Basename(filename), Reason: err.Error()}
	}
	ret.Version = *ver

	if fields.build != "" {
		digits := strings.IndexFunc(fields.build, func(r rune) bool { return r < '0' || r > '9' })
		if digits < 0 {
			digits = len(fields.build)
		}
		n, _ := strconv.Atoi(fields.build[:digits])
		ret.BuildTag = &BuildTag{
			Int: n,
			Str: fields.build[digits:],
		}
	}

	return &ret, nil
}
