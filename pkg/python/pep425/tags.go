// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep425 implements PEP 425 -- Compatibility Tags for Built Distributions.
//
// https://www.python.org/dev/peps/pep-0425/
package pep425

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

type Tag struct {
	Python   string
	ABI      string
	Platform string
}

// ParseTag parses a "python-abi-platform" string.  The individual fields may be compressed tag
// sets ("py2.py3"); use Decompress to expand them.
func ParseTag(str string) (Tag, error) {
	parts := strings.Split(str, "-")
	if len(parts) != 3 {
		return Tag{}, fmt.Errorf("pep425.ParseTag: invalid tag %q: expected 3 dash-separated fields, got %d",
			str, len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return Tag{}, fmt.Errorf("pep425.ParseTag: invalid tag %q: empty field", str)
		}
	}
	return Tag{Python: parts[0], ABI: parts[1], Platform: parts[2]}, nil
}

// ParseTags is ParseTag over a list, preserving order.
func ParseTags(strs []string) (Installer, error) {
	ret := make(Installer, 0, len(strs))
	for _, str := range strs {
		tag, err := ParseTag(str)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tag)
	}
	return ret, nil
}

// Decompress expands a compressed tag set in to the cartesian product of its alternatives.
func (t Tag) Decompress() []Tag {
	var ret []Tag
	for _, x := range strings.Split(t.Python, ".") {
		for _, y := range strings.Split(t.ABI, ".") {
			for _, z := range strings.Split(t.Platform, ".") {
				ret = append(ret, Tag{x, y, z})
			}
		}
	}
	return ret
}

func (t Tag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	tag, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// TagSet is a set of decompressed tags, in their string form.
type TagSet = sets.String

// NewTagSet returns the set of all tags that any of the given (possibly compressed) tags expand to.
func NewTagSet(tags ...Tag) TagSet {
	ret := sets.NewString()
	for _, tag := range tags {
		for _, single := range tag.Decompress() {
			ret.Insert(single.String())
		}
	}
	return ret
}

// Intersect returns whether any tag in tag-list 'a' matches any tag in tag-list 'b'; considering
// compressed tag sets.
func Intersect(a, b []Tag) bool {
	return NewTagSet(a...).HasAny(NewTagSet(b...).UnsortedList()...)
}

// Installer is a list of tags that an installer supports, ordered from most-preferred to
// least-preferred.
//
// To get this for a live Python install, use python.SysTags, or the command:
//
//     python -c $'import packaging.tags\nfor tag in packaging.tags.sys_tags(): print(tag)'
type Installer []Tag

// Set returns the installer's tags as an unordered set.
func (inst Installer) Set() TagSet {
	return NewTagSet(inst...)
}

func (inst Installer) Supports(t Tag) bool {
	return Intersect([]Tag(inst), []Tag{t})
}

func (inst Installer) Strings() []string {
	ret := make([]string, 0, len(inst))
	for _, tag := range inst {
		ret = append(ret, tag.String())
	}
	return ret
}

// GenericTags mirrors `packaging.tags.generic_tags()` over several interpreters: for each
// interpreter, every ABI (plus "none") is combined with every platform (plus "any").  Duplicate
// tags are dropped; order is otherwise interpreter-major, as given.
func GenericTags(interpreters, abis, platforms []string) Installer {
	abis = appendMissing(abis, "none")
	platforms = appendMissing(platforms, "any")

	seen := sets.NewString()
	var ret Installer
	for _, interp := range interpreters {
		for _, abi := range abis {
			for _, plat := range platforms {
				tag := Tag{Python: interp, ABI: abi, Platform: plat}
				if seen.Has(tag.String()) {
					continue
				}
				seen.Insert(tag.String())
				ret = append(ret, tag)
			}
		}
	}
	return ret
}

func appendMissing(list []string, item string) []string {
	for _, x := range list {
		if x == item {
			return list
		}
	}
	ret := make([]string, 0, len(list)+1)
	ret = append(ret, list...)
	return append(ret, item)
}
