// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep440 implements the parts of PEP 440 -- Version Identification and Dependency
// Specification that are needed to pick a release out of a package index.
//
// https://www.python.org/dev/peps/pep-0440/
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Version is a parsed and normalized version identifier:
//
//     [N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local]
type Version struct {
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
	Local   []intstr.IntOrString
}

type PreRelease struct {
	L string // "a", "b", or "rc"
	N int
}

// This is the permissive regexp from Appendix B of PEP 440.
var reVersion = regexp.MustCompile(`(?i)^\s*` + regexp.MustCompile(`\s+`).ReplaceAllString(`
	v?
	(?:
		(?:(?P<epoch>[0-9]+)!)?
		(?P<release>[0-9]+(?:\.[0-9]+)*)
		(?P<pre>
			[-_\.]?
			(?P<pre_l>alpha|beta|preview|pre|rc|a|b|c)
			[-_\.]?
			(?P<pre_n>[0-9]+)?
		)?
		(?P<post>
			(?:-(?P<post_n1>[0-9]+))
			|
			(?:[-_\.]?(?P<post_l>post|rev|r)[-_\.]?(?P<post_n2>[0-9]+)?)
		)?
		(?P<dev>
			[-_\.]?
			(?P<dev_l>dev)
			[-_\.]?
			(?P<dev_n>[0-9]+)?
		)?
	)
	(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?
`, ``) + `\s*$`)

var reLocalSeparator = regexp.MustCompile(`[-_.]`)

//nolint:gochecknoglobals // Would be 'const'.
var preReleaseSpellings = map[string]string{
	"a":       "a",
	"alpha":   "a",
	"b":       "b",
	"beta":    "b",
	"c":       "rc",
	"rc":      "rc",
	"pre":     "rc",
	"preview": "rc",
}

// ParseVersion parses a string to a Version object, performing normalization.
func ParseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("pep440.ParseVersion: invalid version: %q", str)
	}
	group := func(name string) string {
		return match[reVersion.SubexpIndex(name)]
	}
	var numErr error
	atoi := func(s string) int {
		// The regexp guarantees that these are digits (or empty, meaning 0); only overflow
		// can fail.
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil && numErr == nil {
			numErr = fmt.Errorf("pep440.ParseVersion: invalid version: %q: number too large: %s", str, s)
		}
		return n
	}

	var ver Version
	if epoch := group("epoch"); epoch != "" {
		ver.Epoch = atoi(epoch)
	}
	for _, seg := range strings.Split(group("release"), ".") {
		ver.Release = append(ver.Release, atoi(seg))
	}
	if group("pre") != "" {
		ver.Pre = &PreRelease{
			L: preReleaseSpellings[strings.ToLower(group("pre_l"))],
			N: atoi(group("pre_n")),
		}
	}
	if group("post") != "" {
		n := atoi(group("post_n1") + group("post_n2"))
		ver.Post = &n
	}
	if group("dev") != "" {
		n := atoi(group("dev_n"))
		ver.Dev = &n
	}
	if local := group("local"); local != "" {
		for _, seg := range reLocalSeparator.Split(strings.ToLower(local), -1) {
			if strings.Trim(seg, "0123456789") != "" {
				ver.Local = append(ver.Local, intstr.FromString(seg))
				continue
			}
			// intstr holds an int32.
			n, err := strconv.ParseInt(seg, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("pep440.ParseVersion: invalid version: %q: "+
					"local version segment too large: %s", str, seg)
			}
			ver.Local = append(ver.Local, intstr.FromInt(int(n)))
		}
	}
	if numErr != nil {
		return nil, numErr
	}
	return &ver, nil
}

// String implements fmt.Stringer, returning the normalized form of the version.
func (ver Version) String() string {
	var ret strings.Builder
	if ver.Epoch > 0 {
		fmt.Fprintf(&ret, "%d!", ver.Epoch)
	}
	for i, seg := range ver.Release {
		if i > 0 {
			ret.WriteString(".")
		}
		ret.WriteString(strconv.Itoa(seg))
	}
	if ver.Pre != nil {
		fmt.Fprintf(&ret, "%s%d", ver.Pre.L, ver.Pre.N)
	}
	if ver.Post != nil {
		fmt.Fprintf(&ret, ".post%d", *ver.Post)
	}
	if ver.Dev != nil {
		fmt.Fprintf(&ret, ".dev%d", *ver.Dev)
	}
	for i, seg := range ver.Local {
		if i == 0 {
			ret.WriteString("+")
		} else {
			ret.WriteString(".")
		}
		ret.WriteString(seg.String())
	}
	return ret.String()
}

// Public returns the version with any local version label stripped off.
func (ver Version) Public() Version {
	ver.Local = nil
	return ver
}

func (ver Version) IsPreRelease() bool {
	return ver.Pre != nil || ver.Dev != nil
}

func (ver Version) IsPostRelease() bool {
	return ver.Post != nil
}

func (ver Version) IsFinal() bool {
	return ver.Pre == nil && ver.Post == nil && ver.Dev == nil && len(ver.Local) == 0
}

func (ver Version) releaseSegment(n int) int {
	if n < len(ver.Release) {
		return ver.Release[n]
	}
	return 0
}

func (ver Version) Major() int { return ver.releaseSegment(0) }
func (ver Version) Minor() int { return ver.releaseSegment(1) }
func (ver Version) Micro() int { return ver.releaseSegment(2) }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

//nolint:gochecknoglobals // Would be 'const'.
var preReleaseOrder = map[string]int{
	"a":  0,
	"b":  1,
	"rc": 2,
}

// preKey returns a sortable tuple for the pre-release part.  A developmental release with no
// pre-release or post-release part sorts before all pre-releases of the same release; a final
// release sorts after all of them.
func (ver Version) preKey() (int, int, int) {
	switch {
	case ver.Pre == nil && ver.Post == nil && ver.Dev != nil:
		return -1, 0, 0
	case ver.Pre == nil:
		return 1, 0, 0
	default:
		return 0, preReleaseOrder[ver.Pre.L], ver.Pre.N
	}
}

func cmpLocalSegment(a, b intstr.IntOrString) int {
	switch {
	case a.Type == intstr.Int && b.Type == intstr.Int:
		return cmpInt(int(a.IntVal), int(b.IntVal))
	case a.Type == intstr.String && b.Type == intstr.String:
		return strings.Compare(a.StrVal, b.StrVal)
	case a.Type == intstr.Int:
		// numeric segments sort after alphanumeric ones
		return 1
	default:
		return -1
	}
}

// Cmp returns an integer comparing two versions according to the PEP 440 ordering rules.  The
// result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func (a Version) Cmp(b Version) int {
	if d := cmpInt(a.Epoch, b.Epoch); d != 0 {
		return d
	}
	for i := 0; i < len(a.Release) || i < len(b.Release); i++ {
		if d := cmpInt(a.releaseSegment(i), b.releaseSegment(i)); d != 0 {
			return d
		}
	}

	aPre0, aPre1, aPre2 := a.preKey()
	bPre0, bPre1, bPre2 := b.preKey()
	for _, pair := range [][2]int{{aPre0, bPre0}, {aPre1, bPre1}, {aPre2, bPre2}} {
		if d := cmpInt(pair[0], pair[1]); d != 0 {
			return d
		}
	}

	// no post-release sorts before any post-release
	switch {
	case a.Post == nil && b.Post != nil:
		return -1
	case a.Post != nil && b.Post == nil:
		return 1
	case a.Post != nil && b.Post != nil:
		if d := cmpInt(*a.Post, *b.Post); d != 0 {
			return d
		}
	}

	// no dev-release sorts after any dev-release
	switch {
	case a.Dev == nil && b.Dev != nil:
		return 1
	case a.Dev != nil && b.Dev == nil:
		return -1
	case a.Dev != nil && b.Dev != nil:
		if d := cmpInt(*a.Dev, *b.Dev); d != 0 {
			return d
		}
	}

	for i := 0; i < len(a.Local) || i < len(b.Local); i++ {
		switch {
		case i >= len(a.Local):
			return -1
		case i >= len(b.Local):
			return 1
		}
		if d := cmpLocalSegment(a.Local[i], b.Local[i]); d != 0 {
			return d
		}
	}
	return 0
}
