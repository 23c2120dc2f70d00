// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"strings"
)

// Specifier is a comma-separated list of clauses, all of which must match.  An empty Specifier
// matches every version.
type Specifier []SpecifierClause

func ParseSpecifier(str string) (Specifier, error) {
	clauseStrs := strings.FieldsFunc(str, func(r rune) bool { return r == ',' })
	ret := make(Specifier, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		if strings.TrimSpace(clauseStr) == "" {
			continue
		}
		clause, err := parseSpecifierClause(clauseStr)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseSpecifier: %w", err)
		}
		ret = append(ret, clause)
	}
	return ret, nil
}

func (spec Specifier) String() string {
	strs := make([]string, 0, len(spec))
	for _, clause := range spec {
		strs = append(strs, clause.String())
	}
	return strings.Join(strs, ",")
}

func (spec Specifier) Match(ver Version) bool {
	for _, clause := range spec {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

// PinsPreRelease returns whether any inclusive clause of the specifier names a pre-release; in
// which case pre-releases are acceptable candidates even if they weren't asked for.
func (spec Specifier) PinsPreRelease() bool {
	for _, clause := range spec {
		switch clause.CmpOp {
		case CmpOpCompatible, CmpOpStrictMatch, CmpOpPrefixMatch, CmpOpLE, CmpOpGE, CmpOpArbitrary:
			if clause.Version.IsPreRelease() {
				return true
			}
		}
	}
	return false
}

// Select returns the highest version in choices that matches the specifier, or nil if none do.
//
// Pre-releases are only considered if prereleases is true, if the specifier itself pins a
// pre-release, or if no final release matches at all.
func (spec Specifier) Select(choices []Version, prereleases bool) *Version {
	allowPre := prereleases || spec.PinsPreRelease()
	var best, bestPre *Version
	for i := range choices {
		choice := choices[i]
		if !spec.Match(choice) {
			continue
		}
		if choice.IsPreRelease() && !allowPre {
			if bestPre == nil || bestPre.Cmp(choice) < 0 {
				bestPre = &choice
			}
			continue
		}
		if best == nil || best.Cmp(choice) < 0 {
			best = &choice
		}
	}
	if best != nil {
		return best
	}
	return bestPre
}

type CmpOp int

const (
	CmpOpCompatible   CmpOp = iota // "~="
	CmpOpStrictMatch               // "=="
	CmpOpPrefixMatch               // "==" with ".*"
	CmpOpStrictExclude             // "!="
	CmpOpPrefixExclude             // "!=" with ".*"
	CmpOpLE                        // "<="
	CmpOpGE                        // ">="
	CmpOpLT                        // "<"
	CmpOpGT                        // ">"
	CmpOpArbitrary                 // "==="

	_CmpOpEnd
)

func (op CmpOp) String() string {
	str, ok := map[CmpOp]string{
		CmpOpCompatible:    "~=",
		CmpOpStrictMatch:   "==",
		CmpOpPrefixMatch:   "==",
		CmpOpStrictExclude: "!=",
		CmpOpPrefixExclude: "!=",
		CmpOpLE:            "<=",
		CmpOpGE:            ">=",
		CmpOpLT:            "<",
		CmpOpGT:            ">",
		CmpOpArbitrary:     "===",
	}[op]
	if !ok {
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
	return str
}

type SpecifierClause struct {
	CmpOp   CmpOp
	Version Version

	// raw is the version exactly as written; only "===" cares about it.
	raw string
}

func parseSpecifierClause(str string) (SpecifierClause, error) {
	str = strings.TrimSpace(str)
	var ret SpecifierClause

	// Longest operators first, so that "===" isn't read as "==".
	for _, op := range []struct {
		prefix string
		op     CmpOp
	}{
		{"===", CmpOpArbitrary},
		{"~=", CmpOpCompatible},
		{"==", CmpOpStrictMatch},
		{"!=", CmpOpStrictExclude},
		{"<=", CmpOpLE},
		{">=", CmpOpGE},
		{"<", CmpOpLT},
		{">", CmpOpGT},
	} {
		if strings.HasPrefix(str, op.prefix) {
			ret.CmpOp = op.op
			str = strings.TrimSpace(strings.TrimPrefix(str, op.prefix))
			break
		}
	}
	if str == "" {
		return SpecifierClause{}, fmt.Errorf("invalid specifier clause: missing version")
	}
	ret.raw = str
	if ret.CmpOp == CmpOpArbitrary {
		if ver, err := ParseVersion(str); err == nil {
			ret.Version = *ver
		}
		return ret, nil
	}

	if strings.HasSuffix(str, ".*") {
		switch ret.CmpOp {
		case CmpOpStrictMatch:
			ret.CmpOp = CmpOpPrefixMatch
		case CmpOpStrictExclude:
			ret.CmpOp = CmpOpPrefixExclude
		default:
			return SpecifierClause{}, fmt.Errorf("invalid specifier clause: %q: "+
				"prefix matching is only permitted with == and !=", str)
		}
		str = strings.TrimSuffix(str, ".*")
	}
	ver, err := ParseVersion(str)
	if err != nil {
		return SpecifierClause{}, err
	}
	if ret.CmpOp == CmpOpPrefixMatch || ret.CmpOp == CmpOpPrefixExclude {
		if ver.Dev != nil || len(ver.Local) > 0 {
			return SpecifierClause{}, fmt.Errorf("invalid specifier clause: %q: "+
				"prefix match may not name a dev-release or local version", str)
		}
	}
	if ret.CmpOp == CmpOpCompatible && len(ver.Release) < 2 {
		return SpecifierClause{}, fmt.Errorf("invalid specifier clause: %q: "+
			"~= requires at least 2 release segments", str)
	}
	ret.Version = *ver
	return ret, nil
}

func (spec SpecifierClause) String() string {
	if spec.CmpOp == CmpOpArbitrary {
		return spec.CmpOp.String() + spec.raw
	}
	str := spec.CmpOp.String() + spec.Version.String()
	if spec.CmpOp == CmpOpPrefixMatch || spec.CmpOp == CmpOpPrefixExclude {
		str += ".*"
	}
	return str
}

func (spec SpecifierClause) Match(ver Version) bool {
	switch spec.CmpOp {
	case CmpOpCompatible:
		prefix := spec.Version
		prefix.Release = prefix.Release[:len(prefix.Release)-1]
		prefix.Pre, prefix.Post, prefix.Dev = nil, nil, nil
		return ver.Public().Cmp(spec.Version) >= 0 && matchPrefix(prefix, ver)
	case CmpOpStrictMatch:
		if len(spec.Version.Local) == 0 {
			ver = ver.Public()
		}
		return spec.Version.Cmp(ver) == 0
	case CmpOpPrefixMatch:
		return matchPrefix(spec.Version, ver)
	case CmpOpStrictExclude:
		return !SpecifierClause{CmpOp: CmpOpStrictMatch, Version: spec.Version}.Match(ver)
	case CmpOpPrefixExclude:
		return !matchPrefix(spec.Version, ver)
	case CmpOpLE:
		return ver.Public().Cmp(spec.Version) <= 0
	case CmpOpGE:
		return ver.Public().Cmp(spec.Version) >= 0
	case CmpOpLT:
		if ver.Cmp(spec.Version) >= 0 {
			return false
		}
		// "<V" must not match a pre-release of V, unless V is itself a pre-release.
		if !spec.Version.IsPreRelease() && ver.IsPreRelease() && sameRelease(ver, spec.Version) {
			return false
		}
		return true
	case CmpOpGT:
		if ver.Cmp(spec.Version) <= 0 {
			return false
		}
		// ">V" must not match a post-release or local version of V, unless V is itself
		// a post-release.
		if !spec.Version.IsPostRelease() && ver.IsPostRelease() && sameRelease(ver, spec.Version) {
			return false
		}
		if len(ver.Local) > 0 && ver.Public().Cmp(spec.Version) == 0 {
			return false
		}
		return true
	case CmpOpArbitrary:
		return strings.EqualFold(strings.TrimSpace(spec.raw), ver.String())
	default:
		return false
	}
}

// sameRelease returns whether a and b have the same epoch and release segment.
func sameRelease(a, b Version) bool {
	a = Version{Epoch: a.Epoch, Release: a.Release}
	b = Version{Epoch: b.Epoch, Release: b.Release}
	return a.Cmp(b) == 0
}

// matchPrefix implements "==V.*": the candidate's release segment, zero-padded or truncated to
// the length of V's, must equal V's; any pre-release or post-release named by V must match too.
func matchPrefix(spec, ver Version) bool {
	if spec.Epoch != ver.Epoch {
		return false
	}
	for i := range spec.Release {
		if spec.Release[i] != ver.releaseSegment(i) {
			return false
		}
	}
	if spec.Pre == nil && spec.Post == nil {
		return true
	}
	if len(ver.Release) > len(spec.Release) {
		for _, seg := range ver.Release[len(spec.Release):] {
			if seg != 0 {
				return false
			}
		}
	}
	if spec.Pre != nil {
		if ver.Pre == nil || *ver.Pre != *spec.Pre {
			return false
		}
	}
	if spec.Post != nil {
		if ver.Post == nil || *ver.Post != *spec.Post {
			return false
		}
	}
	return true
}
