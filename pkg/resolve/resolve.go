// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package resolve picks the wheel file to use for a package, given the compatibility tags that
// the target installation accepts.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/wheelresolver/pkg/locator"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep425"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
)

type Request struct {
	PackageName string
	// PackageVersion is an exact version; if empty, the latest version is used.
	PackageVersion string
	// Tags is the set of acceptable compatibility tags.
	Tags        pep425.TagSet
	Prereleases bool
}

// Requirement returns the requirement string that the index is queried with: "name" or
// "name (==version)".
func (r Request) Requirement() string {
	if r.PackageVersion == "" {
		return r.PackageName
	}
	return fmt.Sprintf("%s (==%s)", r.PackageName, r.PackageVersion)
}

// IsCompatible returns whether a URL is a wheel that supports at least one of the tags.
func IsCompatible(url string, tags pep425.TagSet) (bool, error) {
	if !bdist.IsWheel(url) {
		return false, nil
	}
	urlTags, err := bdist.ParseTags(url)
	if err != nil {
		return false, err
	}
	return urlTags.HasAny(tags.UnsortedList()...), nil
}

// Resolve returns the URL of the wheel to use for a request.  Of several compatible wheels, the
// lexicographically first is chosen.
func Resolve(ctx context.Context, loc locator.Locator, req Request) (string, error) {
	url, _, err := ResolveWithDigest(ctx, loc, req)
	return url, err
}

// ResolveWithDigest is like Resolve, but also returns the checksum that the index published for
// the file, if any.
func ResolveWithDigest(ctx context.Context, loc locator.Locator, req Request) (string, *python.Digest, error) {
	requirement := req.Requirement()
	dlog.Debugf(ctx, "looking up %s on %s", requirement, loc.BaseURL())
	dist, err := loc.Locate(ctx, requirement, req.Prereleases)
	if err != nil {
		return "", nil, fmt.Errorf("locating %s: %w", requirement, err)
	}
	if dist == nil {
		return "", nil, &DistributionNotFoundError{
			PackageName:    req.PackageName,
			PackageVersion: req.PackageVersion,
			Index:          loc.BaseURL(),
			Requirement:    requirement,
		}
	}

	var compatible []string
	for _, url := range dist.DownloadURLs.List() {
		ok, err := IsCompatible(url, req.Tags)
		if err != nil {
			dlog.Errorf(ctx, "index %s lists a malformed wheel: %v", loc.BaseURL(), err)
			return "", nil, err
		}
		if ok {
			compatible = append(compatible, url)
		}
	}
	if len(compatible) == 0 {
		return "", nil, &CompatibleURLNotFoundError{
			PackageName:    req.PackageName,
			PackageVersion: req.PackageVersion,
		}
	}

	if len(compatible) > 1 {
		dlog.Warnf(ctx, "%d compatible wheels found for %s, using the first:\n  %s",
			len(compatible), requirement, strings.Join(compatible, "\n  "))
	}
	var digest *python.Digest
	if d, ok := dist.Digests[compatible[0]]; ok {
		digest = &d
	}
	return compatible[0], digest, nil
}
