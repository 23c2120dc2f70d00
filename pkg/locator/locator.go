// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package locator finds the files that a package index offers for a requirement.
package locator

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/datawire/dlib/dlog"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
	"github.com/datawire/wheelresolver/pkg/python/pep508"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
)

// Distribution is one version of a project, and every file that the index offers for it.
type Distribution struct {
	Name    string
	Version pep440.Version

	// DownloadURLs do not include a checksum fragment; the checksums are in Digests, keyed by
	// URL.
	DownloadURLs sets.String
	Digests      map[string]python.Digest
}

type Locator interface {
	// Locate returns the best Distribution for a requirement string, such as "PyYAML (==6.0)".
	// If the index has no matching Distribution, it returns (nil, nil).
	Locate(ctx context.Context, requirement string, prereleases bool) (*Distribution, error)

	// BaseURL identifies the index, for use in error messages.
	BaseURL() string
}

type Kind string

const (
	KindSimple Kind = "simple"
	KindJSON   Kind = "json"
)

type Options struct {
	HTTPClient *http.Client
	UserAgent  string

	// Python, if set, causes files whose requires-python excludes it to be ignored.
	Python *pep440.Version

	// Retries is how many times to retry transient failures; 0 disables the Retrying wrapper.
	Retries int
}

// New returns a Locator for the index at baseURL.  An empty baseURL means the public PyPI.
func New(kind Kind, baseURL string, opts Options) (Locator, error) {
	var loc Locator
	switch kind {
	case KindSimple, "":
		loc = NewSimple(baseURL, opts)
	case KindJSON:
		loc = NewJSON(baseURL, opts)
	default:
		return nil, fmt.Errorf("invalid index kind %q: must be %q or %q", kind, KindSimple, KindJSON)
	}
	if opts.Retries > 0 {
		backoff := DefaultBackoff
		backoff.Steps = opts.Retries + 1
		loc = &Retrying{Locator: loc, Backoff: backoff}
	}
	return loc, nil
}

// candidate is a single file offered by an index.
type candidate struct {
	version pep440.Version
	url     string
	digest  *python.Digest
}

// pinsExact returns whether the specifier names an exact version, which per PEP 592 makes yanked
// files eligible.
func pinsExact(spec pep440.Specifier) bool {
	for _, clause := range spec {
		if clause.CmpOp == pep440.CmpOpStrictMatch || clause.CmpOp == pep440.CmpOpArbitrary {
			return true
		}
	}
	return false
}

// choose selects the best version among the candidates and gathers up all of the files for it.
func choose(ctx context.Context, req *pep508.Requirement, cands []candidate, prereleases bool) *Distribution {
	var versions []pep440.Version
	seen := sets.NewString()
	for _, cand := range cands {
		key := cand.version.String()
		if seen.Has(key) {
			continue
		}
		seen.Insert(key)
		versions = append(versions, cand.version)
	}
	best := req.Specifier.Select(versions, prereleases)
	if best == nil {
		dlog.Debugf(ctx, "%s: none of %d versions match", req, len(versions))
		return nil
	}
	dlog.Debugf(ctx, "%s: selected version %s", req, best)

	dist := &Distribution{
		Name:         req.Name,
		Version:      *best,
		DownloadURLs: sets.NewString(),
		Digests:      make(map[string]python.Digest),
	}
	for _, cand := range cands {
		if cand.version.Cmp(*best) != 0 {
			continue
		}
		dist.DownloadURLs.Insert(cand.url)
		if cand.digest != nil {
			dist.Digests[cand.url] = *cand.digest
		}
	}
	return dist
}

//nolint:gochecknoglobals // Would be 'const'.
var sdistExts = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".tbz", ".zip"}

// versionFromFilename works out which version of the project a file is for.  It returns false if
// the file isn't a wheel or sdist of the project.
func versionFromFilename(project, filename string) (pep440.Version, bool) {
	project = pep508.NormalizeName(project)

	if bdist.IsWheel(filename) {
		data, err := bdist.ParseFilename(filename)
		if err != nil || pep508.NormalizeName(data.Distribution) != project {
			return pep440.Version{}, false
		}
		return data.Version, true
	}

	for _, ext := range sdistExts {
		if !strings.HasSuffix(strings.ToLower(filename), ext) {
			continue
		}
		stem := filename[:len(filename)-len(ext)]
		// The project name may itself contain dashes, so try each split point.
		for i := range stem {
			if stem[i] != '-' || pep508.NormalizeName(stem[:i]) != project {
				continue
			}
			if ver, err := pep440.ParseVersion(stem[i+1:]); err == nil {
				return *ver, true
			}
		}
	}
	return pep440.Version{}, false
}

// checkWheelName returns a *bdist.MalformedWheelNameError if filename ends in ".whl" but isn't a
// valid wheel filename.  Every locator checks every file it is offered, whether or not the file is
// for the version that ends up being selected.
func checkWheelName(ctx context.Context, index, filename string) error {
	if !bdist.IsWheel(filename) {
		return nil
	}
	if _, err := bdist.ParseFilename(filename); err != nil {
		dlog.Errorf(ctx, "index %s offers a file that is not a valid wheel: %v", index, err)
		return err
	}
	return nil
}
