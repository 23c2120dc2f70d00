// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
	"github.com/datawire/wheelresolver/pkg/python/pep508"
	"github.com/datawire/wheelresolver/pkg/python/pypijson"
)

// JSON locates files using the PyPI JSON API.
type JSON struct {
	client pypijson.Client
	python *pep440.Version
}

var _ Locator = (*JSON)(nil)

func NewJSON(baseURL string, opts Options) *JSON {
	if baseURL == "" {
		baseURL = pypijson.PyPIBaseURL
	}
	return &JSON{
		client: pypijson.Client{
			BaseURL:    baseURL,
			HTTPClient: opts.HTTPClient,
			UserAgent:  opts.UserAgent,
		},
		python: opts.Python,
	}
}

func (l *JSON) BaseURL() string {
	return l.client.BaseURL
}

func (l *JSON) Locate(ctx context.Context, requirement string, prereleases bool) (*Distribution, error) {
	req, err := pep508.ParseRequirement(requirement)
	if err != nil {
		return nil, err
	}

	project, err := l.client.GetProject(ctx, req.Name)
	if err != nil {
		if errors.Is(err, pypijson.ErrNotFound) {
			dlog.Debugf(ctx, "%s: not on index %s", req.Name, l.BaseURL())
			return nil, nil
		}
		return nil, err
	}

	pinned := pinsExact(req.Specifier)
	var cands []candidate
	for verStr, files := range project.Releases {
		ver, err := pep440.ParseVersion(verStr)
		if err != nil {
			dlog.Debugf(ctx, "skipping unparsable version %q: %v", verStr, err)
			continue
		}
		for _, file := range files {
			if err := checkWheelName(ctx, l.BaseURL(), file.Filename); err != nil {
				return nil, err
			}
			if file.Yanked && !pinned {
				dlog.Debugf(ctx, "skipping yanked file %q: %s", file.Filename, file.YankedReason)
				continue
			}
			if !l.supportsPython(file.RequiresPython) {
				dlog.Debugf(ctx, "skipping %q: requires-python %q", file.Filename, file.RequiresPython)
				continue
			}
			cand := candidate{version: *ver, url: file.URL}
			if hexdigest, ok := file.Digests["sha256"]; ok {
				cand.digest = &python.Digest{Algorithm: "sha256", Hex: hexdigest}
			}
			cands = append(cands, cand)
		}
	}
	return choose(ctx, req, cands, prereleases), nil
}

func (l *JSON) supportsPython(requiresPython string) bool {
	if l.python == nil || requiresPython == "" {
		return true
	}
	spec, err := pep440.ParseSpecifier(requiresPython)
	if err != nil {
		return true
	}
	return spec.Match(*l.python)
}
