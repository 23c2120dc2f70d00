// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"net/http"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep503"
	"github.com/datawire/wheelresolver/pkg/python/pep508"
	"github.com/datawire/wheelresolver/pkg/python/pep592"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
	"github.com/datawire/wheelresolver/pkg/python/pypa/simple_repo_api"
)

// Simple locates files by scraping a PEP 503 "simple" index.
type Simple struct {
	client pep503.Client
}

var _ Locator = (*Simple)(nil)

func NewSimple(baseURL string, opts Options) *Simple {
	if baseURL == "" {
		baseURL = pep503.PyPIBaseURL
	}
	client := simple_repo_api.NewClient(baseURL)
	client.HTTPClient = opts.HTTPClient
	client.UserAgent = opts.UserAgent
	client.Python = opts.Python
	return &Simple{client: client}
}

func (l *Simple) BaseURL() string {
	return l.client.BaseURL
}

func (l *Simple) Locate(ctx context.Context, requirement string, prereleases bool) (*Distribution, error) {
	req, err := pep508.ParseRequirement(requirement)
	if err != nil {
		return nil, err
	}

	links, err := l.client.ListPackageFiles(ctx, req.Name)
	if err != nil {
		var httpErr *pep503.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			dlog.Debugf(ctx, "%s: not on index %s", req.Name, l.BaseURL())
			return nil, nil
		}
		return nil, err
	}

	pinned := pinsExact(req.Specifier)
	var cands []candidate
	for _, link := range links {
		fileURL := link.URL()
		filename := bdist.Basename(fileURL)
		if err := checkWheelName(ctx, l.BaseURL(), filename); err != nil {
			return nil, err
		}
		if !pep592.Usable(link, pinned) {
			dlog.Debugf(ctx, "skipping yanked file %q: %s", link.Text, pep592.YankReason(link))
			continue
		}
		ver, ok := versionFromFilename(req.Name, filename)
		if !ok {
			dlog.Debugf(ctx, "skipping unrecognized file %q", link.Text)
			continue
		}
		cand := candidate{version: ver, url: fileURL}
		if digests := link.Digests(); len(digests) > 0 {
			cand.digest = preferredDigest(digests)
		}
		cands = append(cands, cand)
	}
	return choose(ctx, req, cands, prereleases), nil
}

// preferredDigest picks the strongest of the digests an index published.
func preferredDigest(digests []python.Digest) *python.Digest {
	for _, algo := range []string{"sha512", "sha384", "sha256", "sha224", "sha1", "md5"} {
		for i := range digests {
			if digests[i].Algorithm == algo {
				return &digests[i]
			}
		}
	}
	return nil
}
