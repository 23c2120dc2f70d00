// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pypijson is a client for the PyPI JSON API.
//
// https://warehouse.pypa.io/api-reference/json.html
package pypijson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/wheelresolver/pkg/python/pep503"
	"github.com/datawire/wheelresolver/pkg/python/pep508"
)

const PyPIBaseURL = "https://pypi.org/pypi"

// ErrNotFound is returned when the index has no such project.
var ErrNotFound = errors.New("project not found")

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = pep503.DefaultUserAgent
	}
}

// HTTPError is the same type that the simple API returns, so that callers can treat both index
// kinds alike.
type HTTPError = pep503.HTTPError

// Project is the subset of the "/{name}/json" response that is needed to locate files.
type Project struct {
	Info     ProjectInfo       `json:"info"`
	Releases map[string][]File `json:"releases"`
}

type ProjectInfo struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	RequiresPython string `json:"requires_python"`
}

type File struct {
	Filename       string            `json:"filename"`
	URL            string            `json:"url"`
	PackageType    string            `json:"packagetype"`
	RequiresPython string            `json:"requires_python"`
	Digests        map[string]string `json:"digests"`
	Yanked         bool              `json:"yanked"`
	YankedReason   string            `json:"yanked_reason"`
}

// GetProject fetches the metadata for every release of a project.  A project that the index
// doesn't know about is ErrNotFound.
func (c Client) GetProject(ctx context.Context, name string) (_ *Project, err error) {
	if err := pep503.ValidateName(name); err != nil {
		return nil, err
	}
	c.fillDefaults()

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, pep508.NormalizeName(name), "json")
	requestURL := u.String()
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	dlog.Debugf(ctx, "GET %s", requestURL)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{URL: requestURL, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	var project Project
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &project, nil
}
