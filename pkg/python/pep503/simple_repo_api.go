// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep503 implements PEP 503 -- Simple Repository API.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/wheelresolver/pkg/htmlutil"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
	"github.com/datawire/wheelresolver/pkg/python/pep508"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	// If Python is set, then files with a data-requires-python attribute that excludes it are
	// left out of listings.
	Python *pep440.Version

	// HTMLHook, if set, is called on every parsed index page before links are extracted from
	// it.
	HTMLHook func(context.Context, *html.Node) error
}

const PyPIBaseURL = "https://pypi.org/simple/"

const DefaultUserAgent = "github.com/datawire/wheelresolver"

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

type HTTPError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

// Temporary returns whether the request might succeed if retried.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Get fetches a URL, verifying any checksums named in the URL's fragment.  It returns the final
// URL after any redirects.
func (c Client) Get(ctx context.Context, requestURL string) (_ *url.URL, _ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()
	c.fillDefaults()

	// 1. Build the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	// 2. Do the networking
	dlog.Debugf(ctx, "GET %s", requestURL)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, nil, err
	}

	// 3. Validate the result
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &HTTPError{URL: requestURL, Status: resp.Status, StatusCode: resp.StatusCode}
	}
	for _, digest := range python.URLDigests(requestURL) {
		if err := digest.Verify(content); err != nil {
			return nil, nil, err
		}
	}

	return resp.Request.URL, content, nil
}

type Link struct {
	Text      string
	HRef      string
	DataAttrs map[string]string
}

func (c Client) getHTML5Index(ctx context.Context, requestURL string) ([]Link, error) {
	location, content, err := c.Get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if c.HTMLHook != nil {
		if err := c.HTMLHook(ctx, doc); err != nil {
			return nil, err
		}
	}

	var links []Link
	err = htmlutil.VisitElements(doc, "a", func(node *html.Node) error {
		link := Link{
			Text:      strings.TrimSpace(htmlutil.TextContent(node)),
			DataAttrs: make(map[string]string),
		}
		for _, attr := range node.Attr {
			switch {
			case attr.Namespace == "" && attr.Key == "href":
				href, err := location.Parse(attr.Val)
				if err != nil {
					return err
				}
				link.HRef = href.String()
			case attr.Namespace == "" && strings.HasPrefix(attr.Key, "data-"):
				link.DataAttrs[attr.Key] = attr.Val
			}
		}
		links = append(links, link)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

type FileLink struct {
	client Client
	Link
}

// ValidateName checks that a project name only uses the characters that PEP 503 permits.
func ValidateName(pkgname string) error {
	// "the only valid characters in a name are the ASCII alphabet, ASCII numbers, `.`, `-`, and
	// `_`."
	if pkgname == "" {
		return fmt.Errorf("empty pkgname")
	}
	for _, char := range pkgname {
		if !(('a' <= char && char <= 'z') ||
			('A' <= char && char <= 'Z') ||
			('0' <= char && char <= '9') ||
			char == '.' ||
			char == '-' ||
			char == '_') {
			return fmt.Errorf("illegal character in pkgname: %q: %s",
				pkgname, strconv.QuoteRuneToASCII(char))
		}
	}
	return nil
}

// ListPackageFiles returns the links on the project page for pkgname.
func (c Client) ListPackageFiles(ctx context.Context, pkgname string) ([]FileLink, error) {
	if err := ValidateName(pkgname); err != nil {
		return nil, err
	}

	c.fillDefaults()
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	// The trailing slash is significant; without it PyPI will redirect.
	u.Path = path.Join(u.Path, pep508.NormalizeName(pkgname)) + "/"
	rawLinks, err := c.getHTML5Index(ctx, u.String())
	if err != nil {
		return nil, err
	}
	links := make([]FileLink, 0, len(rawLinks))
	for _, link := range rawLinks {
		if c.Python != nil {
			if reqPy := link.DataAttrs["data-requires-python"]; reqPy != "" {
				spec, err := pep440.ParseSpecifier(reqPy)
				if err == nil && !spec.Match(*c.Python) {
					dlog.Debugf(ctx, "skipping %q: requires-python %q", link.Text, reqPy)
					continue
				}
			}
		}

		links = append(links, FileLink{
			client: c,
			Link:   link,
		})
	}
	return links, nil
}

// URL returns the link's target without the checksum fragment.
func (l FileLink) URL() string {
	u, err := url.Parse(l.HRef)
	if err != nil {
		return l.HRef
	}
	u.Fragment = ""
	return u.String()
}

// Digests returns the checksums that the index published for the file.
func (l FileLink) Digests() []python.Digest {
	return python.URLDigests(l.HRef)
}

// Get fetches the file, verifying its checksum.
func (l FileLink) Get(ctx context.Context) ([]byte, error) {
	_, content, err := l.client.Get(ctx, l.HRef)
	return content, err
}
