// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package fetch downloads resolved wheels.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dlog"

	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep503"
)

// ErrOutputNotSet is returned by OutputPath when the build system didn't say where to write.
var ErrOutputNotSet = errors.New("$OUTS is not set")

// OutputPath returns the file that the build system wants the result written to.
func OutputPath() (string, error) {
	out, ok := os.LookupEnv("OUTS")
	if !ok || out == "" {
		return "", ErrOutputNotSet
	}
	return out, nil
}

type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

func (c Client) indexClient() pep503.Client {
	return pep503.Client{
		HTTPClient: c.HTTPClient,
		UserAgent:  c.UserAgent,
	}
}

// Get downloads a URL.  The content must match any checksum in the URL's fragment, and each of
// the given digests.
func (c Client) Get(ctx context.Context, url string, digests ...python.Digest) ([]byte, error) {
	_, content, err := c.indexClient().Get(ctx, url)
	if err != nil {
		return nil, err
	}
	for _, digest := range digests {
		if err := digest.Verify(content); err != nil {
			return nil, fmt.Errorf("GET %q => %w", url, err)
		}
	}
	dlog.Infof(ctx, "downloaded %s (%d bytes)", url, len(content))
	return content, nil
}

// FirstAvailable tries each URL in order, and returns the first one that can be downloaded.  If
// none can, the returned error lists why each one failed.
func (c Client) FirstAvailable(ctx context.Context, urls []string) (string, []byte, error) {
	var errs derror.MultiError
	for _, url := range urls {
		content, err := c.Get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			dlog.Debugf(ctx, "literal URL not available: %v", err)
			errs = append(errs, err)
			continue
		}
		return url, content, nil
	}
	if len(errs) == 0 {
		return "", nil, errors.New("no URLs given")
	}
	return "", nil, errs
}
