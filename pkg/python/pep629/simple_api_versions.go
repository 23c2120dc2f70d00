// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep629 implements PEP 629 -- Versioning PyPI's Simple API.
//
// https://www.python.org/dev/peps/pep-0629/
package pep629

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/wheelresolver/pkg/htmlutil"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var SupportedVersion, _ = pep440.ParseVersion("1.0")

// GetVersion returns the version declared by a simple index page's
//
//     <meta name="pypi:repository-version" content="1.0">
//
// tag; pages without one are version 1.0.
func GetVersion(doc *html.Node) (*pep440.Version, error) {
	verStr := "1.0"
	err := htmlutil.VisitElements(doc, "meta", func(node *html.Node) error {
		if name, _ := htmlutil.GetAttr(node, "", "name"); name != "pypi:repository-version" {
			return nil
		}
		if content, ok := htmlutil.GetAttr(node, "", "content"); ok {
			verStr = content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pep440.ParseVersion(verStr)
}

// CheckVersion errors if a server's API version has a major version that this client doesn't
// understand, and warns if it has a newer minor version.
func CheckVersion(ctx context.Context, version pep440.Version) error {
	if version.Major() > SupportedVersion.Major() {
		return fmt.Errorf("server's pypi:repository version (%s) is not compatible with this client", version)
	}
	if version.Major() == SupportedVersion.Major() && version.Minor() > SupportedVersion.Minor() {
		dlog.Warnf(ctx, "server's pypi:repository version (%s) is newer than this client", version)
	}
	return nil
}

// HTMLVersionCheck is suitable for use as a pep503.Client.HTMLHook.
func HTMLVersionCheck(ctx context.Context, doc *html.Node) error {
	version, err := GetVersion(doc)
	if err != nil {
		return err
	}
	return CheckVersion(ctx, *version)
}
