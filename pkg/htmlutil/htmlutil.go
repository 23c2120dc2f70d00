// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package htmlutil has small helpers for walking a parsed golang.org/x/net/html tree.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// VisitHTML does a depth-first walk of the tree rooted at node, calling before on the way down and
// after on the way back up.  Either may be nil.  The first error returned by either aborts the
// walk.
func VisitHTML(node *html.Node, before, after func(*html.Node) error) error {
	if before != nil {
		if err := before(node); err != nil {
			return err
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := VisitHTML(child, before, after); err != nil {
			return err
		}
	}
	if after != nil {
		if err := after(node); err != nil {
			return err
		}
	}
	return nil
}

// VisitElements calls fn for every element node named tagName.
func VisitElements(node *html.Node, tagName string, fn func(*html.Node) error) error {
	return VisitHTML(node, nil, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != tagName {
			return nil
		}
		return fn(node)
	})
}

func GetAttr(node *html.Node, namespace, name string) (val string, ok bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == namespace && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// TextContent returns the concatenation of all text nodes under node.
func TextContent(node *html.Node) string {
	var text strings.Builder
	_ = VisitHTML(node, nil, func(child *html.Node) error {
		if child.Type == html.TextNode {
			text.WriteString(child.Data)
		}
		return nil
	})
	return text.String()
}
