// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/pmezard/go-difflib/difflib"
)

//nolint:gochecknoglobals // Would be 'const'.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// DumpLayer renders a layer as text: an `ls -l`-style listing of the files, followed by a dump of
// each file's content.
func DumpLayer(layer ociv1.Layer) (str string, err error) {
	layerReader, err := layer.Uncompressed()
	if err != nil {
		return "", err
	}
	defer func() {
		if _err := layerReader.Close(); _err != nil && err == nil {
			str = ""
			err = _err
		}
	}()

	var listing, contents strings.Builder
	table := tabwriter.NewWriter(&listing, 0, 1, 1, ' ', 0)
	tarReader := tar.NewReader(layerReader)
	for {
		header, err := tarReader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		fmt.Fprintln(table, strings.Join([]string{
			"",
			header.FileInfo().Mode().String(),
			fmt.Sprintf("%d=%q", header.Uid, header.Uname),
			fmt.Sprintf("%d=%q", header.Gid, header.Gname),
			fmt.Sprintf("% 10d", header.Size),
			header.ModTime.UTC().Format("2006-01-02T15:04:05Z"),
			header.Name,
		}, "\t"))

		content, err := io.ReadAll(tarReader)
		if err != nil {
			return "", err
		}
		if header.Typeflag == tar.TypeReg {
			fmt.Fprintf(&contents, "%s =%s", header.Name, spewConfig.Sdump(content))
		}
	}
	if err := table.Flush(); err != nil {
		return "", err
	}
	return listing.String() + "\n" + contents.String(), nil
}

// AssertEqualText is like assert.Equal for long multi-line strings; on mismatch it reports a
// unified diff rather than both strings in full.
func AssertEqualText(t *testing.T, exp, act string) bool {
	t.Helper()
	if exp == act {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(exp),
		B:        difflib.SplitLines(act),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	t.Errorf("Diff:\n%s", diff)
	return false
}

func AssertEqualLayers(t *testing.T, exp, act ociv1.Layer) bool {
	t.Helper()
	expStr, err := DumpLayer(exp)
	if err != nil {
		t.Errorf("error dumping expected layer: %v", err)
		return false
	}
	actStr, err := DumpLayer(act)
	if err != nil {
		t.Errorf("error dumping actual layer: %v", err)
		return false
	}
	return AssertEqualText(t, expStr, actStr)
}
