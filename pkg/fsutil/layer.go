// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"archive/tar"
	"bytes"
	"io"
	"path"
	"strings"
	"time"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"

	"github.com/datawire/wheelresolver/pkg/reproducible"
)

// WheelLayer returns an OCI image layer containing a single file at dir/filename, along with
// entries for each of its parent directories.  All timestamps are modTime, clamped to
// reproducible.Now().
func WheelLayer(filename string, content []byte, dir string, modTime time.Time) (ociv1.Layer, error) {
	// Tar paths use io/fs rules: forward-slashes, no leading "/".
	fullName := strings.TrimPrefix(path.Join("/", dir, path.Base(filename)), "/")
	modTime = reproducible.Clamp(modTime, reproducible.Now())

	var byteWriter bytes.Buffer
	tarWriter := tar.NewWriter(&byteWriter)

	var parents []string
	for parent := path.Dir(fullName); parent != "."; parent = path.Dir(parent) {
		parents = append([]string{parent}, parents...)
	}
	for _, parent := range parents {
		if err := tarWriter.WriteHeader(&tar.Header{
			Typeflag: tar.TypeDir,
			Name:     parent + "/",
			Mode:     0o755,
			ModTime:  modTime,
			Format:   tar.FormatPAX,
		}); err != nil {
			return nil, err
		}
	}
	if err := tarWriter.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     fullName,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  modTime,
		Format:   tar.FormatPAX,
	}); err != nil {
		return nil, err
	}
	if _, err := tarWriter.Write(content); err != nil {
		return nil, err
	}
	if err := tarWriter.Close(); err != nil {
		return nil, err
	}

	byteSlice := byteWriter.Bytes()
	return ociv1tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(byteSlice)), nil
	})
}
