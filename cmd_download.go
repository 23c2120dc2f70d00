// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/datawire/wheelresolver/pkg/cliutil"
	"github.com/datawire/wheelresolver/pkg/fetch"
	"github.com/datawire/wheelresolver/pkg/fsutil"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
	"github.com/datawire/wheelresolver/pkg/resolve"
)

func init() {
	var flags struct {
		Output   string
		LayerDir string
	}
	cmd := &cobra.Command{
		Use:   "download [flags]",
		Short: "Download the wheel to use",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		Long: "Resolve the package to a compatible wheel, and download it to the file named by " +
			"--output, or by the $OUTS environment variable.  If --url is given, those URLs " +
			"are tried first, and the index is only consulted if none of them can be " +
			"downloaded." +
			"\n\n" +
			"With --layer-dir, rather than writing the wheel itself, write an OCI image " +
			"layer tarball containing the wheel in that directory.",

		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := globalFlags.setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			output := flags.Output
			if output == "" {
				output, err = fetch.OutputPath()
				if errors.Is(err, fetch.ErrOutputNotSet) {
					return cliutil.Usagef(cmd, "either --output or $OUTS must be set")
				}
			}

			req, err := globalFlags.request(ctx, cmd)
			if err != nil {
				return err
			}

			client := fetch.Client{UserAgent: "wheel-resolver"}
			var (
				url     string
				content []byte
			)
			if len(globalFlags.URLs) > 0 {
				url, content, err = client.FirstAvailable(ctx, globalFlags.URLs)
				if err != nil {
					dlog.Infof(ctx, "none of the literal URLs are available, consulting the index: %v", err)
				}
			}
			if content == nil {
				loc, err := globalFlags.newLocator()
				if err != nil {
					return err
				}
				var digest *python.Digest
				url, digest, err = resolve.ResolveWithDigest(ctx, loc, req)
				if err != nil {
					return err
				}
				var digests []python.Digest
				if digest != nil {
					digests = append(digests, *digest)
				}
				content, err = client.Get(ctx, url, digests...)
				if err != nil {
					return fmt.Errorf("could not download %s: %w", req.Requirement(), err)
				}
			}

			if flags.LayerDir != "" {
				layer, err := fsutil.WheelLayer(bdist.Basename(url), content, flags.LayerDir, time.Now())
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := fsutil.WriteLayer(layer, &buf); err != nil {
					return err
				}
				content = buf.Bytes()
			}
			if err := fsutil.WriteBytesAtomic(output, content, 0o644); err != nil {
				return err
			}
			dlog.Infof(ctx, "wrote %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "",
		"Write the result to `FILENAME` (default: $OUTS)")
	cmd.Flags().StringVar(&flags.LayerDir, "layer-dir", "",
		"Write an OCI layer with the wheel in `DIRECTORY`, rather than the bare wheel")
	cliutil.SetEnvironment(cmd,
		cliutil.EnvVar{Name: "OUTS", Usage: "Where to write the result, if --output isn't given"},
		cliutil.EnvVar{Name: "SOURCE_DATE_EPOCH", Usage: "Latest timestamp to put in a --layer-dir layer"})
	argparser.AddCommand(cmd)
}
