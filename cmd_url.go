// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/datawire/wheelresolver/pkg/cliutil"
	"github.com/datawire/wheelresolver/pkg/fetch"
	"github.com/datawire/wheelresolver/pkg/resolve"
)

func init() {
	cmd := &cobra.Command{
		Use:   "url [flags] >URL.txt",
		Short: "Print the URL of the wheel to use",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		Long: "Resolve the package to the URL of a compatible wheel, and print it.  If --url " +
			"is given, those URLs are checked (by downloading them) before the index is " +
			"consulted, and the first one that is available is printed instead.",

		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := globalFlags.setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			req, err := globalFlags.request(ctx, cmd)
			if err != nil {
				return err
			}

			if len(globalFlags.URLs) > 0 {
				client := fetch.Client{UserAgent: "wheel-resolver"}
				url, _, err := client.FirstAvailable(ctx, globalFlags.URLs)
				if err == nil {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), url)
					return err
				}
				dlog.Infof(ctx, "none of the literal URLs are available, consulting the index: %v", err)
			}

			loc, err := globalFlags.newLocator()
			if err != nil {
				return err
			}
			url, err := resolve.Resolve(ctx, loc, req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
			return err
		},
	}
	argparser.AddCommand(cmd)
}
