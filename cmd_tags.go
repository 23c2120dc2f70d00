// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/datawire/wheelresolver/pkg/cliutil"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep425"
)

// tagsDoc is the YAML rendering of `wheel-resolver tags`.
type tagsDoc struct {
	Interpreters []string `yaml:"interpreters"`
	ABIs         []string `yaml:"abis"`
	Platforms    []string `yaml:"platforms"`
	Tags         []string `yaml:"tags"`
}

func writeTags(w io.Writer, format string, tags pep425.Installer) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, strings.Join(append(tags.Strings(), ""), "\n"))
		return err
	case "yaml":
		var doc tagsDoc
		doc.Interpreters, doc.ABIs, doc.Platforms = python.SplitTags(tags)
		doc.Tags = tags.Strings()
		bs, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(bs)
		return err
	default:
		return fmt.Errorf("invalid output format %q", format)
	}
}

func init() {
	var flags struct {
		OutputFormat string
	}
	cmd := &cobra.Command{
		Use:   "tags [flags]",
		Short: "Print the acceptable compatibility tags",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		Long: "Print the compatibility tags that a wheel must have one of in order to be " +
			"selected, one per line; as built from the --interpreter, --abi, and --platform " +
			"flags (or from asking --python for any that are not given).  The 'none' ABI and " +
			"the 'any' platform are always included.",

		RunE: func(cmd *cobra.Command, _ []string) error {
			switch flags.OutputFormat {
			case "text", "yaml":
			default:
				return cliutil.Usagef(cmd, "invalid --output-format %q: must be 'text' or 'yaml'",
					flags.OutputFormat)
			}
			ctx, cancel, err := globalFlags.setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			tags, err := globalFlags.tags(ctx)
			if err != nil {
				return err
			}
			return writeTags(cmd.OutOrStdout(), flags.OutputFormat, tags)
		},
	}
	cmd.Flags().StringVar(&flags.OutputFormat, "output-format", "text",
		"Output format: 'text' or 'yaml'")
	argparser.AddCommand(cmd)
}
