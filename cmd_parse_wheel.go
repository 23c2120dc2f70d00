// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/datawire/wheelresolver/pkg/cliutil"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
)

func parseWheels(w io.Writer, filenames []string) error {
	var doc yaml.MapSlice
	for _, filename := range filenames {
		data, err := bdist.ParseFilename(filename)
		if err != nil {
			return err
		}
		tags, err := bdist.ParseTags(filename)
		if err != nil {
			return err
		}
		info := yaml.MapSlice{
			{Key: "distribution", Value: data.Distribution},
			{Key: "version", Value: data.Version.String()},
		}
		if data.BuildTag != nil {
			info = append(info, yaml.MapItem{Key: "build", Value: data.BuildTag.String()})
		}
		info = append(info, yaml.MapItem{Key: "tags", Value: tags.List()})
		doc = append(doc, yaml.MapItem{Key: filename, Value: info})
	}
	bs, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(bs)
	return err
}

func init() {
	cmd := &cobra.Command{
		Use:   "parse-wheel [flags] FILENAME_OR_URL...",
		Short: "Print the compatibility tags of wheel files",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		Long: "Parse wheel filenames (or URLs), and print the fields of each as YAML; " +
			"including the full expanded set of compatibility tags that it supports.  A " +
			"filename that does not follow the wheel naming convention is an error.",

		RunE: func(cmd *cobra.Command, args []string) error {
			return parseWheels(cmd.OutOrStdout(), args)
		},
	}
	argparser.AddCommand(cmd)
}
