// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Command wheel-resolver finds, and optionally downloads, the Python wheel file to use for a
// package on a given interpreter, ABI, and platform.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/google/go-containerregistry/pkg/logs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/wheelresolver/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "wheel-resolver {[flags]|SUBCOMMAND...}",
	Short: "Resolve a Python package to a compatible wheel",
	Long: "Resolve a Python package name and version to the URL of a wheel file that is " +
		"compatible with a set of interpreter, ABI, and platform tags.  Literal URLs given " +
		"with --url are tried before the package index is consulted." +
		"\n\n" +
		"When more than one wheel is compatible, the lexicographically first URL is used, " +
		"and a warning is logged.",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

//nolint:gochecknoglobals // cobra wants flags to live somewhere
var globalFlags resolveFlags

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.SetGlobalNormalizationFunc(normalizeFlagName)
	cliutil.SetEnvironment(argparser,
		cliutil.EnvVar{Name: "COLUMNS", Usage: "Width to wrap help text to"})
	globalFlags.AddFlags(argparser.PersistentFlags())
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	globalFlags.logger = logger

	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	logs.Warn = dlog.StdLogger(ctx, dlog.LogLevelWarn)
	logs.Progress = dlog.StdLogger(ctx, dlog.LogLevelInfo)
	logs.Debug = dlog.StdLogger(ctx, dlog.LogLevelDebug)

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
