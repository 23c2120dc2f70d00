// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/datawire/wheelresolver/pkg/cliutil"
	"github.com/datawire/wheelresolver/pkg/config"
	"github.com/datawire/wheelresolver/pkg/locator"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep425"
	"github.com/datawire/wheelresolver/pkg/python/pep440"
	"github.com/datawire/wheelresolver/pkg/resolve"
)

// resolveFlags are the flags shared by every subcommand.
type resolveFlags struct {
	PackageName    string
	PackageVersion string
	Interpreters   []string
	ABIs           []string
	Platforms      []string
	URLs           []string
	Prereleases    bool

	IndexURL  string
	IndexKind string
	Retries   int
	Timeout   time.Duration

	Python        string
	PythonVersion string

	ConfigFile string
	LogLevel   string

	logger *logrus.Logger
}

// flagAliases are alternate spellings of flags.
//
//nolint:gochecknoglobals // Would be 'const'.
var flagAliases = map[string]string{
	"package": "package-name",
	"version": "package-version",
	"urls":    "url",
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func (f *resolveFlags) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.PackageName, "package-name", "",
		"Name of the Python package to resolve (alias: --package)")
	flags.StringVar(&f.PackageVersion, "package-version", "",
		"Exact version of the package; default is the latest (alias: --version)")
	flags.StringArrayVar(&f.Interpreters, "interpreter", nil,
		"`INTERPRETER` tag to accept, such as cp310 or py3 (repeatable; default: ask --python)")
	flags.StringArrayVar(&f.ABIs, "abi", nil,
		"`ABI` tag to accept, such as cp310 or abi3 (repeatable; default: ask --python)")
	flags.StringArrayVar(&f.Platforms, "platform", nil,
		"`PLATFORM` tag to accept, such as linux_x86_64 (repeatable; default: ask --python)")
	flags.StringArrayVar(&f.URLs, "url", nil,
		"`URL` to try literally before looking in the index (repeatable; alias: --urls)")
	flags.BoolVar(&f.Prereleases, "prereleases", false,
		"Consider pre-release versions")

	flags.StringVar(&f.IndexURL, "index-url", "",
		"Base `URL` of the package index (default: PyPI)")
	flags.StringVar(&f.IndexKind, "index-kind", string(locator.KindSimple),
		"Which API the index speaks: 'simple' (PEP 503) or 'json' (PyPI JSON API)")
	flags.IntVar(&f.Retries, "retries", 0,
		"How many times to retry transient index failures")
	flags.DurationVar(&f.Timeout, "timeout", 0,
		"Give up after this long (default: no timeout)")

	flags.StringVar(&f.Python, "python", "python3",
		"Python interpreter to ask for default tags")
	flags.StringVar(&f.PythonVersion, "python-version", "",
		"Ignore files whose requires-python excludes this Python `VERSION`")

	flags.StringVar(&f.ConfigFile, "config", "",
		"YAML `FILE` to read flag defaults from")
	flags.StringVar(&f.LogLevel, "log-level", "info",
		"Log level: error, warning, info, debug, or trace")
}

// applyConfig fills in any flag that wasn't given on the command line from the config file.
func (f *resolveFlags) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	setString := func(name string, dst *string, val string) {
		if !flags.Changed(name) && val != "" {
			*dst = val
		}
	}
	setList := func(name string, dst *[]string, val []string) {
		if !flags.Changed(name) && len(val) > 0 {
			*dst = val
		}
	}
	setString("package-name", &f.PackageName, cfg.PackageName)
	setString("package-version", &f.PackageVersion, cfg.PackageVersion)
	setList("interpreter", &f.Interpreters, cfg.Interpreters)
	setList("abi", &f.ABIs, cfg.ABIs)
	setList("platform", &f.Platforms, cfg.Platforms)
	setList("url", &f.URLs, cfg.URLs)
	if !flags.Changed("prereleases") && cfg.Prereleases {
		f.Prereleases = true
	}
	setString("index-url", &f.IndexURL, cfg.Index.URL)
	setString("index-kind", &f.IndexKind, cfg.Index.Kind)
	if !flags.Changed("retries") && cfg.Index.Retries != nil {
		f.Retries = *cfg.Index.Retries
	}
	if !flags.Changed("timeout") && cfg.Timeout != nil {
		f.Timeout = cfg.Timeout.Duration
	}
	setString("python-version", &f.PythonVersion, cfg.PythonVersion)
}

// setup applies the logging, config-file, and timeout flags, and validates the rest.  Usage
// errors do not return.
func (f *resolveFlags) setup(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	ctx := cmd.Context()

	level, err := logrus.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, nil, cliutil.Usagef(cmd, "invalid --log-level: %v", err)
	}
	if f.logger != nil {
		f.logger.SetLevel(level)
	}

	if f.ConfigFile != "" {
		cfg, err := config.Load(f.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		f.applyConfig(cmd, cfg)
	}

	switch locator.Kind(f.IndexKind) {
	case locator.KindSimple, locator.KindJSON:
	default:
		return nil, nil, cliutil.Usagef(cmd, "invalid --index-kind %q: must be %q or %q",
			f.IndexKind, locator.KindSimple, locator.KindJSON)
	}
	if f.Retries < 0 {
		return nil, nil, cliutil.Usagef(cmd, "invalid --retries %d: must not be negative", f.Retries)
	}

	cancel := context.CancelFunc(func() {})
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
	}
	return ctx, cancel, nil
}

// tags returns the acceptable tags; any of --interpreter, --abi, or --platform that weren't given
// come from asking --python.
func (f *resolveFlags) tags(ctx context.Context) (pep425.Installer, error) {
	interpreters, abis, platforms := f.Interpreters, f.ABIs, f.Platforms
	if len(interpreters) == 0 || len(abis) == 0 || len(platforms) == 0 {
		sysTags, err := python.SysTags(ctx, f.Python)
		if err != nil {
			return nil, fmt.Errorf("determining default tags: %w", err)
		}
		sysInterpreters, sysABIs, sysPlatforms := python.SplitTags(sysTags)
		if len(interpreters) == 0 {
			interpreters = sysInterpreters
		}
		if len(abis) == 0 {
			abis = sysABIs
		}
		if len(platforms) == 0 {
			platforms = sysPlatforms
		}
	}
	return pep425.GenericTags(interpreters, abis, platforms), nil
}

func (f *resolveFlags) newLocator() (locator.Locator, error) {
	opts := locator.Options{
		UserAgent: "wheel-resolver",
		Retries:   f.Retries,
	}
	if f.PythonVersion != "" {
		ver, err := pep440.ParseVersion(f.PythonVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid --python-version: %w", err)
		}
		opts.Python = ver
	}
	return locator.New(locator.Kind(f.IndexKind), f.IndexURL, opts)
}

// request builds a resolve.Request from the flags.  Usage errors do not return.
func (f *resolveFlags) request(ctx context.Context, cmd *cobra.Command) (resolve.Request, error) {
	if f.PackageName == "" {
		return resolve.Request{}, cliutil.Usagef(cmd, "--package-name is required")
	}
	tags, err := f.tags(ctx)
	if err != nil {
		return resolve.Request{}, err
	}
	dlog.Debugf(ctx, "acceptable tags: %v", tags.Strings())
	return resolve.Request{
		PackageName:    f.PackageName,
		PackageVersion: f.PackageVersion,
		Tags:           tags.Set(),
		Prereleases:    f.Prereleases,
	}, nil
}
