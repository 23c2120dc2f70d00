// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional wheel-resolver config file, which holds defaults for the
// command-line flags.
package config

import (
	"fmt"
	"os"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// Config mirrors the command-line flags.  Zero values mean "not set".
type Config struct {
	PackageName    string   `json:"packageName,omitempty"`
	PackageVersion string   `json:"packageVersion,omitempty"`
	Interpreters   []string `json:"interpreters,omitempty"`
	ABIs           []string `json:"abis,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	URLs           []string `json:"urls,omitempty"`
	Prereleases    bool     `json:"prereleases,omitempty"`

	Index IndexConfig `json:"index,omitempty"`

	// PythonVersion is the version of the target Python; files whose requires-python excludes
	// it are ignored.
	PythonVersion string `json:"pythonVersion,omitempty"`

	Timeout *metav1.Duration `json:"timeout,omitempty"`
}

type IndexConfig struct {
	URL     string `json:"url,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Retries *int   `json:"retries,omitempty"`
}

// Load reads a YAML config file.  Unknown fields are an error, so that typos don't go unnoticed.
func Load(filename string) (*Config, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(bs, &cfg, yaml.DisallowUnknownFields); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &cfg, nil
}
