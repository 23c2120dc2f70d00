// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package simple_repo_api implements the PyPA Simple repository API, which is PEP 503 as amended
// by PEP 592 and PEP 629.
//
// https://packaging.python.org/specifications/simple-repository-api/
package simple_repo_api //nolint:revive,stylecheck // match the PyPA document name

import (
	"github.com/datawire/wheelresolver/pkg/python/pep503"
	"github.com/datawire/wheelresolver/pkg/python/pep629"
)

func NewClient(baseURL string) pep503.Client {
	return pep503.Client{
		BaseURL:  baseURL,
		HTMLHook: pep629.HTMLVersionCheck,
	}
}
