// Copyright (C) 2021  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python/pep440"
)

func mustParseVersion(t *testing.T, str string) pep440.Version {
	t.Helper()
	ver, err := pep440.ParseVersion(str)
	require.NoError(t, err)
	require.NotNil(t, ver)
	return *ver
}

func mustParseVersions(t *testing.T, strs ...string) []pep440.Version {
	t.Helper()
	ret := make([]pep440.Version, 0, len(strs))
	for _, str := range strs {
		ret = append(ret, mustParseVersion(t, str))
	}
	return ret
}
