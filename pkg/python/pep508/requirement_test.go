package pep508_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python/pep508"
)

func TestParseRequirement(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input  string
		Name   string
		Spec   string
		String string
		Pinned string
	}
	testcases := []testcase{
		{"PyYAML", "PyYAML", "", "PyYAML", ""},
		{"PyYAML (==6.0.1)", "PyYAML", "==6.0.1", "PyYAML (==6.0.1)", "6.0.1"},
		{"pyyaml==6.0.1", "pyyaml", "==6.0.1", "pyyaml (==6.0.1)", "6.0.1"},
		{" zope.interface (>=5, <6) ", "zope.interface", ">=5,<6", "zope.interface (>=5,<6)", ""},
		{"typing_extensions~=4.0", "typing_extensions", "~=4.0", "typing_extensions (~=4.0)", ""},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.Input, func(t *testing.T) {
			t.Parallel()
			req, err := pep508.ParseRequirement(tc.Input)
			require.NoError(t, err)
			assert.Equal(t, tc.Name, req.Name)
			assert.Equal(t, tc.Spec, req.Specifier.String())
			assert.Equal(t, tc.String, req.String())
			ver, pinned := req.PinnedVersion()
			assert.Equal(t, tc.Pinned != "", pinned)
			if pinned {
				assert.Equal(t, tc.Pinned, ver.String())
			}
		})
	}

	for _, bad := range []string{"", "-foo", "foo (==1.0", "foo bar", "foo (==bogus)"} {
		_, err := pep508.ParseRequirement(bad)
		assert.Errorf(t, err, "%q", bad)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pyyaml", pep508.NormalizeName("PyYAML"))
	assert.Equal(t, "zope-interface", pep508.NormalizeName("zope.interface"))
	assert.Equal(t, "typing-extensions", pep508.NormalizeName("typing__extensions"))
	assert.Equal(t, "a-b", pep508.NormalizeName("A-_.B"))
}
