package pep425_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python/pep425"
)

func TestDecompress(t *testing.T) {
	type testcase struct {
		Input  string
		Output []string
	}
	testcases := []testcase{
		{"py3-none-any", []string{"py3-none-any"}},
		{"py2.py3-none-any", []string{"py2-none-any", "py3-none-any"}},
		{
			"cp310-cp310-manylinux_2_17_x86_64.manylinux2014_x86_64",
			[]string{
				"cp310-cp310-manylinux_2_17_x86_64",
				"cp310-cp310-manylinux2014_x86_64",
			},
		},
		{
			"cp39.cp310-abi3.none-linux_x86_64",
			[]string{
				"cp39-abi3-linux_x86_64",
				"cp39-none-linux_x86_64",
				"cp310-abi3-linux_x86_64",
				"cp310-none-linux_x86_64",
			},
		},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.Input, func(t *testing.T) {
			tag, err := pep425.ParseTag(tc.Input)
			require.NoError(t, err)
			decompressed := tag.Decompress()
			actual := make([]string, 0, len(decompressed))
			for _, single := range decompressed {
				actual = append(actual, single.String())
			}
			assert.Equal(t, tc.Output, actual)
		})
	}
}

func TestParseTag(t *testing.T) {
	for _, bad := range []string{"", "py3", "py3-none", "py3-none-any-extra", "py3--any"} {
		_, err := pep425.ParseTag(bad)
		assert.Errorf(t, err, "%q", bad)
	}

	var tag pep425.Tag
	require.NoError(t, tag.UnmarshalText([]byte("cp38-abi3-linux_x86_64")))
	assert.Equal(t, pep425.Tag{Python: "cp38", ABI: "abi3", Platform: "linux_x86_64"}, tag)
}

func TestIntersect(t *testing.T) {
	a := []pep425.Tag{{"py2.py3", "none", "any"}}
	assert.True(t, pep425.Intersect(a, []pep425.Tag{{"py3", "none", "any"}}))
	assert.False(t, pep425.Intersect(a, []pep425.Tag{{"cp310", "cp310", "linux_x86_64"}}))
	assert.False(t, pep425.Intersect(a, nil))
}

func TestGenericTags(t *testing.T) {
	tags := pep425.GenericTags([]string{"cp310"}, []string{"cp310", "abi3"}, []string{"linux_x86_64"})
	assert.Equal(t, []string{
		"cp310-cp310-linux_x86_64",
		"cp310-cp310-any",
		"cp310-abi3-linux_x86_64",
		"cp310-abi3-any",
		"cp310-none-linux_x86_64",
		"cp310-none-any",
	}, tags.Strings())

	// "none" and "any" are not duplicated when given explicitly.
	tags = pep425.GenericTags([]string{"py3"}, []string{"none"}, []string{"any"})
	assert.Equal(t, []string{"py3-none-any"}, tags.Strings())

	assert.True(t, tags.Supports(pep425.Tag{"py2.py3", "none", "any"}))
	assert.Equal(t, []string{"py3-none-any"}, tags.Set().List())
}
