package bdist_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
)

//nolint:lll // long URLs
const pyyamlURL = "https://files.pythonhosted.org/packages/29/61/bf33c6c85c55bc45a29eee3195848ff2d518d84735eb0e2d8cb42e0d285e/PyYAML-6.0.1-cp310-cp310-manylinux_2_17_x86_64.manylinux2014_x86_64.whl"

func TestParseTags(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input  string
		Output []string
	}
	testcases := []testcase{
		{"pkg-1.0-py2.py3-none-any.whl", []string{"py2-none-any", "py3-none-any"}},
		{"pkg-1.0-1-py3-none-any.whl", []string{"py3-none-any"}},
		{
			pyyamlURL,
			[]string{
				"cp310-cp310-manylinux2014_x86_64",
				"cp310-cp310-manylinux_2_17_x86_64",
			},
		},
		{
			"https://example.com/simple/pkg/pkg-2.0-cp39.cp310-abi3-linux_x86_64.whl#sha256=abcd",
			[]string{"cp310-abi3-linux_x86_64", "cp39-abi3-linux_x86_64"},
		},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.Input, func(t *testing.T) {
			t.Parallel()
			tags, err := bdist.ParseTags(tc.Input)
			require.NoError(t, err)
			assert.Equal(t, tc.Output, tags.List())
		})
	}
}

func TestParseTagsMalformed(t *testing.T) {
	t.Parallel()
	for _, input := range []string{
		"pkg-1.0-none-any.whl",
		"pkg-1.0-x-y-py3-none-any.whl",
		"pkg-1.0-build-py3-none-any.whl",
		"pkg--py3-none-any.whl",
		"pkg-1.0.tar.gz",
	} {
		_, err := bdist.ParseTags(input)
		var malformed *bdist.MalformedWheelNameError
		assert.Truef(t, errors.As(err, &malformed), "%q: %v", input, err)
	}
}

func TestParseFilename(t *testing.T) {
	t.Parallel()

	data, err := bdist.ParseFilename(pyyamlURL)
	require.NoError(t, err)
	assert.Equal(t, "PyYAML", data.Distribution)
	assert.Equal(t, "6.0.1", data.Version.String())
	assert.Nil(t, data.BuildTag)
	assert.Equal(t, "cp310-cp310-manylinux_2_17_x86_64.manylinux2014_x86_64", data.CompatibilityTag.String())

	data, err = bdist.ParseFilename("distribution-1.0-12beta-py27-none-any.whl")
	require.NoError(t, err)
	require.NotNil(t, data.BuildTag)
	assert.Equal(t, 12, data.BuildTag.Int)
	assert.Equal(t, "beta", data.BuildTag.Str)
	assert.Equal(t, "12beta", data.BuildTag.String())

	_, err = bdist.ParseFilename("pkg-notaversion-py3-none-any.whl")
	var malformed *bdist.MalformedWheelNameError
	assert.True(t, errors.As(err, &malformed))
}

func TestIsWheel(t *testing.T) {
	t.Parallel()
	assert.True(t, bdist.IsWheel(pyyamlURL))
	assert.True(t, bdist.IsWheel("https://example.com/pkg-1.0-py3-none-any.whl#sha256=00"))
	assert.False(t, bdist.IsWheel("https://example.com/pkg-1.0.tar.gz"))
	assert.False(t, bdist.IsWheel("https://example.com/pkg-1.0.whl.metadata"))
	assert.Equal(t, "pkg-1.0.tar.gz", bdist.Basename("https://example.com/a/pkg-1.0.tar.gz?x=y"))
}
