package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python"
)

func TestParseTagLines(t *testing.T) {
	t.Parallel()
	tags, err := python.ParseTagLines("cp310-cp310-manylinux_2_35_x86_64\n\ncp310-abi3-linux_x86_64\npy3-none-any\n")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cp310-cp310-manylinux_2_35_x86_64",
		"cp310-abi3-linux_x86_64",
		"py3-none-any",
	}, tags.Strings())

	interpreters, abis, platforms := python.SplitTags(tags)
	assert.Equal(t, []string{"cp310", "py3"}, interpreters)
	assert.Equal(t, []string{"cp310", "abi3", "none"}, abis)
	assert.Equal(t, []string{"manylinux_2_35_x86_64", "linux_x86_64", "any"}, platforms)

	_, err = python.ParseTagLines("Traceback (most recent call last):")
	assert.Error(t, err)
}
