package cliutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Indent int
		Width  int
		Input  string
		Output string
	}{
		"nowrap":        {0, 0, "a b\nc", "a b\nc"},
		"nowrap-indent": {2, 0, "a b\nc", "a b\n  c"},
		"short":         {0, 80, "a short line", "a short line"},
		"wrapped":       {4, 34, "the quick brown fox jumps over the lazy dog", "the quick brown fox\n    jumps over the lazy dog"},
		"orphan-slop":   {0, 30, "the quick brown fox jumps out", "the quick brown fox jumps out"},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Output, wrap(tc.Indent, tc.Width, tc.Input))
		})
	}
}
