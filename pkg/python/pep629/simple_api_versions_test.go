package pep629_test

import (
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/datawire/wheelresolver/pkg/python/pep629"
)

func TestHTMLVersionCheck(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Meta    string
		Version string
		OK      bool
	}{
		"missing": {"", "1.0", true},
		"same":    {`<meta name="pypi:repository-version" content="1.0">`, "1.0", true},
		"minor":   {`<meta name="pypi:repository-version" content="1.1">`, "1.1", true},
		"major":   {`<meta name="pypi:repository-version" content="2.0">`, "2.0", false},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := dlog.NewTestContext(t, false)
			doc, err := html.Parse(strings.NewReader(
				`<!DOCTYPE html><html><head>` + tc.Meta + `</head><body></body></html>`))
			require.NoError(t, err)

			ver, err := pep629.GetVersion(doc)
			require.NoError(t, err)
			assert.Equal(t, tc.Version, ver.String())

			err = pep629.HTMLVersionCheck(ctx, doc)
			if tc.OK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
