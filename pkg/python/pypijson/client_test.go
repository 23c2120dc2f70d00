package pypijson_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/wheelresolver/pkg/python/pypijson"
)

func TestGetProject(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pypi/pyyaml/json":
			_ = json.NewEncoder(w).Encode(pypijson.Project{
				Info: pypijson.ProjectInfo{Name: "PyYAML", Version: "6.0"},
				Releases: map[string][]pypijson.File{
					"6.0": {{
						Filename: "PyYAML-6.0-cp39-cp39-manylinux1_x86_64.whl",
						URL:      "https://files.example.com/PyYAML-6.0-cp39-cp39-manylinux1_x86_64.whl",
						Digests:  map[string]string{"sha256": "abcd"},
					}},
				},
			})
		case "/pypi/flaky/json":
			http.Error(w, "slow down", http.StatusTooManyRequests)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	ctx := dlog.NewTestContext(t, false)
	client := pypijson.Client{BaseURL: srv.URL + "/pypi"}

	project, err := client.GetProject(ctx, "PyYAML")
	require.NoError(t, err)
	assert.Equal(t, "PyYAML", project.Info.Name)
	require.Len(t, project.Releases["6.0"], 1)
	assert.Equal(t, "abcd", project.Releases["6.0"][0].Digests["sha256"])

	_, err = client.GetProject(ctx, "missing-pkg")
	assert.True(t, errors.Is(err, pypijson.ErrNotFound))

	_, err = client.GetProject(ctx, "flaky")
	var httpErr *pypijson.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.True(t, httpErr.Temporary())
}
