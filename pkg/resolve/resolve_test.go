package resolve_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/datawire/wheelresolver/pkg/locator"
	"github.com/datawire/wheelresolver/pkg/python"
	"github.com/datawire/wheelresolver/pkg/python/pep425"
	"github.com/datawire/wheelresolver/pkg/python/pypa/bdist"
	"github.com/datawire/wheelresolver/pkg/resolve"
)

const pyyamlURL = "https://files.pythonhosted.org/packages/PyYAML-6.0.1-cp310-cp310-" +
	"manylinux_2_17_x86_64.manylinux2014_x86_64.whl"

type staticLocator struct {
	urls         []string
	requirements []string
	err          error
}

func (l *staticLocator) Locate(_ context.Context, requirement string, _ bool) (*locator.Distribution, error) {
	l.requirements = append(l.requirements, requirement)
	if l.err != nil || l.urls == nil {
		return nil, l.err
	}
	return &locator.Distribution{
		Name:         "PyYAML",
		DownloadURLs: sets.NewString(l.urls...),
	}, nil
}

func (l *staticLocator) BaseURL() string { return "https://index.example.com/simple/" }

func tags(strs ...string) pep425.TagSet {
	return sets.NewString(strs...)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	type testcase struct {
		URLs   []string
		Tags   pep425.TagSet
		Expect string
		ErrAs  interface{}
	}
	testcases := map[string]testcase{
		"exact-match": {
			URLs:   []string{pyyamlURL},
			Tags:   tags("cp310-cp310-manylinux_2_17_x86_64"),
			Expect: pyyamlURL,
		},
		"compressed-second-platform": {
			URLs:   []string{pyyamlURL},
			Tags:   tags("cp310-cp310-manylinux2014_x86_64"),
			Expect: pyyamlURL,
		},
		"wrong-interpreter": {
			URLs:  []string{pyyamlURL},
			Tags:  tags("cp311-cp311-manylinux_2_17_x86_64"),
			ErrAs: new(*resolve.CompatibleURLNotFoundError),
		},
		"no-wheels": {
			URLs:  []string{"https://example.com/PyYAML-6.0.1.tar.gz"},
			Tags:  tags("py3-none-any"),
			ErrAs: new(*resolve.CompatibleURLNotFoundError),
		},
		"no-distribution": {
			URLs:  nil,
			Tags:  tags("py3-none-any"),
			ErrAs: new(*resolve.DistributionNotFoundError),
		},
		"tie-break": {
			URLs: []string{
				"https://example.com/b/pkg-1.0-py3-none-any.whl",
				"https://example.com/a/pkg-1.0-py3-none-any.whl",
				"https://example.com/pkg-1.0-py2.py3-none-any.whl",
			},
			Tags:   tags("py3-none-any"),
			Expect: "https://example.com/a/pkg-1.0-py3-none-any.whl",
		},
		"ignores-sdist": {
			URLs: []string{
				"https://example.com/pkg-1.0.tar.gz",
				"https://example.com/pkg-1.0-py3-none-any.whl#sha256=abcd",
			},
			Tags:   tags("py3-none-any"),
			Expect: "https://example.com/pkg-1.0-py3-none-any.whl#sha256=abcd",
		},
		"malformed": {
			URLs: []string{
				"https://example.com/pkg-1.0-py3-none-any.whl",
				"https://example.com/pkg-1.0-py3-any.whl",
			},
			Tags:  tags("py3-none-any"),
			ErrAs: new(*bdist.MalformedWheelNameError),
		},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := dlog.NewTestContext(t, false)
			loc := &staticLocator{urls: tc.URLs}
			url, err := resolve.Resolve(ctx, loc, resolve.Request{
				PackageName: "PyYAML",
				Tags:        tc.Tags,
			})
			if tc.ErrAs != nil {
				require.Error(t, err)
				assert.True(t, errors.As(err, tc.ErrAs), "%T", err)
				assert.Equal(t, "", url)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expect, url)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	loc := &staticLocator{urls: []string{
		"https://example.com/pkg-1.0-py3-none-manylinux1_x86_64.whl",
		"https://example.com/pkg-1.0-py3-none-any.whl",
		"https://example.com/pkg-1.0-cp39-abi3-any.whl",
	}}
	req := resolve.Request{PackageName: "pkg", Tags: tags("py3-none-any", "cp39-abi3-any")}
	first, err := resolve.Resolve(ctx, loc, req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := resolve.Resolve(ctx, loc, req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "https://example.com/pkg-1.0-cp39-abi3-any.whl", first)
}

func TestResolveRequirement(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	loc := &staticLocator{}

	_, err := resolve.Resolve(ctx, loc, resolve.Request{PackageName: "PyYAML", PackageVersion: "6.0.1"})
	var notFound *resolve.DistributionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "PyYAML", notFound.PackageName)
	assert.Equal(t, "6.0.1", notFound.PackageVersion)
	assert.Equal(t, "PyYAML (==6.0.1)", notFound.Requirement)
	assert.Equal(t, loc.BaseURL(), notFound.Index)

	_, _ = resolve.Resolve(ctx, loc, resolve.Request{PackageName: "PyYAML"})
	assert.Equal(t, []string{"PyYAML (==6.0.1)", "PyYAML"}, loc.requirements)
}

func TestResolveLocatorError(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	boom := errors.New("connection refused")
	_, err := resolve.Resolve(ctx, &staticLocator{err: boom}, resolve.Request{PackageName: "PyYAML"})
	assert.True(t, errors.Is(err, boom))
}

func TestResolveWarnsOnAmbiguity(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	loc := &staticLocator{urls: []string{
		"https://example.com/b/pkg-1.0-py3-none-any.whl",
		"https://example.com/a/pkg-1.0-py3-none-any.whl",
	}}
	_, err := resolve.Resolve(ctx, loc, resolve.Request{PackageName: "pkg", Tags: tags("py3-none-any")})
	require.NoError(t, err)

	var warnings []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings = append(warnings, entry.Message)
		}
	}
	require.Len(t, warnings, 1)
	assert.True(t, strings.Contains(warnings[0], "https://example.com/a/pkg-1.0-py3-none-any.whl"))
	assert.True(t, strings.Contains(warnings[0], "https://example.com/b/pkg-1.0-py3-none-any.whl"))
}

func TestIsCompatible(t *testing.T) {
	t.Parallel()
	ok, err := resolve.IsCompatible("pkg-1.0-py2.py3-none-any.whl", tags("py2-none-any"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolve.IsCompatible("pkg-1.0.tar.gz", tags("py2-none-any"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = resolve.IsCompatible("pkg-py3-none-any.whl", tags("py3-none-any"))
	assert.Error(t, err)
}

type digestLocator struct{ staticLocator }

func (l *digestLocator) Locate(ctx context.Context, requirement string, prereleases bool) (*locator.Distribution, error) {
	dist, err := l.staticLocator.Locate(ctx, requirement, prereleases)
	if dist != nil {
		dist.Digests = map[string]python.Digest{
			"https://example.com/pkg-1.0-py3-none-any.whl": {Algorithm: "sha256", Hex: "abcd"},
		}
	}
	return dist, err
}

func TestResolveWithDigest(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	loc := &digestLocator{staticLocator{urls: []string{
		"https://example.com/pkg-1.0-py3-none-any.whl",
		"https://example.com/pkg-1.0-cp39-cp39-win32.whl",
	}}}

	url, digest, err := resolve.ResolveWithDigest(ctx, loc, resolve.Request{PackageName: "pkg", Tags: tags("py3-none-any")})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pkg-1.0-py3-none-any.whl", url)
	require.NotNil(t, digest)
	assert.Equal(t, "sha256=abcd", digest.String())

	_, digest, err = resolve.ResolveWithDigest(ctx, loc, resolve.Request{PackageName: "pkg", Tags: tags("cp39-cp39-win32")})
	require.NoError(t, err)
	assert.Nil(t, digest)
}
