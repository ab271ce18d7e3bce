package redirects

import (
	"bytes"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

func plain(origin, target string, status int) content.RawRedirectSpec {
	return content.RawRedirectSpec{Format: content.FormatPlain, Origin: origin, Target: target, StatusCode: status}
}

func TestSlashPrimitives(t *testing.T) {
	cases := []struct {
		in, prepend, append, both string
	}{
		{"", "/", "/", "/"},
		{"/", "/", "/", "/"},
		{"a", "/a", "a/", "/a/"},
		{"/a", "/a", "/a/", "/a/"},
		{"a/", "/a/", "a/", "/a/"},
		{"/a/b/", "/a/b/", "/a/b/", "/a/b/"},
		{"https://example.com/x", "/https://example.com/x", "https://example.com/x/", "/https://example.com/x/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.prepend, PrependSlash(tc.in), "prepend %q", tc.in)
		assert.Equal(t, tc.append, AppendSlash(tc.in), "append %q", tc.in)
		assert.Equal(t, tc.both, AddSlashes(tc.in), "both %q", tc.in)
		assert.Equal(t, AddSlashes(tc.in), AddSlashes(AddSlashes(tc.in)), "idempotent %q", tc.in)
	}
}

func TestNormalize_OldPageScenario(t *testing.T) {
	res := Normalize([]content.RawRedirectSpec{plain("/old-page", "/new-page", 301)})
	assert.Equal(t, []Rule{
		{FromPath: "/old-page", ToPath: "/new-page/", IsPermanent: true},
		{FromPath: "/old-page/", ToPath: "/new-page/", IsPermanent: true},
	}, res.Rules)
	assert.Empty(t, res.Skipped)
}

func TestNormalize_UnsupportedSpecsAreSkipped(t *testing.T) {
	html := plain("/a", "/b", 301)
	html.Format = "html"
	specs := []content.RawRedirectSpec{
		html,
		plain("/gone", "/", 410),
		plain("/temp", "/other", 307),
		plain("", "/target", 301),
		plain("/origin", "  ", 302),
	}

	res := Normalize(specs)
	assert.Empty(t, res.Rules)
	require.Len(t, res.Skipped, 5)
	assert.Equal(t, []SkipReason{SkipFormat, SkipStatus, SkipStatus, SkipEmptyPath, SkipEmptyPath},
		[]SkipReason{res.Skipped[0].Reason, res.Skipped[1].Reason, res.Skipped[2].Reason, res.Skipped[3].Reason, res.Skipped[4].Reason})
	assert.Empty(t, res.Warnings)
}

func TestNormalize_TemporaryRedirect(t *testing.T) {
	res := Normalize([]content.RawRedirectSpec{plain("promo", "sale", 302)})
	require.Len(t, res.Rules, 2)
	for _, r := range res.Rules {
		assert.False(t, r.IsPermanent)
		assert.Equal(t, 302, r.StatusCode())
	}
	assert.Equal(t, "/promo", res.Rules[0].FromPath)
	assert.Equal(t, "/promo/", res.Rules[1].FromPath)
}

func TestNormalize_SlashOnlyDifference(t *testing.T) {
	// "/docs" -> "/docs/" is a real redirect; its slash variant would point at itself.
	res := Normalize([]content.RawRedirectSpec{plain("/docs", "docs", 301)})
	assert.Equal(t, []Rule{{FromPath: "/docs", ToPath: "/docs/", IsPermanent: true}}, res.Rules)

	// Origin already slash-suffixed and equal to the target: nothing to emit.
	res = Normalize([]content.RawRedirectSpec{plain("/docs/", "docs", 301)})
	assert.Empty(t, res.Rules)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipSelf, res.Skipped[0].Reason)
}

func TestNormalize_Properties(t *testing.T) {
	specs := []content.RawRedirectSpec{
		plain("/old-page", "/new-page", 301),
		plain("sale/", "shop", 302),
		plain("a/b", "/a/b/c", 301),
		plain("/x", "x", 302),
		plain("/unicode-ä", "/ü", 301),
		plain("/q?x=1", "/q", 301),
	}
	res := Normalize(specs)

	byFrom := make(map[string]Rule, len(res.Rules))
	for _, r := range res.Rules {
		assert.NotEqual(t, r.FromPath, r.ToPath, "self redirect emitted")
		assert.True(t, r.FromPath[0] == '/', "from %q", r.FromPath)
		assert.Equal(t, AddSlashes(r.ToPath), r.ToPath, "to %q", r.ToPath)
		byFrom[r.FromPath] = r
	}

	for _, s := range specs {
		want := AddSlashes(s.Target)
		for _, req := range []string{PrependSlash(s.Origin), AddSlashes(s.Origin)} {
			if req == want {
				continue
			}
			r, ok := byFrom[req]
			if assert.True(t, ok, "no rule for %q", req) {
				assert.Equal(t, want, r.ToPath)
			}
		}
	}
}

func TestNormalize_DeduplicatesAcrossSpecs(t *testing.T) {
	res := Normalize([]content.RawRedirectSpec{
		plain("/a", "/b", 301),
		plain("/a/", "/b/", 301),
		plain("/a", "/c", 301),
	})

	assert.Equal(t, []Rule{
		{FromPath: "/a", ToPath: "/b/", IsPermanent: true},
		{FromPath: "/a/", ToPath: "/b/", IsPermanent: true},
	}, res.Rules)
	assert.Equal(t, 1, res.Duplicates)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, WarnConflictingOrigin, res.Warnings[0].Code)
	assert.Equal(t, "/a", res.Warnings[0].FromPath)
	assert.Equal(t, "/a/", res.Warnings[1].FromPath)
}

func TestNormalize_Fixture(t *testing.T) {
	data, err := os.ReadFile("../content/testdata/snapshot.json")
	require.NoError(t, err)
	g, err := content.Decode(data)
	require.NoError(t, err)

	res := Normalize(g.Redirects)
	assert.Len(t, res.Skipped, 2)

	gold := goldie.New(t, goldie.WithEqualFn(func(actual, expected []byte) bool {
		return bytes.Equal(bytes.TrimSpace(actual), bytes.TrimSpace(expected))
	}))
	gold.AssertJson(t, "fixture_rules", res.Rules)
}
