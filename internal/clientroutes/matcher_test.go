package clientroutes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/routes"
	"git.home.luguber.info/inful/sitegraph/internal/store"
)

func TestPattern(t *testing.T) {
	cases := map[string]string{
		"/app":                 "/app/*",
		"/app/":                "/app/*",
		"/app/account":         "/app/account/*",
		"/app/account/":        "/app/account/*",
		"/app/account/orders/": "/app/account/*",
		"/app//account":        "/app/account/*",
	}
	for in, want := range cases {
		assert.Equal(t, want, Pattern(in), in)
	}
}

func TestMatches(t *testing.T) {
	m := New("")
	assert.Equal(t, "/app", m.Prefix())
	assert.True(t, m.Matches("/app"))
	assert.True(t, m.Matches("/app/"))
	assert.True(t, m.Matches("/app/account/"))
	assert.True(t, m.Matches("/apple/"))
	assert.True(t, m.Matches("/application/form/"))
	assert.False(t, m.Matches("/shop/app/"))
	assert.False(t, m.Matches("/ap/"))

	custom := New("account/")
	assert.Equal(t, "/account", custom.Prefix())
	assert.True(t, custom.Matches("/account/orders/"))
}

func TestApply_WidensOnlyApplicationPages(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Apply(
		store.CreatePageAction(routes.PageDescriptor{Path: "/about/", Template: routes.TemplatePage, Context: map[string]any{"id": "about"}}),
		store.CreatePageAction(routes.PageDescriptor{Path: "/checkout/", Template: routes.TemplatePage, Context: map[string]any{"id": "co"}, MatchPath: "/checkout/*"}),
		store.CreatePageAction(routes.PageDescriptor{Path: "/app/", Template: routes.TemplatePage, Context: map[string]any{"id": "app"}}),
		store.CreatePageAction(routes.PageDescriptor{Path: "/app/account/settings/", Template: routes.TemplatePage, Context: map[string]any{"id": "settings"}}),
	))

	n, err := New(DefaultPrefix).Apply(s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := s.Snapshot()
	about, _ := snap.Page("/about/")
	assert.Empty(t, about.MatchPath)
	checkout, _ := snap.Page("/checkout/")
	assert.Equal(t, "/checkout/*", checkout.MatchPath)
	app, _ := snap.Page("/app/")
	assert.Equal(t, "/app/*", app.MatchPath)
	settings, _ := snap.Page("/app/account/settings/")
	assert.Equal(t, "/app/account/*", settings.MatchPath)
	assert.Equal(t, "settings", settings.NodeID())

	// A second pass has nothing left to widen.
	n, err = New(DefaultPrefix).Apply(s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApply_EmptyStore(t *testing.T) {
	n, err := New("/app").Apply(store.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApply_WidensPagesSharingThePrefix(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Apply(
		store.CreatePageAction(routes.PageDescriptor{Path: "/apps/", Template: routes.TemplatePage, Context: map[string]any{"id": "apps"}}),
		store.CreatePageAction(routes.PageDescriptor{Path: "/application/form/", Template: routes.TemplatePage, Context: map[string]any{"id": "form"}}),
		store.CreatePageAction(routes.PageDescriptor{Path: "/shop/app/", Template: routes.TemplatePage, Context: map[string]any{"id": "shop"}}),
	))

	n, err := New("").Apply(s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := s.Snapshot()
	apps, _ := snap.Page("/apps/")
	assert.Equal(t, "/apps/*", apps.MatchPath)
	form, _ := snap.Page("/application/form/")
	assert.Equal(t, "/application/form/*", form.MatchPath)
	shop, _ := snap.Page("/shop/app/")
	assert.Empty(t, shop.MatchPath)
}
