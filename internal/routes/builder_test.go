package routes

import (
	"bytes"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithEqualFn(func(actual, expected []byte) bool {
		return bytes.Equal(bytes.TrimSpace(actual), bytes.TrimSpace(expected))
	}))
}

func fixtureGraph(t *testing.T) *content.Graph {
	t.Helper()
	data, err := os.ReadFile("../content/testdata/snapshot.json")
	require.NoError(t, err)
	g, err := content.Decode(data)
	require.NoError(t, err)
	return g
}

func page(id, uri string) content.GenericPage {
	return content.GenericPage{Base: content.Base{ID: id, URI: uri}}
}

func TestBuild_FixtureTable(t *testing.T) {
	table, err := Build(fixtureGraph(t))
	require.NoError(t, err)
	assert.Empty(t, table.Warnings)
	assert.False(t, table.RootFallback)

	newGoldie(t).AssertJson(t, "fixture_table", table.Pages)
}

func TestBuild_FrontPageFallback(t *testing.T) {
	g := &content.Graph{
		Pages: []content.GenericPage{page("p1", "/first/"), page("p2", "/second/")},
	}

	table, err := Build(g)
	require.NoError(t, err)
	assert.True(t, table.RootFallback)

	var root *PageDescriptor
	for i := range table.Pages {
		if table.Pages[i].Path == RootPath {
			root = &table.Pages[i]
		}
	}
	require.NotNil(t, root)
	assert.Equal(t, "p1", root.NodeID())
	assert.Equal(t, TemplatePage, root.Template)
}

func TestBuild_NoRootIsFatal(t *testing.T) {
	g := &content.Graph{
		Posts: []content.Post{{Base: content.Base{ID: "post", URI: "/post/"}}},
	}
	_, err := Build(g)
	require.ErrorIs(t, err, ErrNoRoot)
}

func TestBuild_FrontPageOnly(t *testing.T) {
	g := &content.Graph{FrontPages: []content.FrontPage{{Base: content.Base{ID: "home"}}}}
	table, err := Build(g)
	require.NoError(t, err)
	require.Len(t, table.Pages, 1)
	assert.Equal(t, PageDescriptor{Path: "/", Template: TemplatePage, Context: map[string]any{"id": "home"}}, table.Pages[0])
}

func TestBuild_EmptyURIIsFatal(t *testing.T) {
	g := &content.Graph{
		Pages:    []content.GenericPage{page("p1", "/p1/")},
		Products: []content.Product{{Base: content.Base{ID: "prod"}, Variant: content.ProductSimple}},
	}
	_, err := Build(g)
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestBuild_SingletonExtrasWarn(t *testing.T) {
	g := &content.Graph{
		FrontPages: []content.FrontPage{{Base: content.Base{ID: "home"}}, {Base: content.Base{ID: "home-2"}}},
		ArticlesPages: []content.ArticlesIndexPage{
			{Base: content.Base{ID: "a1", URI: "/news/", Title: "News"}},
			{Base: content.Base{ID: "a2", URI: "/blog/", Title: "Blog"}},
		},
		MasterCategories: []content.ProductCategoryPage{
			{Base: content.Base{ID: "c1", URI: "/shop/"}, Master: true},
			{Base: content.Base{ID: "c2", URI: "/store/"}, Master: true},
			{Base: content.Base{ID: "c3", URI: "/market/"}, Master: true},
		},
	}

	table, err := Build(g)
	require.NoError(t, err)

	require.Len(t, table.Warnings, 3)
	for _, w := range table.Warnings {
		assert.Equal(t, WarnIgnoredSingleton, w.Code)
	}
	assert.Equal(t, []string{"a2"}, table.Warnings[0].NodeIDs)
	assert.Equal(t, []string{"home-2"}, table.Warnings[1].NodeIDs)
	assert.Equal(t, []string{"c2", "c3"}, table.Warnings[2].NodeIDs)

	paths := make([]string, 0, len(table.Pages))
	for _, d := range table.Pages {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"/news/", "/", "/shop/"}, paths)
	assert.Equal(t, map[string]any{"uri": "/news/", "title": "News", "id": "a1"}, table.Pages[0].Context)
}

func TestBuild_MasterCategoryComposesWithPerCategory(t *testing.T) {
	cat := content.ProductCategoryPage{Base: content.Base{ID: "c1", URI: "/shop/", Title: "Shop"}, Master: true}
	g := &content.Graph{
		FrontPages:       []content.FrontPage{{Base: content.Base{ID: "home"}}},
		MasterCategories: []content.ProductCategoryPage{cat},
		Categories:       []content.ProductCategoryPage{cat},
	}

	table, err := Build(g)
	require.NoError(t, err)
	require.Len(t, table.Pages, 3)
	assert.Equal(t, map[string]any{"uri": "/shop/", "title": "Shop", "id": "c1"}, table.Pages[1].Context)
	assert.Equal(t, map[string]any{"id": "c1"}, table.Pages[2].Context)
	assert.Empty(t, table.Duplicates(), "same-node overlap is intentional")
	assert.NoError(t, table.CheckConflicts())
}

func TestBuild_DistinctNodesOnOnePathWarn(t *testing.T) {
	g := &content.Graph{
		Pages: []content.GenericPage{page("p1", "/sale/")},
		Posts: []content.Post{{Base: content.Base{ID: "post", URI: "/sale/"}}},
	}

	table, err := Build(g)
	require.NoError(t, err)
	require.Len(t, table.Warnings, 1)
	assert.Equal(t, WarnDuplicatePath, table.Warnings[0].Code)
	assert.Equal(t, []string{"p1", "post"}, table.Warnings[0].NodeIDs)

	err = table.CheckConflicts()
	require.ErrorIs(t, err, ErrPathConflict)
}

func TestDuplicates_ComparesNFC(t *testing.T) {
	table := &Table{Pages: []PageDescriptor{
		{Path: "/café/", Context: map[string]any{"id": "composed"}},
		{Path: "/cafe\u0301/", Context: map[string]any{"id": "decomposed"}},
		{Path: "/other/", Context: map[string]any{"id": "other"}},
	}}

	dups := table.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "/café/", dups[0].Path)
	assert.Equal(t, []string{"composed", "decomposed"}, dups[0].NodeIDs)
}

func TestTemplateComponent(t *testing.T) {
	assert.Equal(t, "./src/templates/page.js", TemplatePage.Component(""))
	assert.Equal(t, "./src/templates/productCategory.js", TemplateProductCategory.Component("./src/templates/"))
	assert.Equal(t, "/srv/site/templates/article.js", TemplateArticle.Component("/srv/site/templates"))
	assert.True(t, TemplateFavourites.Valid())
	assert.False(t, TemplateID("checkout").Valid())
}

func TestPageDescriptor_WithMatchPathCopies(t *testing.T) {
	d := PageDescriptor{Path: "/app/", Template: TemplatePage, Context: map[string]any{"id": "x"}}
	widened := d.WithMatchPath("/app/*")
	widened.Context["id"] = "mutated"

	assert.Empty(t, d.MatchPath)
	assert.Equal(t, "x", d.NodeID())
	assert.Equal(t, "/app/*", widened.MatchPath)
}
