package routes

import (
	"fmt"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// RootPath is always bound, to the front page or a fallback.
const RootPath = "/"

// Build compiles g into a route table. It fails when a routable node has no
// URI or when "/" cannot be bound to anything.
func Build(g *content.Graph) (*Table, error) {
	b := &builder{table: &Table{Pages: make([]PageDescriptor, 0, estimate(g))}}
	dynamic := g.Settings.DynamicURIs()

	for _, p := range g.Pages {
		match := ""
		if slices.Contains(dynamic, p.URI) {
			match = p.URI + "*"
		}
		if err := b.emit(p, TemplatePage, idContext(p.ID), match); err != nil {
			return nil, err
		}
	}

	if a, ok := content.First(g.ArticlesPages); ok {
		b.warnExtras("articles page", content.Bases(g.ArticlesPages))
		if err := b.emit(a, TemplateArticles, fullContext(a.Base), ""); err != nil {
			return nil, err
		}
	}

	if err := b.bindRoot(g); err != nil {
		return nil, err
	}

	if f, ok := content.First(g.FavouritePages); ok {
		b.warnExtras("favourites page", content.Bases(g.FavouritePages))
		if err := b.emit(f, TemplateFavourites, idContext(f.ID), ""); err != nil {
			return nil, err
		}
	}

	if m, ok := content.First(g.MasterCategories); ok {
		b.warnExtras("master product category", content.Bases(g.MasterCategories))
		if err := b.emit(m, TemplateProductCategory, fullContext(m.Base), ""); err != nil {
			return nil, err
		}
	}

	for _, c := range g.Categories {
		if err := b.emit(c, TemplateProductCategory, idContext(c.ID), ""); err != nil {
			return nil, err
		}
	}
	for _, p := range g.Posts {
		if err := b.emit(p, TemplateArticle, idContext(p.ID), ""); err != nil {
			return nil, err
		}
	}
	for _, p := range g.Products {
		if err := b.emit(p, TemplateProduct, idContext(p.ID), ""); err != nil {
			return nil, err
		}
	}

	for _, d := range b.table.Duplicates() {
		b.table.Warnings = append(b.table.Warnings, duplicateWarning(d))
	}
	return b.table, nil
}

type builder struct {
	table *Table
}

func (b *builder) emit(n content.Node, tmpl TemplateID, ctx map[string]any, match string) error {
	base := n.Common()
	if base.URI == "" {
		return ErrEmptyPath.
			WithContext("id", base.ID).
			WithContext("kind", string(n.Kind()))
	}
	b.add(PageDescriptor{Path: base.URI, Template: tmpl, Context: ctx, MatchPath: match})
	return nil
}

func (b *builder) add(d PageDescriptor) {
	b.table.Pages = append(b.table.Pages, d)
}

// bindRoot binds "/" to the first front page, or to the first generic page
// while the site has none selected.
func (b *builder) bindRoot(g *content.Graph) error {
	root, ok := content.FirstOrFallback(content.Bases(g.FrontPages), content.Bases(g.Pages))
	if !ok {
		return ErrNoRoot
	}
	if len(g.FrontPages) == 0 {
		b.table.RootFallback = true
		slog.Info("No front page selected; binding / to first generic page",
			logfields.NodeID(root.ID),
			logfields.Path(root.URI))
	} else {
		b.warnExtras("front page", content.Bases(g.FrontPages))
	}
	b.add(PageDescriptor{Path: RootPath, Template: TemplatePage, Context: idContext(root.ID)})
	return nil
}

func (b *builder) warnExtras(what string, items []content.Base) {
	n := content.Ignored(items)
	if n == 0 {
		return
	}
	ignored := make([]string, 0, n)
	for _, it := range items[1:] {
		ignored = append(ignored, it.ID)
	}
	b.table.Warnings = append(b.table.Warnings, Warning{
		Code:    WarnIgnoredSingleton,
		Message: fmt.Sprintf("%d nodes flagged as %s; using %s and ignoring %d", len(items), what, items[0].ID, n),
		Path:    items[0].URI,
		NodeIDs: ignored,
	})
}

func idContext(id string) map[string]any {
	return map[string]any{"id": id}
}

func fullContext(b content.Base) map[string]any {
	return map[string]any{"uri": b.URI, "title": b.Title, "id": b.ID}
}

func estimate(g *content.Graph) int {
	return len(g.Pages) + len(g.Categories) + len(g.Posts) + len(g.Products) + 4
}
