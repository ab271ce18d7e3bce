package routes

import "path"

// TemplateID identifies the rendering template a page is bound to.
type TemplateID string

const (
	TemplatePage            TemplateID = "page"
	TemplateArticles        TemplateID = "articles"
	TemplateFavourites      TemplateID = "favourites"
	TemplateProductCategory TemplateID = "productCategory"
	TemplateArticle         TemplateID = "article"
	TemplateProduct         TemplateID = "product"
)

// DefaultTemplateDir is where the site keeps its page template components.
const DefaultTemplateDir = "./src/templates"

// Templates returns every template in a stable order.
func Templates() []TemplateID {
	return []TemplateID{
		TemplatePage,
		TemplateArticles,
		TemplateFavourites,
		TemplateProductCategory,
		TemplateArticle,
		TemplateProduct,
	}
}

// Valid reports whether t is a known template.
func (t TemplateID) Valid() bool {
	for _, known := range Templates() {
		if t == known {
			return true
		}
	}
	return false
}

// Component resolves t to its component path under dir.
func (t TemplateID) Component(dir string) string {
	if dir == "" {
		dir = DefaultTemplateDir
	}
	p := path.Join(dir, string(t)+".js")
	if len(dir) > 1 && dir[:2] == "./" {
		p = "./" + p
	}
	return p
}
