package content

// Kind identifies a content node variant.
type Kind string

const (
	KindGenericPage         Kind = "generic_page"
	KindFavouriteListPage   Kind = "favourite_list_page"
	KindFrontPage           Kind = "front_page"
	KindArticlesIndexPage   Kind = "articles_index_page"
	KindProductCategoryPage Kind = "product_category_page"
	KindPost                Kind = "post"
	KindProduct             Kind = "product"
)

// ProductKind identifies one of the WooCommerce product sub-variants.
type ProductKind string

const (
	ProductVariable ProductKind = "variable"
	ProductExternal ProductKind = "external"
	ProductGroup    ProductKind = "group"
	ProductSimple   ProductKind = "simple"
)

// productTypenames maps GraphQL __typename values to product sub-variants.
var productTypenames = map[string]ProductKind{
	"WpVariableProduct": ProductVariable,
	"WpExternalProduct": ProductExternal,
	"WpGroupProduct":    ProductGroup,
	"WpSimpleProduct":   ProductSimple,
}

// Base holds the fields common to every node.
type Base struct {
	ID    string `json:"id"`
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Node is implemented only by the variant types in this package.
type Node interface {
	Kind() Kind
	Common() Base
	sealed()
}

type GenericPage struct{ Base }

type FrontPage struct{ Base }

type FavouriteListPage struct{ Base }

type ArticlesIndexPage struct{ Base }

// ProductCategoryPage is a WooCommerce product category. Master marks the
// category flagged as the primary entry point for category browsing.
type ProductCategoryPage struct {
	Base
	Slug     string
	Master   bool
	Children []Base
}

type Post struct{ Base }

// Product is any of the four WooCommerce product sub-variants.
type Product struct {
	Base
	Variant ProductKind
}

func (GenericPage) Kind() Kind         { return KindGenericPage }
func (FrontPage) Kind() Kind           { return KindFrontPage }
func (FavouriteListPage) Kind() Kind   { return KindFavouriteListPage }
func (ArticlesIndexPage) Kind() Kind   { return KindArticlesIndexPage }
func (ProductCategoryPage) Kind() Kind { return KindProductCategoryPage }
func (Post) Kind() Kind                { return KindPost }
func (Product) Kind() Kind             { return KindProduct }

func (n GenericPage) Common() Base         { return n.Base }
func (n FrontPage) Common() Base           { return n.Base }
func (n FavouriteListPage) Common() Base   { return n.Base }
func (n ArticlesIndexPage) Common() Base   { return n.Base }
func (n ProductCategoryPage) Common() Base { return n.Base }
func (n Post) Common() Base                { return n.Base }
func (n Product) Common() Base             { return n.Base }

func (GenericPage) sealed()         {}
func (FrontPage) sealed()           {}
func (FavouriteListPage) sealed()   {}
func (ArticlesIndexPage) sealed()   {}
func (ProductCategoryPage) sealed() {}
func (Post) sealed()                {}
func (Product) sealed()             {}
