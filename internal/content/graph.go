package content

// SiteSettings carries the WooCommerce checkout URIs. Both are in-app flows
// with dynamic sub-paths that must be matched client-side.
type SiteSettings struct {
	CheckoutURL              string `json:"checkoutUrl"`
	CheckoutOrderReceivedURL string `json:"checkoutOrderReceivedUrl"`
}

// DynamicURIs returns the non-empty checkout URIs.
func (s SiteSettings) DynamicURIs() []string {
	out := make([]string, 0, 2)
	for _, u := range []string{s.CheckoutURL, s.CheckoutOrderReceivedURL} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// RedirectFormat is the authoring format of a redirect spec.
type RedirectFormat string

// FormatPlain is the only actionable format; everything else is reserved.
const FormatPlain RedirectFormat = "plain"

// RawRedirectSpec is a user-authored redirect as stored by the CMS SEO plugin.
// The plugin stores the HTTP status in its "type" field; TypeTag keeps the raw
// value for diagnostics.
type RawRedirectSpec struct {
	Format     RedirectFormat `json:"format" yaml:"format"`
	Origin     string         `json:"origin" yaml:"origin"`
	Target     string         `json:"target" yaml:"target"`
	StatusCode int            `json:"status_code" yaml:"status_code"`
	TypeTag    string         `json:"type,omitempty" yaml:"type,omitempty"`
}

// Graph is one build's read-only content snapshot. Singletons (front page,
// favourites page, articles page, master category) are lists because the CMS
// cannot guarantee uniqueness; see First.
type Graph struct {
	Pages            []GenericPage
	FrontPages       []FrontPage
	FavouritePages   []FavouriteListPage
	ArticlesPages    []ArticlesIndexPage
	MasterCategories []ProductCategoryPage
	Categories       []ProductCategoryPage
	Posts            []Post
	Products         []Product
	Settings         SiteSettings
	Redirects        []RawRedirectSpec
}

// Nodes returns every node in traversal order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.Pages)+len(g.Categories)+len(g.Posts)+len(g.Products)+4)
	for _, n := range g.Pages {
		out = append(out, n)
	}
	for _, n := range g.FrontPages {
		out = append(out, n)
	}
	for _, n := range g.ArticlesPages {
		out = append(out, n)
	}
	for _, n := range g.FavouritePages {
		out = append(out, n)
	}
	for _, n := range g.Categories {
		out = append(out, n)
	}
	for _, n := range g.Posts {
		out = append(out, n)
	}
	for _, n := range g.Products {
		out = append(out, n)
	}
	return out
}

// Stats summarizes the snapshot for logging and reports.
type Stats struct {
	Pages, Categories, Posts, Products, Redirects int
}

func (g *Graph) Stats() Stats {
	return Stats{
		Pages:      len(g.Pages),
		Categories: len(g.Categories),
		Posts:      len(g.Posts),
		Products:   len(g.Products),
		Redirects:  len(g.Redirects),
	}
}
