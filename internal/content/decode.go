package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Top-level keys of the site query result. All of them must be present.
var requiredKeys = []string{
	"allWpPage",
	"frontPage",
	"favouriteListPage",
	"articles",
	"productCategoryPage",
	"allWpProductCategory",
	"allWpPost",
	"allWpProduct",
	"wp",
}

type connection[T any] struct {
	Nodes []T `json:"nodes"`
}

type wireNode struct {
	ID         string        `json:"id"`
	URI        string        `json:"uri"`
	Title      string        `json:"title"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	Typename   string        `json:"__typename"`
	WpChildren *wireChildren `json:"wpChildren"`
}

type wireChildren struct {
	Nodes []wireNode `json:"nodes"`
}

func (w wireNode) base() Base {
	title := w.Title
	if title == "" {
		title = w.Name
	}
	return Base{ID: w.ID, URI: w.URI, Title: title}
}

type wireRedirect struct {
	Format string     `json:"format"`
	Origin string     `json:"origin"`
	Target string     `json:"target"`
	Type   statusCode `json:"type"`
}

// statusCode accepts the redirect "type" as a JSON number or a numeric
// string. Anything else decodes to zero, which the normalizer ignores.
type statusCode struct {
	code int
	raw  string
}

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s.raw = str
		s.code, _ = strconv.Atoi(strings.TrimSpace(str))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// Booleans, objects and arrays are not status codes.
		s.raw = string(b)
		return nil
	}
	s.raw = n.String()
	if i, err := n.Int64(); err == nil {
		s.code = int(i)
	}
	return nil
}

type wireWP struct {
	WcSettings *SiteSettings `json:"wcSettings"`
	Seo        *struct {
		Redirects *[]wireRedirect `json:"redirects"`
	} `json:"seo"`
}

type gqlError struct {
	Message string `json:"message"`
}

// Decode parses the site query result into a Graph. It accepts either the
// full GraphQL response ({"data": ..., "errors": ...}) or the bare data object.
// A missing top-level key fails decoding: a static site built from a partial
// snapshot would silently lose routes.
func Decode(data []byte) (*Graph, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.WrapError(err, errors.CategorySnapshot, ErrMalformedSnapshot.Message()).Fatal().Build()
	}

	if rawErrs, ok := top["errors"]; ok && !isNull(rawErrs) {
		var gqlErrs []gqlError
		if err := json.Unmarshal(rawErrs, &gqlErrs); err == nil && len(gqlErrs) > 0 {
			msgs := make([]string, len(gqlErrs))
			for i, e := range gqlErrs {
				msgs[i] = e.Message
			}
			return nil, ErrQueryErrors.WithContext("errors", strings.Join(msgs, "; "))
		}
	}

	if rawData, ok := top["data"]; ok {
		top = nil
		if err := json.Unmarshal(rawData, &top); err != nil || top == nil {
			return nil, ErrMalformedSnapshot.WithContext("key", "data")
		}
	}

	for _, key := range requiredKeys {
		if raw, ok := top[key]; !ok || isNull(raw) {
			return nil, ErrMissingKey.WithContext("key", key)
		}
	}

	g := &Graph{}
	var pages, front, favourites, articles, masters, categories, posts, products connection[wireNode]
	var wp wireWP
	targets := []struct {
		key string
		dst any
	}{
		{"allWpPage", &pages},
		{"frontPage", &front},
		{"favouriteListPage", &favourites},
		{"articles", &articles},
		{"productCategoryPage", &masters},
		{"allWpProductCategory", &categories},
		{"allWpPost", &posts},
		{"allWpProduct", &products},
		{"wp", &wp},
	}
	for _, t := range targets {
		if err := json.Unmarshal(top[t.key], t.dst); err != nil {
			return nil, errors.WrapError(err, errors.CategorySnapshot, ErrMalformedSnapshot.Message()).
				Fatal().
				WithContext("key", t.key).
				Build()
		}
	}

	if wp.WcSettings == nil {
		return nil, ErrMissingKey.WithContext("key", "wp.wcSettings")
	}
	if wp.Seo == nil {
		return nil, ErrMissingKey.WithContext("key", "wp.seo")
	}
	if wp.Seo.Redirects == nil {
		return nil, ErrMissingKey.WithContext("key", "wp.seo.redirects")
	}
	g.Settings = *wp.WcSettings

	for _, n := range pages.Nodes {
		g.Pages = append(g.Pages, GenericPage{n.base()})
	}
	for _, n := range front.Nodes {
		g.FrontPages = append(g.FrontPages, FrontPage{n.base()})
	}
	for _, n := range favourites.Nodes {
		g.FavouritePages = append(g.FavouritePages, FavouriteListPage{n.base()})
	}
	for _, n := range articles.Nodes {
		g.ArticlesPages = append(g.ArticlesPages, ArticlesIndexPage{n.base()})
	}

	masterIDs := make(map[string]bool, len(masters.Nodes))
	for _, n := range masters.Nodes {
		masterIDs[n.ID] = true
	}
	titles := make(map[string]string, len(categories.Nodes))
	for _, n := range categories.Nodes {
		c := categoryFrom(n)
		c.Master = masterIDs[n.ID]
		titles[n.ID] = c.Title
		g.Categories = append(g.Categories, c)
	}
	for _, n := range masters.Nodes {
		c := categoryFrom(n)
		c.Master = true
		if c.Title == "" {
			c.Title = titles[n.ID]
		}
		g.MasterCategories = append(g.MasterCategories, c)
	}

	for _, n := range posts.Nodes {
		g.Posts = append(g.Posts, Post{n.base()})
	}
	for _, n := range products.Nodes {
		variant, ok := productTypenames[n.Typename]
		if !ok {
			return nil, ErrUnknownProductType.
				WithContext("typename", n.Typename).
				WithContext("id", n.ID)
		}
		g.Products = append(g.Products, Product{Base: n.base(), Variant: variant})
	}

	for _, r := range *wp.Seo.Redirects {
		g.Redirects = append(g.Redirects, RawRedirectSpec{
			Format:     RedirectFormat(r.Format),
			Origin:     r.Origin,
			Target:     r.Target,
			StatusCode: r.Type.code,
			TypeTag:    r.Type.raw,
		})
	}

	return g, nil
}

func categoryFrom(n wireNode) ProductCategoryPage {
	c := ProductCategoryPage{Base: n.base(), Slug: n.Slug}
	if n.WpChildren != nil {
		for _, child := range n.WpChildren.Nodes {
			c.Children = append(c.Children, child.base())
		}
	}
	return c
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
