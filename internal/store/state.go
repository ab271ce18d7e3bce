package store

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
)

// State is an immutable view of the registered pages and redirects. Keys keep
// their first-registration order; a later write for the same key replaces
// the value in place.
type State struct {
	pages         map[string]routes.PageDescriptor
	pageOrder     []string
	redirects     map[string]redirects.Rule
	redirectOrder []string
	revision      int
}

func emptyState() *State {
	return &State{
		pages:     make(map[string]routes.PageDescriptor),
		redirects: make(map[string]redirects.Rule),
	}
}

// clone returns a shallow copy whose maps and order slices may be written
// without affecting s.
func (s *State) clone() *State {
	return &State{
		pages:         maps.Clone(s.pages),
		pageOrder:     slices.Clone(s.pageOrder),
		redirects:     maps.Clone(s.redirects),
		redirectOrder: slices.Clone(s.redirectOrder),
		revision:      s.revision,
	}
}

func (s *State) withPage(d routes.PageDescriptor) {
	if _, exists := s.pages[d.Path]; !exists {
		s.pageOrder = append(s.pageOrder, d.Path)
	}
	s.pages[d.Path] = d.Clone()
}

func (s *State) withRedirect(r redirects.Rule) {
	if _, exists := s.redirects[r.FromPath]; !exists {
		s.redirectOrder = append(s.redirectOrder, r.FromPath)
	}
	s.redirects[r.FromPath] = r
}

// Revision counts the batches applied to reach this state.
func (s *State) Revision() int { return s.revision }

// Pages returns the registered pages in first-registration order.
func (s *State) Pages() []routes.PageDescriptor {
	out := make([]routes.PageDescriptor, 0, len(s.pageOrder))
	for _, p := range s.pageOrder {
		out = append(out, s.pages[p].Clone())
	}
	return out
}

// Page returns the page registered at path.
func (s *State) Page(path string) (routes.PageDescriptor, bool) {
	d, ok := s.pages[path]
	if !ok {
		return routes.PageDescriptor{}, false
	}
	return d.Clone(), true
}

// Redirects returns the registered redirects in first-registration order.
func (s *State) Redirects() []redirects.Rule {
	out := make([]redirects.Rule, 0, len(s.redirectOrder))
	for _, from := range s.redirectOrder {
		out = append(out, s.redirects[from])
	}
	return out
}

func (s *State) PageCount() int     { return len(s.pages) }
func (s *State) RedirectCount() int { return len(s.redirects) }
