// Package clientroutes widens pages under the reserved application prefix into
// client-side matched routes. It runs after pages are registered and only
// ever updates existing pages.
package clientroutes

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
	"git.home.luguber.info/inful/sitegraph/internal/store"
)

// DefaultPrefix is the reserved application prefix.
const DefaultPrefix = "/app"

// Dispatcher is the store surface the matcher needs.
type Dispatcher interface {
	Snapshot() *store.State
	Apply(actions ...store.Action) error
}

// Matcher widens application pages.
type Matcher struct {
	prefix string
}

// New returns a Matcher for prefix, or DefaultPrefix when prefix is empty.
func New(prefix string) *Matcher {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = DefaultPrefix
	}
	return &Matcher{prefix: prefix}
}

// Prefix returns the normalized reserved prefix.
func (m *Matcher) Prefix() string { return m.prefix }

// Matches reports whether path begins with the prefix. This is a plain
// string prefix test, so "/apps/" and "/application/form/" match too.
func (m *Matcher) Matches(path string) bool {
	return strings.HasPrefix(path, m.prefix)
}

// Pattern returns the client-match pattern for path: its first two segments
// followed by a wildcard.
func Pattern(path string) string {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) > 2 {
		segments = segments[:2]
	}
	if len(segments) == 0 {
		return "/*"
	}
	return "/" + strings.Join(segments, "/") + "/*"
}

// Plan returns the updates that widen every matching page in pages. Pages
// that already carry the computed pattern are left alone.
func (m *Matcher) Plan(pages []routes.PageDescriptor) []store.Action {
	var actions []store.Action
	for _, d := range pages {
		if !m.Matches(d.Path) {
			continue
		}
		pattern := Pattern(d.Path)
		if d.MatchPath == pattern {
			continue
		}
		actions = append(actions, store.UpdatePageAction(d.WithMatchPath(pattern)))
	}
	return actions
}

// Apply widens the matching pages registered in s and returns how many pages
// were updated.
func (m *Matcher) Apply(s Dispatcher) (int, error) {
	actions := m.Plan(s.Snapshot().Pages())
	if len(actions) == 0 {
		return 0, nil
	}
	if err := s.Apply(actions...); err != nil {
		return 0, err
	}
	for _, a := range actions {
		slog.Debug("Widened client route",
			logfields.Path(a.Page.Path),
			logfields.MatchPath(a.Page.MatchPath))
	}
	return len(actions), nil
}
