package store

import (
	"git.home.luguber.info/inful/sitegraph/internal/redirects"
	"git.home.luguber.info/inful/sitegraph/internal/routes"
)

// ActionKind is the closed set of mutations the store accepts.
type ActionKind string

const (
	CreatePage     ActionKind = "create_page"
	UpdatePage     ActionKind = "update_page"
	CreateRedirect ActionKind = "create_redirect"
)

// Valid reports whether k is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case CreatePage, UpdatePage, CreateRedirect:
		return true
	}
	return false
}

// Action is a single store mutation. Page is read by the page kinds and
// Redirect by CreateRedirect.
type Action struct {
	Kind     ActionKind
	Page     routes.PageDescriptor
	Redirect redirects.Rule
}

func CreatePageAction(d routes.PageDescriptor) Action {
	return Action{Kind: CreatePage, Page: d}
}

func UpdatePageAction(d routes.PageDescriptor) Action {
	return Action{Kind: UpdatePage, Page: d}
}

func CreateRedirectAction(r redirects.Rule) Action {
	return Action{Kind: CreateRedirect, Redirect: r}
}
