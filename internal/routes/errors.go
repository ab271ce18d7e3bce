package routes

import (
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

var (
	// ErrEmptyPath indicates a routable node without a URI.
	ErrEmptyPath = errors.RoutesError("routable node has an empty uri").Build()

	// ErrNoRoot indicates neither a front page nor any generic page exists, so
	// "/" cannot be bound.
	ErrNoRoot = errors.RoutesError("no front page and no generic page to bind to /").UserAction().Build()

	// ErrPathConflict indicates two distinct nodes compiled to the same path.
	ErrPathConflict = errors.RoutesError("distinct nodes compiled to the same path").UserAction().Build()
)
