// Package store is the build's page and redirect registry. Every mutation is
// an Action applied by a total reducer; state is never modified in place.
package store

import (
	"sync"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

var (
	// ErrUnknownAction is returned for an action kind outside the closed set.
	// It is a programming error and always fatal.
	ErrUnknownAction = errors.InternalError("store received an unknown action kind").Build()

	// ErrPageNotFound is returned when UpdatePage targets an unregistered path.
	ErrPageNotFound = errors.NewError(errors.CategoryNotFound, "no page registered at path").Build()

	// ErrInvalidAction is returned for a well-formed kind with an unusable payload.
	ErrInvalidAction = errors.ValidationError("store action has an empty key").Build()
)

// Store serializes mutations and publishes immutable snapshots.
type Store struct {
	mu    sync.RWMutex
	state *State
}

// New returns an empty store.
func New() *Store {
	return &Store{state: emptyState()}
}

// Dispatch applies a single action.
func (s *Store) Dispatch(a Action) error {
	return s.Apply(a)
}

// Apply applies actions as one batch. If any action fails, none of them take
// effect.
func (s *Store) Apply(actions ...Action) error {
	if len(actions) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	for _, a := range actions {
		if err := reduce(next, a); err != nil {
			return err
		}
	}
	next.revision++
	s.state = next
	return nil
}

// reduce is total over ActionKind.
func reduce(s *State, a Action) error {
	switch a.Kind {
	case CreatePage:
		if a.Page.Path == "" {
			return ErrInvalidAction.WithContext("kind", string(a.Kind))
		}
		s.withPage(a.Page)
		return nil
	case UpdatePage:
		if _, ok := s.pages[a.Page.Path]; !ok {
			return ErrPageNotFound.WithContext("path", a.Page.Path)
		}
		s.withPage(a.Page)
		return nil
	case CreateRedirect:
		if a.Redirect.FromPath == "" {
			return ErrInvalidAction.WithContext("kind", string(a.Kind))
		}
		s.withRedirect(a.Redirect)
		return nil
	default:
		return ErrUnknownAction.WithContext("kind", string(a.Kind))
	}
}

// Snapshot returns the current state. The returned value is never mutated.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
