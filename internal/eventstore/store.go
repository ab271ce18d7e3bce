package eventstore

import "context"

// Store persists build events. Events of one build come back in append order.
type Store interface {
	// Append adds e to the log. A zero At is stamped with the current time.
	Append(ctx context.Context, e Event) error

	// Events returns all events of one build.
	Events(ctx context.Context, buildID string) ([]Event, error)

	// RecentBuildIDs returns the IDs of the most recently started builds,
	// newest first.
	RecentBuildIDs(ctx context.Context, limit int) ([]string, error)

	Close() error
}
