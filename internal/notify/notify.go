// Package notify announces finished builds so the serving layer can reload
// its route and redirect tables.
package notify

import (
	"context"
	"time"
)

// BuildCompleted is the message published after every build that reached
// the output stage or failed.
type BuildCompleted struct {
	BuildID     string            `json:"build_id"`
	Outcome     string            `json:"outcome"`
	Pages       int               `json:"pages"`
	Redirects   int               `json:"redirects"`
	Warnings    int               `json:"warnings"`
	Artifacts   map[string]string `json:"artifacts,omitempty"` // artifact name -> sha256
	Sink        string            `json:"sink,omitempty"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Publisher delivers build notifications.
type Publisher interface {
	Publish(ctx context.Context, msg BuildCompleted) error
	Close() error
}

// NoopPublisher is used when notifications are not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BuildCompleted) error { return nil }
func (NoopPublisher) Close() error                                { return nil }
