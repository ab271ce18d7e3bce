// Package fetch retrieves the content graph snapshot that the compiler
// consumes. Fetchers return raw bytes; decoding belongs to the content
// package so that every source goes through the same shape checks.
package fetch

import (
	"context"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/retry"
)

// Fetcher returns one snapshot of the site query result.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Describe names the source for logs and build reports.
	Describe() string
}

// New builds the fetcher selected by the source configuration.
func New(src config.SourceConfig) (Fetcher, error) {
	switch src.Kind {
	case config.SourceFile:
		return NewFileFetcher(src.Path), nil
	case config.SourceGraphQL:
		return NewGraphQLFetcher(src.Endpoint,
			WithToken(src.Token),
			WithTimeout(src.TimeoutDuration()),
			WithPolicy(retry.FromConfig(src.Retry)),
		), nil
	default:
		return nil, errors.ConfigError("unsupported source kind").
			WithContext("kind", string(src.Kind)).
			Build()
	}
}
