package fetch

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/retry"
)

// SiteQuery is the query whose result the content decoder understands.
//
//go:embed query.graphql
var SiteQuery string

// maxResponseBytes bounds the snapshot body read from the endpoint.
const maxResponseBytes = 64 << 20

// GraphQLFetcher posts SiteQuery to a GraphQL endpoint.
type GraphQLFetcher struct {
	endpoint string
	token    string
	client   *http.Client
	policy   retry.Policy
}

// Option configures a GraphQLFetcher.
type Option func(*GraphQLFetcher)

// WithToken sends the token as a bearer Authorization header.
func WithToken(token string) Option { return func(f *GraphQLFetcher) { f.token = token } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *GraphQLFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

func WithPolicy(p retry.Policy) Option { return func(f *GraphQLFetcher) { f.policy = p } }

// WithHTTPClient replaces the HTTP client. Tests use it with httptest.
func WithHTTPClient(c *http.Client) Option {
	return func(f *GraphQLFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

func NewGraphQLFetcher(endpoint string, opts ...Option) *GraphQLFetcher {
	f := &GraphQLFetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		policy:   retry.DefaultPolicy(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *GraphQLFetcher) Describe() string { return "graphql:" + f.endpoint }

type graphQLRequest struct {
	Query string `json:"query"`
}

// Fetch returns the raw response body. GraphQL level errors inside a 200
// response are left for the decoder, which reports them as snapshot errors.
func (f *GraphQLFetcher) Fetch(ctx context.Context) ([]byte, error) {
	body, err := json.Marshal(graphQLRequest{Query: SiteQuery})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode query").Build()
	}

	var out []byte
	err = f.policy.Do(ctx, "graphql_fetch", func(ctx context.Context) error {
		data, err := f.post(ctx, body)
		if err != nil {
			return err
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched content graph", logfields.Source(f.Describe()), slog.Int("bytes", len(out)))
	return out, nil
}

func (f *GraphQLFetcher) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid GraphQL endpoint").
			Fatal().
			WithContext("endpoint", f.endpoint).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapError(err, errors.CategoryFetch, "GraphQL request failed").
			Retryable().
			WithContext("endpoint", f.endpoint).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFetch, "failed to read GraphQL response").
			Retryable().
			Build()
	}
	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return data, nil
}

// classifyStatus maps HTTP status codes onto retry strategies: throttling
// and server errors are retried, other client errors are not.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return errors.FetchError("GraphQL endpoint is rate limiting").
			RateLimit().
			WithContext("status", code).
			Build()
	case code >= 500:
		return errors.FetchError(fmt.Sprintf("GraphQL endpoint returned %d", code)).
			WithContext("status", code).
			Build()
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.FetchError("GraphQL endpoint rejected credentials").
			UserAction().
			WithContext("status", code).
			Build()
	default:
		return errors.FetchError(fmt.Sprintf("GraphQL endpoint returned %d", code)).
			WithRetry(errors.RetryNever).
			WithContext("status", code).
			Build()
	}
}
