package config

import (
	"sort"
	"strings"
)

// normalizer maps case-insensitive user input onto a closed set of values.
type normalizer[T ~string] struct {
	values map[string]T
}

func newNormalizer[T ~string](values ...T) normalizer[T] {
	n := normalizer[T]{values: make(map[string]T, len(values))}
	for _, v := range values {
		n.values[fold(string(v))] = v
	}
	return n
}

// Normalize returns the canonical value for raw, or false when raw is not in
// the set.
func (n normalizer[T]) Normalize(raw string) (T, bool) {
	v, ok := n.values[fold(raw)]
	return v, ok
}

// Valid lists the accepted values in sorted order, for error messages.
func (n normalizer[T]) Valid() []string {
	out := make([]string, 0, len(n.values))
	for k := range n.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// SourceKind selects the content graph fetcher.
type SourceKind string

const (
	SourceFile    SourceKind = "file"
	SourceGraphQL SourceKind = "graphql"
)

var sourceKinds = newNormalizer(SourceFile, SourceGraphQL)

// OutputFormat selects the encoding of the route and redirect tables.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

var outputFormats = newNormalizer(OutputJSON, OutputYAML)

// NormalizeOutputFormat accepts "yml" as an alias of yaml.
func NormalizeOutputFormat(raw string) (OutputFormat, bool) {
	if fold(raw) == "yml" {
		return OutputYAML, true
	}
	return outputFormats.Normalize(raw)
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = newNormalizer(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = newNormalizer(LogFormatJSON, LogFormatText)

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffs = newNormalizer(RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential)

// NormalizeRetryBackoff converts user input into a typed mode, returning the
// empty string for unknown input.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	m, _ := retryBackoffs.Normalize(raw)
	return m
}
