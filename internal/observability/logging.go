package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// LogContext holds the build identifiers carried through a compile.
type LogContext struct {
	BuildID string
	Stage   string
	Source  string
	TraceID string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithSource records which fetcher produced the snapshot.
func WithSource(ctx context.Context, source string) context.Context {
	lc := extractLogContext(ctx)
	lc.Source = source
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	lc := extractLogContext(ctx)
	lc.TraceID = traceID
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := make([]slog.Attr, 0, 4)
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Source != "" {
		attrs = append(attrs, logfields.Source(lc.Source))
	}
	if lc.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", lc.TraceID))
	}
	return attrs
}

func logWith(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, all...)
}

// InfoContext logs an info message with the build identifiers from ctx.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with the build identifiers from ctx.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with the build identifiers from ctx.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with the build identifiers from ctx.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWith(ctx, slog.LevelDebug, msg, attrs)
}
