package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogContextAccumulates(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b-1")
	ctx = WithStage(ctx, "compile")
	ctx = WithSource(ctx, "file:snapshot.json")

	lc := GetContext(ctx)
	assert.Equal(t, LogContext{BuildID: "b-1", Stage: "compile", Source: "file:snapshot.json"}, lc)

	// Parent contexts are not mutated.
	assert.Empty(t, GetContext(context.Background()).BuildID)
}

func TestContextLoggingAddsFields(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithStage(WithBuildID(context.Background(), "b-2"), "register")

	InfoContext(ctx, "Registered pages", slog.Int("count", 3))
	DebugContext(ctx, "debug line")
	WarnContext(context.Background(), "bare")

	out := buf.String()
	assert.Contains(t, out, "build_id=b-2")
	assert.Contains(t, out, "stage=register")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "msg=bare")
}

func TestTracerStagesCarryLogContext(t *testing.T) {
	tr := NewTracer(noop.NewTracerProvider())

	ctx, build := tr.StartBuildSpan(context.Background(), "b-3")
	require.NotNil(t, build)
	ctx, stage := tr.StartStageSpan(ctx, "compile", "b-3")
	require.NotNil(t, stage)

	lc := GetContext(ctx)
	assert.Equal(t, "b-3", lc.BuildID)
	assert.Equal(t, "compile", lc.Stage)
	assert.Equal(t, stage, trace.SpanFromContext(ctx))

	EndSpan(stage, errors.New("boom"))
	EndSpan(build, nil)
	EndSpan(nil, nil)
}

func TestNewTracerUsesGlobalProvider(t *testing.T) {
	tr := NewTracer(nil)
	_, span := tr.StartBuildSpan(context.Background(), "b-4")
	assert.False(t, span.IsRecording())
	EndSpan(span, nil)
}
