package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by the compiler.
const TracerName = "sitegraph"

// Tracer starts build and stage spans. It resolves the tracer from the
// global OpenTelemetry provider, which is a no-op until a process installs
// an SDK provider.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from provider, or from the global provider
// when provider is nil.
func NewTracer(provider trace.TracerProvider) *Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(TracerName)}
}

// StartBuildSpan creates the root span of one compile. The span's trace ID
// is copied into the log context so log lines can be correlated.
func (t *Tracer) StartBuildSpan(ctx context.Context, buildID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "build",
		trace.WithAttributes(attribute.String("build.id", buildID)))
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = WithTraceID(ctx, sc.TraceID().String())
	}
	return WithBuildID(ctx, buildID), span
}

// StartStageSpan creates a child span for a pipeline stage.
func (t *Tracer) StartStageSpan(ctx context.Context, stage, buildID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "stage."+stage,
		trace.WithAttributes(
			attribute.String("build.id", buildID),
			attribute.String("stage.name", stage),
		))
	return WithStage(ctx, stage), span
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
