package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chartpulse/internal/infrastructure"
)

// RunTracer provides OpenTelemetry instrumentation for pipeline runs
type RunTracer struct {
	tracer trace.Tracer
}

// NewRunTracer creates a tracer backed by the initialized providers
func NewRunTracer(providers *infrastructure.OTelProviders) *RunTracer {
	return &RunTracer{tracer: providers.Tracer}
}

// TraceRun creates the root span for one pipeline run
func (t *RunTracer) TraceRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
		),
	)
}

// TraceStep creates a span for one pipeline step
func (t *RunTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("pipeline.step.%s", stepID)
	return t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion finalizes a step span with status and duration
func (t *RunTracer) RecordStepCompletion(span trace.Span, state *StepState, duration time.Duration) {
	span.SetAttributes(
		attribute.String("step.status", string(state.Status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	switch state.Status {
	case StepStatusFailed:
		if state.Err != nil {
			span.RecordError(state.Err)
		}
		span.SetStatus(codes.Error, fmt.Sprintf("step %s failed", state.ID))
	default:
		span.SetStatus(codes.Ok, fmt.Sprintf("step %s %s", state.ID, state.Status))
	}
}

// RecordRunCompletion finalizes the run span
func (t *RunTracer) RecordRunCompletion(span trace.Span, runID string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline run failed")
		return
	}
	span.SetStatus(codes.Ok, "pipeline run completed")
}
