package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/infrastructure"
)

// StepTracer provides OpenTelemetry instrumentation for runs and steps
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStepTracer creates a new step tracer. A nil providers value yields
// no-op tracing without metrics.
func NewStepTracer(providers *infrastructure.OTelProviders) (*StepTracer, error) {
	if providers == nil {
		return &StepTracer{tracer: noop.NewTracerProvider().Tracer(infrastructure.MeterName)}, nil
	}
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	return &StepTracer{tracer: providers.Tracer, metrics: metrics}, nil
}

// TraceRun creates a span for a whole Load or Generate run
func (t *StepTracer) TraceRun(ctx context.Context, run *RunState) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline."+run.Operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", run.ID),
			attribute.String("run.operation", run.Operation),
		),
	)
}

// TraceStep creates a span for an individual step
func (t *StepTracer) TraceStep(ctx context.Context, run *RunState, step *StepState) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, step.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", run.ID),
			attribute.String("step.id", step.ID),
		),
	)
}

// EndStep closes the step span and records its duration and outcome.
func (t *StepTracer) EndStep(ctx context.Context, span trace.Span, step *StepState, err error) {
	infrastructure.SetSpanAttributes(ctx, step.Metadata)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		t.recordError(ctx, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	infrastructure.RecordStepMetrics(ctx, t.metrics, step.ID, step.Duration(), err == nil)
}

// EndRun closes the run span and records the run metrics.
func (t *StepTracer) EndRun(ctx context.Context, span trace.Span, run *RunState, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(run.Status)),
		attribute.Float64("run.duration_seconds", run.Duration().Seconds()),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	infrastructure.RecordRunMetrics(ctx, t.metrics, run.Operation, run.Duration(), err)
}

// RecordRows adds to the ingested rows counter.
func (t *StepTracer) RecordRows(ctx context.Context, n int) {
	if t.metrics == nil {
		return
	}
	t.metrics.RowsIngested.Add(ctx, int64(n))
}

// RecordDropped records the rows a cleaning stage removed.
func (t *StepTracer) RecordDropped(ctx context.Context, stage string, before, after int) {
	infrastructure.RecordRowsDropped(ctx, t.metrics, stage, before, after)
}

// RecordReportRows records the size of a finished report.
func (t *StepTracer) RecordReportRows(ctx context.Context, report string, n int) {
	if t.metrics == nil {
		return
	}
	t.metrics.ReportRows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("report", report)))
}

func (t *StepTracer) recordError(ctx context.Context, err error) {
	errType := "unknown"
	if typ, ok := apperrors.TypeOf(err); ok {
		errType = string(typ)
	} else if IsCancellation(err) {
		errType = "cancelled"
	}
	infrastructure.RecordPipelineError(ctx, t.metrics, errType)
}
