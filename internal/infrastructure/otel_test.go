package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brent-soan/CSADPRG/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)
	assert.NotNil(t, providers.Tracer, "tracer falls back to no-op")
	assert.NotNil(t, providers.Meter, "meter falls back to no-op")

	// no-op instruments are still usable
	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	RecordRunMetrics(context.Background(), metrics, "load", time.Millisecond, nil)

	assert.NoError(t, providers.WriteMetrics(filepath.Join(t.TempDir(), "m.prom")))
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_FileTraces(t *testing.T) {
	var traces bytes.Buffer
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "file"}, &traces)

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "load")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	SetSpanAttributes(ctx, map[string]interface{}{"rows": 10, "file": "in.csv"})
	RecordError(ctx, assert.AnError)
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, traces.String(), `"Name":"load"`)
}

func TestOTelInitialization_FileTracesRequireWriter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "file"}, discardLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, discardLogger())
	assert.Error(t, err)
}

func TestPipelineMetrics_WriteTextfile(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "none", MetricsEnabled: true}, nil)
	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.Registry)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordRunMetrics(ctx, metrics, "generate", 20*time.Millisecond, nil)
	RecordStepMetrics(ctx, metrics, "clean", 5*time.Millisecond, true)
	RecordRowsDropped(ctx, metrics, "filter_years", 10, 7)
	RecordRowsDropped(ctx, metrics, "derive", 7, 7)
	RecordPipelineError(ctx, metrics, "SCHEMA_MISMATCH")
	metrics.RowsIngested.Add(ctx, 10)

	path := filepath.Join(t.TempDir(), config.MetricsFileName)
	require.NoError(t, providers.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "pipeline_runs_total")
	assert.Contains(t, text, "pipeline_step_duration_seconds")
	assert.Contains(t, text, "pipeline_rows_dropped_total")
	assert.Contains(t, text, `step="filter_years"`)
	assert.Contains(t, text, "pipeline_rows_ingested_total")
	assert.Contains(t, text, `error_type="SCHEMA_MISMATCH"`)
	assert.NotContains(t, text, `"error.type"`)
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRunMetrics(ctx, nil, "load", time.Second, assert.AnError)
		RecordStepMetrics(ctx, nil, "ingest", time.Second, false)
		RecordRowsDropped(ctx, nil, "clean", 2, 1)
		RecordPipelineError(ctx, nil, "EXPORT")
		RecordError(ctx, assert.AnError)
	})
}
