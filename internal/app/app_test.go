package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/shared/testutil"
)

func writeConfig(t *testing.T, dir, input, output, exporter string) string {
	t.Helper()
	path := filepath.Join(dir, "dpwh.yaml")
	content := fmt.Sprintf(`paths:
  input_file: %s
  output_dir: %s
telemetry:
  trace_exporter: %s
  metrics_enabled: true
reports:
  preview_rows: 1
`, input, output, exporter)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestApp(t *testing.T, exporter string) (*Application, *testutil.BufferedSlogHandler) {
	t.Helper()
	dir := t.TempDir()
	input := testutil.WriteContractsCSV(t, dir, "contracts.csv", testutil.SampleContracts()...)
	cfgFile := writeConfig(t, dir, input, filepath.Join(dir, "output"), exporter)

	logger, handler := testutil.NewTestLogger(t)
	a, err := NewApplication(Options{ConfigFile: cfgFile, Logger: logger})
	require.NoError(t, err)
	return a, handler
}

func TestNewApplication(t *testing.T) {
	a, handler := newTestApp(t, "none")

	assert.NotNil(t, a.Runner)
	assert.NotNil(t, a.OTelProviders)
	assert.Equal(t, 1, a.Config.Reports.PreviewRows)
	assert.Equal(t, filepath.Join(a.Config.Paths.OutputDir, "summary.json"), a.Paths.SummaryJSON)
	assert.Nil(t, a.traceFile)
	testutil.AssertLogAttr(t, handler, "version", "1.0.0")

	require.NoError(t, a.Shutdown(context.Background()))
}

func TestNewApplication_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "from-file.csv", filepath.Join(dir, "from-file"), "none")
	logger, _ := testutil.NewTestLogger(t)

	a, err := NewApplication(Options{
		ConfigFile: cfgFile,
		InputFile:  "override.csv",
		OutputDir:  filepath.Join(dir, "override"),
		Logger:     logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	assert.Equal(t, "override.csv", a.Paths.InputFile)
	assert.Equal(t, filepath.Join(dir, "override"), a.Paths.OutputDir)
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  year_source: completion_date\n"), 0644))
	logger, _ := testutil.NewTestLogger(t)

	_, err := NewApplication(Options{ConfigFile: path, Logger: logger})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestApplication_ProcessWritesTelemetry(t *testing.T) {
	a, handler := newTestApp(t, "file")
	require.NotNil(t, a.traceFile)

	loaded, generated, err := a.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Data.Len())
	assert.Len(t, generated.Files, 5)

	require.NoError(t, a.Shutdown(context.Background()))
	assert.Nil(t, a.traceFile)

	traces, err := os.ReadFile(a.Paths.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name":"pipeline.generate"`)

	metrics, err := os.ReadFile(a.Paths.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "pipeline_rows_ingested_total")

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Application shutdown complete")
}

func TestApplication_Run(t *testing.T) {
	t.Run("returns the action error", func(t *testing.T) {
		a, _ := newTestApp(t, "none")
		err := a.Run(context.Background(), func(context.Context) error { return assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
		assert.FileExists(t, a.Paths.MetricsFile, "shutdown still runs")
	})

	t.Run("drives the menu", func(t *testing.T) {
		a, _ := newTestApp(t, "none")
		var out bytes.Buffer
		m := a.Menu(strings.NewReader("1\n2\n3\n"), &out)

		require.NoError(t, a.Run(context.Background(), m.Run))
		assert.True(t, m.Loaded())
		assert.FileExists(t, a.Paths.MetricsFile, "enabled in the test config")
		assert.Contains(t, out.String(), "Outputs saved to 5 files.")
		assert.FileExists(t, a.Paths.Report2CSV)
	})
}

func TestApplication_ExitOnlySessionWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "output")
	cfgFile := filepath.Join(dir, "dpwh.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(fmt.Sprintf("paths:\n  output_dir: %s\n", output)), 0644))

	logger, _ := testutil.NewTestLogger(t)
	a, err := NewApplication(Options{ConfigFile: cfgFile, Logger: logger})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, a.Run(context.Background(), a.Menu(strings.NewReader("3\n"), &out).Run))

	assert.Contains(t, out.String(), "Thank you")
	assert.NoFileExists(t, a.Paths.MetricsFile)
	assert.NoDirExists(t, output)
}

func TestApplication_Preflight(t *testing.T) {
	a, _ := newTestApp(t, "none")
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	require.NoError(t, a.Preflight())
	assert.DirExists(t, a.Paths.OutputDir)

	a.Paths.InputFile = filepath.Join(t.TempDir(), "missing.xlsx")
	err := a.Preflight()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
