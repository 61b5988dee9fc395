package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	paths := NewPaths(PathsConfig{InputFile: "in.csv", OutputDir: "out"})

	assert.Equal(t, "in.csv", paths.InputFile)
	assert.Equal(t, "out", paths.OutputDir)
	assert.Equal(t, filepath.Join("out", Report1FileName), paths.Report1CSV)
	assert.Equal(t, filepath.Join("out", Report2FileName), paths.Report2CSV)
	assert.Equal(t, filepath.Join("out", Report3FileName), paths.Report3CSV)
	assert.Equal(t, filepath.Join("out", SummaryFileName), paths.SummaryJSON)
	assert.Equal(t, filepath.Join("out", WorkbookFileName), paths.WorkbookXLSX)
	assert.Equal(t, filepath.Join("out", MetricsFileName), paths.MetricsFile)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	paths := NewPaths(PathsConfig{InputFile: "in.csv", OutputDir: dir})

	require.NoError(t, paths.EnsureDirectories())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestPaths_GetReportPath(t *testing.T) {
	paths := NewPaths(PathsConfig{OutputDir: "out"})

	assert.Equal(t, filepath.Join("out", "extra.csv"), paths.GetReportPath("extra.csv"))

	abs := filepath.Join(t.TempDir(), "elsewhere.csv")
	assert.Equal(t, abs, paths.GetReportPath(abs))
}

