package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputFile, cfg.Paths.InputFile)
				assert.Equal(t, DefaultOutputDir, cfg.Paths.OutputDir)
				assert.Equal(t, []int{2021, 2022, 2023}, cfg.Pipeline.Years)
				assert.Equal(t, YearSourceStartDate, cfg.Pipeline.YearSource)
				assert.False(t, cfg.Pipeline.StrictColumns)
				assert.Equal(t, 30, cfg.Reports.HighDelayDays)
				assert.Equal(t, 5, cfg.Reports.MinContractorProjects)
				assert.Equal(t, 15, cfg.Reports.TopContractors)
				assert.Equal(t, 90.0, cfg.Reports.ReliabilityHorizonDays)
				assert.Equal(t, 50.0, cfg.Reports.RiskThreshold)
				assert.Equal(t, 2021, cfg.Reports.BaselineYear)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.False(t, cfg.Telemetry.MetricsEnabled)
			},
		},
		{
			name: "environment variables override defaults",
			env: map[string]string{
				"DPWH_PATHS_INPUT_FILE":        "contracts.csv",
				"DPWH_PIPELINE_YEARS":          "2022,2023",
				"DPWH_PIPELINE_YEAR_SOURCE":    "funding_year",
				"DPWH_REPORTS_TOP_CONTRACTORS": "10",
				"DPWH_LOGGING_LEVEL":           "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "contracts.csv", cfg.Paths.InputFile)
				assert.Equal(t, []int{2022, 2023}, cfg.Pipeline.Years)
				assert.Equal(t, YearSourceFundingYear, cfg.Pipeline.YearSource)
				assert.Equal(t, 10, cfg.Reports.TopContractors)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched fields keep their defaults
				assert.Equal(t, 5, cfg.Reports.MinContractorProjects)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: `
paths:
  input_file: data/projects.csv
  output_dir: out
pipeline:
  years: [2021]
  strict_columns: true
reports:
  baseline_year: 2020
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/projects.csv", cfg.Paths.InputFile)
				assert.Equal(t, "out", cfg.Paths.OutputDir)
				assert.Equal(t, []int{2021}, cfg.Pipeline.Years)
				assert.True(t, cfg.Pipeline.StrictColumns)
				assert.Equal(t, 2020, cfg.Reports.BaselineYear)
				assert.Equal(t, 90.0, cfg.Reports.ReliabilityHorizonDays)
			},
		},
		{
			name: "environment wins over file",
			file: "paths:\n  output_dir: from-file\n",
			env:  map[string]string{"DPWH_PATHS_OUTPUT_DIR": "from-env"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Paths.OutputDir)
			},
		},
		{
			name:    "invalid year source fails validation",
			env:     map[string]string{"DPWH_PIPELINE_YEAR_SOURCE": "completion"},
			wantErr: true,
		},
		{
			name:    "malformed integer env var",
			env:     map[string]string{"DPWH_REPORTS_TOP_CONTRACTORS": "fifteen"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "pipeline: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var file string
			if tt.file != "" {
				file = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(file)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, appErr.Context, "file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty years", func(c *Config) { c.Pipeline.Years = nil }, "Config.Pipeline.Years"},
		{"year out of range", func(c *Config) { c.Pipeline.Years = []int{21} }, "Config.Pipeline.Years[0]"},
		{"zero top contractors", func(c *Config) { c.Reports.TopContractors = 0 }, "Config.Reports.TopContractors"},
		{"zero horizon", func(c *Config) { c.Reports.ReliabilityHorizonDays = 0 }, "Config.Reports.ReliabilityHorizonDays"},
		{"blank input", func(c *Config) { c.Paths.InputFile = "" }, "Config.Paths.InputFile"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "Config.Logging.Level"},
		{"file output without path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, "Config.Logging.FilePath"},
		{"unknown trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, "Config.Telemetry.TraceExporter"},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Context["field"])
		})
	}
}

func TestConfig_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, DefaultInputFile)
	assert.Contains(t, s, "[2021 2022 2023]")
}
