package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// PipelineConfig controls ingestion and cleaning.
type PipelineConfig struct {
	// Years is the inclusive set of years kept by the temporal filter.
	Years []int `yaml:"years" envconfig:"YEARS" validate:"required,min=1,dive,gte=1900,lte=2100"`
	// YearSource selects the column the temporal filter reads its year from.
	YearSource string `yaml:"year_source" envconfig:"YEAR_SOURCE" validate:"oneof=start_date funding_year"`
	// StrictColumns rejects source files carrying columns outside the schema.
	StrictColumns bool `yaml:"strict_columns" envconfig:"STRICT_COLUMNS"`
}

// ReportsConfig holds the thresholds used by the three reports.
type ReportsConfig struct {
	HighDelayDays          int     `yaml:"high_delay_days" envconfig:"HIGH_DELAY_DAYS" validate:"gte=0"`
	MinContractorProjects  int     `yaml:"min_contractor_projects" envconfig:"MIN_CONTRACTOR_PROJECTS" validate:"gte=1"`
	TopContractors         int     `yaml:"top_contractors" envconfig:"TOP_CONTRACTORS" validate:"gte=1"`
	ReliabilityHorizonDays float64 `yaml:"reliability_horizon_days" envconfig:"RELIABILITY_HORIZON_DAYS" validate:"gt=0"`
	RiskThreshold          float64 `yaml:"risk_threshold" envconfig:"RISK_THRESHOLD"`
	BaselineYear           int     `yaml:"baseline_year" envconfig:"BASELINE_YEAR" validate:"gte=1900,lte=2100"`
	PreviewRows            int     `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"gte=0"`
	Workbook               bool    `yaml:"workbook" envconfig:"WORKBOOK"`
}

// TelemetryConfig controls tracing and metrics output.
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=file stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present. An empty
// configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Fields carry no default tags, so envconfig only touches variables that
	// are actually set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every section against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return apperrors.NewConfigError("config validation failed", err).
				WithContext("field", first.Namespace()).
				WithContext("rule", first.Tag())
		}
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		ConfigFileName,
		"configs/" + ConfigFileName,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/dpwh.log",
		},
		Paths: PathsConfig{
			InputFile: DefaultInputFile,
			OutputDir: DefaultOutputDir,
		},
		Pipeline: PipelineConfig{
			Years:      []int{2021, 2022, 2023},
			YearSource: YearSourceStartDate,
		},
		Reports: ReportsConfig{
			HighDelayDays:          30,
			MinContractorProjects:  5,
			TopContractors:         15,
			ReliabilityHorizonDays: 90,
			RiskThreshold:          50,
			BaselineYear:           2021,
			PreviewRows:            3,
			Workbook:               true,
		},
		// Metrics are opt-in; a default session writes only the report files.
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}

// String summarizes the effective settings for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("input=%s output=%s years=%v year_source=%s",
		c.Paths.InputFile, c.Paths.OutputDir, c.Pipeline.Years, c.Pipeline.YearSource)
}
