package config

import "github.com/brent-soan/CSADPRG/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "DPWH Flood Control Analytics"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. DPWH_PATHS_INPUT_FILE.
	EnvPrefix = "DPWH"

	// ConfigFileName is looked up in the working directory and configs/.
	ConfigFileName = "dpwh.yaml"

	// Defaults
	DefaultInputFile = "dpwh_flood_control_projects.csv"
	DefaultOutputDir = "output"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Temporal filter year sources
	YearSourceStartDate   = "start_date"
	YearSourceFundingYear = "funding_year"

	// Output file names
	Report1FileName  = "report1_regional_efficiency.csv"
	Report2FileName  = "report2_top_contractors.csv"
	Report3FileName  = "report3_annual_trends.csv"
	SummaryFileName  = "summary.json"
	WorkbookFileName = "reports.xlsx"
	MetricsFileName  = "pipeline_metrics.prom"
	TraceFileName    = "pipeline_traces.json"
)
