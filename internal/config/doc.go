// Package config provides centralized configuration management for the
// flood-control analytics pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), after loading ./.env
//	2. YAML configuration file (dpwh.yaml or configs/dpwh.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DPWH_<SECTION>_<FIELD>:
//
//	DPWH_PATHS_INPUT_FILE=dpwh_flood_control_projects.csv
//	DPWH_PATHS_OUTPUT_DIR=output
//	DPWH_PIPELINE_YEARS=2021,2022,2023
//	DPWH_PIPELINE_YEAR_SOURCE=start_date
//	DPWH_REPORTS_TOP_CONTRACTORS=15
//	DPWH_LOGGING_LEVEL=debug
//
// # Validation
//
// Every section is validated with go-playground/validator struct tags after
// all sources are merged. Failures are returned as CONFIG application errors
// naming the offending field.
//
// # Path Management
//
// Paths resolves every output artifact (three report CSVs, summary.json,
// the workbook and the metrics textfile) under the configured output
// directory:
//
//	paths := config.NewPaths(cfg.Paths)
//	err := paths.EnsureDirectories()
package config
