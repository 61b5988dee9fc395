package domain

import (
	"time"
)

// ReportFormat defines the format of a written report file
type ReportFormat string

const (
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatExcel ReportFormat = "excel"
)

// Report describes one generated report table
type Report struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Format      ReportFormat `json:"format"`
	FilePath    string       `json:"file_path,omitempty"`
	RecordCount int          `json:"record_count"`
	// UndefinedAggregates counts result cells left undefined, e.g. a zero
	// denominator.
	UndefinedAggregates int `json:"undefined_aggregates"`
}

// Manifest records what a generate run produced
type Manifest struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	Source      string    `json:"source,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Reports     []Report  `json:"reports"`
	Files       []string  `json:"files"`
	Summary     Summary   `json:"summary"`
}
