package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the output locations of a pipeline run.
// This is the single source of truth for file paths in the application.
type Paths struct {
	InputFile string
	OutputDir string

	// Well-known output files (all inside OutputDir)
	Report1CSV   string
	Report2CSV   string
	Report3CSV   string
	SummaryJSON  string
	WorkbookXLSX string
	MetricsFile  string
	TraceFile    string
}

// NewPaths resolves every output file under cfg.OutputDir.
func NewPaths(cfg PathsConfig) *Paths {
	out := cfg.OutputDir
	return &Paths{
		InputFile:    cfg.InputFile,
		OutputDir:    out,
		Report1CSV:   filepath.Join(out, Report1FileName),
		Report2CSV:   filepath.Join(out, Report2FileName),
		Report3CSV:   filepath.Join(out, Report3FileName),
		SummaryJSON:  filepath.Join(out, SummaryFileName),
		WorkbookXLSX: filepath.Join(out, WorkbookFileName),
		MetricsFile:  filepath.Join(out, MetricsFileName),
		TraceFile:    filepath.Join(out, TraceFileName),
	}
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.OutputDir, err)
	}
	slog.Debug("Ensured directory exists", slog.String("directory", p.OutputDir))
	return nil
}

// GetReportPath returns the path for a report file. Absolute names are
// returned unchanged.
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.OutputDir, filename)
}

