package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/reports"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

// SummarySheet is the name of the workbook sheet holding the summary.
const SummarySheet = "summary"

// WorkbookWriter writes every report into one XLSX workbook, a sheet per
// report followed by a summary sheet.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{paths: paths, logger: logger.With(slog.String("component", "exporter"))}
}

// Write saves the workbook to fileName inside the output directory and
// returns the path written.
func (w *WorkbookWriter) Write(ctx context.Context, fileName string, results []*reports.Result, summary domain.Summary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath := w.paths.GetReportPath(fileName)

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", exportError("failed to create header style", fullPath, err)
	}

	first := true
	for _, r := range results {
		sheet := string(r.Name)
		if err := w.addSheet(f, sheet, first); err != nil {
			return "", exportError("failed to add sheet "+sheet, fullPath, err)
		}
		first = false
		if err := writeDatasetSheet(f, sheet, r.Data, bold); err != nil {
			return "", exportError("failed to write sheet "+sheet, fullPath, err)
		}
	}

	if err := w.addSheet(f, SummarySheet, first); err != nil {
		return "", exportError("failed to add summary sheet", fullPath, err)
	}
	if err := writeSummarySheet(f, summary, bold); err != nil {
		return "", exportError("failed to write summary sheet", fullPath, err)
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", exportError("failed to create directory", fullPath, err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", exportError("failed to save workbook", fullPath, err)
	}

	w.logger.InfoContext(ctx, "Wrote workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(results)+1))
	return fullPath, nil
}

// addSheet renames the default sheet for the first call and appends a new
// sheet otherwise.
func (w *WorkbookWriter) addSheet(f *excelize.File, name string, first bool) error {
	if first {
		return f.SetSheetName(f.GetSheetName(0), name)
	}
	_, err := f.NewSheet(name)
	return err
}

func writeDatasetSheet(f *excelize.File, sheet string, ds *dataset.Dataset, headerStyle int) error {
	cols := ds.Columns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for r := 0; r < ds.Len(); r++ {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			row[i] = cellValue(ds.Value(r, c))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s domain.Summary, headerStyle int) error {
	var avgDelay interface{}
	if s.GlobalAverageDelay != nil {
		avgDelay = *s.GlobalAverageDelay
	}
	rows := [][]interface{}{
		{"metric", "value"},
		{"total_projects", s.TotalProjects},
		{"total_contractors", s.TotalContractors},
		{"total_provinces", s.TotalProvinces},
		{"global_avg_delay", avgDelay},
		{"total_savings", s.TotalSavings},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return f.SetRowStyle(SummarySheet, 1, 1, headerStyle)
}

// cellValue maps a dataset value onto a typed spreadsheet cell. Missing
// values leave the cell empty.
func cellValue(v dataset.Value) interface{} {
	if v.IsMissing() {
		return nil
	}
	switch v.Kind() {
	case dataset.KindFloat:
		f, _ := v.Number()
		return round2(f)
	case dataset.KindInt:
		i, _ := v.Integer()
		return i
	default:
		return v.String()
	}
}
