package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With(slog.String("component", "exporter"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteDataset writes the full dataset, header first, to fileName inside the
// output directory and returns the path written.
func (w *CSVWriter) WriteDataset(ctx context.Context, fileName string, ds *dataset.Dataset) (string, error) {
	header, records := ds.Records(formatValue)
	return w.WriteCSV(ctx, fileName, WriteOptions{Headers: header, Records: records})
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(ctx context.Context, fileName string, options WriteOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath := w.paths.GetReportPath(fileName)

	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", fileName),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", exportError("failed to create directory", fullPath, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", exportError("failed to open file", fullPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", exportError("failed to write headers", fullPath, err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", exportError(fmt.Sprintf("failed to write record %d", i), fullPath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", exportError("failed to flush CSV", fullPath, err)
	}
	if err := file.Close(); err != nil {
		return "", exportError("failed to close file", fullPath, err)
	}
	return fullPath, nil
}

func exportError(msg, path string, cause error) error {
	return apperrors.NewExportError(msg, cause).WithContext("path", path)
}
