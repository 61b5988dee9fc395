package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

// JSONWriter writes the run summary as indented JSON.
type JSONWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(paths *config.Paths, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{paths: paths, logger: logger.With(slog.String("component", "exporter"))}
}

// WriteSummary writes summary to fileName inside the output directory and
// returns the path written.
func (w *JSONWriter) WriteSummary(ctx context.Context, fileName string, summary domain.Summary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath := w.paths.GetReportPath(fileName)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", exportError("failed to encode summary", fullPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", exportError("failed to create directory", fullPath, err)
	}
	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return "", exportError("failed to write summary", fullPath, err)
	}

	w.logger.InfoContext(ctx, "Wrote summary", slog.String("full_path", fullPath))
	return fullPath, nil
}
