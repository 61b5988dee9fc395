package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/infrastructure"
)

// SourceExtensions lists the file types the ingestion stage can read.
var SourceExtensions = []string{".csv", ".xlsx"}

// FileValidator checks the input file and output directory before a
// non-interactive run, so a bad path fails before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "validation"),
	}
}

// ValidateSourceFile checks that path is a readable CSV or XLSX file.
func (v *FileValidator) ValidateSourceFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSourceExtension(ext) {
		v.logger.Error("Unsupported source file type",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError("unsupported source file type").
			WithContext("path", path).
			WithContext("extension", ext)
	}

	// Lock files left by spreadsheet editors share the real file's extension.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewAppValidationError("source is a temporary spreadsheet lock file").
			WithContext("path", path)
	}
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError("source file").WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewParsingError("failed to stat source file", err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError("source path is a directory").WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewParsingError("source file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and accepts new files.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("failed to create output directory", err).WithContext("path", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("output directory is not writable", err).WithContext("path", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func isSourceExtension(ext string) bool {
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
