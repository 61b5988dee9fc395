package ingest

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Config contains ingestion options
type Config struct {
	// Strict rejects source files that carry columns outside the schema.
	Strict bool
}

// Ingester reads a source file into a typed dataset keyed by canonical
// column names.
type Ingester struct {
	logger *slog.Logger
	config Config
	schema schema.Schema
}

// NewIngester creates a new ingester
func NewIngester(logger *slog.Logger, cfg Config) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		logger: logger.With(slog.String("component", "ingest")),
		config: cfg,
		schema: schema.Canonical(),
	}
}

// Ingest reads the file at path. Workbooks are read from their first sheet,
// anything else as CSV.
func (i *Ingester) Ingest(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	format := FormatOf(path)

	var (
		tbl *table
		err error
	)
	switch format {
	case FormatXLSX:
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, openError(path, statErr)
		}
		tbl, err = readXLSX(path)
	default:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, openError(path, openErr)
		}
		defer f.Close()
		tbl, err = readCSV(f)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read source file", err).
			WithContext("path", path).
			WithContext("format", string(format))
	}

	ds, err := i.build(ctx, tbl)
	if err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "Ingested source file",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", ds.Width()),
		slog.Duration("duration", time.Since(start)))
	return ds, nil
}

// IngestCSV reads CSV content from r.
func (i *Ingester) IngestCSV(ctx context.Context, r io.Reader) (*dataset.Dataset, error) {
	tbl, err := readCSV(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv", err)
	}
	return i.build(ctx, tbl)
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewNotFoundError("source file").WithContext("path", path)
	}
	return apperrors.NewParsingError("failed to open source file", err).WithContext("path", path)
}

// build maps the raw header onto the schema and coerces every cell.
func (i *Ingester) build(ctx context.Context, tbl *table) (*dataset.Dataset, error) {
	positions, err := i.resolveHeader(ctx, tbl.header)
	if err != nil {
		return nil, err
	}

	fields := i.schema.Fields()
	columns := make([][]dataset.Value, len(fields))
	for c := range columns {
		columns[c] = make([]dataset.Value, len(tbl.rows))
	}

	for r, raw := range tbl.rows {
		if r%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for c, f := range fields {
			var cell string
			if p := positions[c]; p < len(raw) {
				cell = raw[p]
			}
			v, ok := coerce(f, cell)
			if !ok {
				return nil, apperrors.NewSchemaMismatchError(describeCell(f, r+1, cell), nil).
					WithContext("column", f.Source).
					WithContext("row", r+1).
					WithContext("value", cell)
			}
			columns[c][r] = v
		}
	}

	series := make([]dataset.Series, len(fields))
	for c, f := range fields {
		series[c] = dataset.NewSeries(f.Column, f.Type, columns[c])
	}
	return dataset.New(series...)
}

// resolveHeader returns, per schema field, the index of its source column.
func (i *Ingester) resolveHeader(ctx context.Context, header []string) ([]int, error) {
	found := make(map[schema.Column]int, len(header))
	var unknown []string
	for p, h := range header {
		col, ok := schema.Lookup(h)
		if !ok {
			unknown = append(unknown, h)
			continue
		}
		if _, dup := found[col]; !dup {
			found[col] = p
		}
	}

	var missing []string
	positions := make([]int, i.schema.Len())
	for c, f := range i.schema.Fields() {
		p, ok := found[f.Column]
		if !ok {
			missing = append(missing, f.Source)
			continue
		}
		positions[c] = p
	}

	if len(missing) > 0 {
		return nil, apperrors.NewSchemaMismatchError("missing required columns: "+strings.Join(missing, ", "), nil).
			WithContext("missing", missing)
	}
	if len(unknown) > 0 {
		if i.config.Strict {
			return nil, apperrors.NewSchemaMismatchError("unexpected columns: "+strings.Join(unknown, ", "), nil).
				WithContext("unexpected", unknown)
		}
		i.logger.DebugContext(ctx, "Ignoring columns outside the schema", slog.Any("columns", unknown))
	}
	return positions, nil
}
