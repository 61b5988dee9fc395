package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Format identifies the container of a source file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the reader for path by extension. Anything that is not a
// workbook is read as CSV.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// table is the untyped grid produced by a reader: one header row and
// zero or more data rows, all cells as raw strings.
type table struct {
	header []string
	rows   [][]string
}

// readCSV loads r through gota with type detection disabled so every column
// arrives as text. Coercion happens later against the schema. gota rejects a
// frame with no data rows, so a header-only source is answered from the
// header alone.
func readCSV(r io.Reader) (*table, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	peek := csv.NewReader(bytes.NewReader(body))
	header, err := peek.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err == nil {
		if _, err := peek.Read(); err == io.EOF {
			return &table{header: cleanHeader(header)}, nil
		}
	}

	// Only empty cells are absent; a literal "NA" is a valid identifier.
	df := dataframe.ReadCSV(bytes.NewReader(body),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	return &table{header: cleanHeader(records[0]), rows: records[1:]}, nil
}

// readXLSX loads the first sheet of a workbook. Raw cell values are used so
// date cells arrive as serial numbers instead of locale-formatted strings.
func readXLSX(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	header := cleanHeader(rows[0])
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}
	return &table{header: header, rows: data}, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
