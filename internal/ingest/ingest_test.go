package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

func newTestIngester(strict bool) *Ingester {
	return NewIngester(slog.New(slog.NewTextHandler(io.Discard, nil)), Config{Strict: strict})
}

// sourceRow returns a complete, valid source row keyed by source header,
// with overrides applied.
func sourceRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		"MainIsland":                 "Luzon",
		"Region":                     "Region I",
		"Province":                   "Ilocos Norte",
		"LegislativeDistrict":        "1st District",
		"Municipality":               "Laoag City",
		"DistrictEngineeringOffice":  "Ilocos Norte 1st DEO",
		"ProjectId":                  "P-001",
		"ProjectName":                "Flood wall",
		"TypeOfWork":                 "Construction of Flood Mitigation Structure",
		"FundingYear":                "2022",
		"ContractId":                 "C-001",
		"ApprovedBudgetForContract":  "1,500,000.00",
		"ContractCost":               "1,400,000.00",
		"ActualCompletionDate":       "2022-06-30",
		"Contractor":                 "ACME BUILDERS",
		"ContractorCount":            "1",
		"StartDate":                  "2022-03-01",
		"ProjectLatitude":            "18.1978",
		"ProjectLongitude":           "120.5936",
		"ProvincialCapital":          "Laoag City",
		"ProvincialCapitalLatitude":  "18.1978",
		"ProvincialCapitalLongitude": "120.5936",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func sourceHeader() []string {
	fields := schema.Canonical().Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Source
	}
	return header
}

func buildCSV(t *testing.T, header []string, rows ...map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for _, r := range rows {
		record := make([]string, len(header))
		for i, h := range header {
			record[i] = r[h]
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

func TestIngestCSV_TypesAndOrder(t *testing.T) {
	header := reversed(sourceHeader())
	content := buildCSV(t, header,
		sourceRow(nil),
		sourceRow(map[string]string{
			"ProjectId":                 "P-002",
			"ApprovedBudgetForContract": "N/A",
			"FundingYear":               "",
			"ProjectLatitude":           "NaN",
		}),
	)

	ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, schema.Canonical().Columns(), ds.Columns(), "columns follow registry order")

	first := ds.Row(0)
	year, ok := first.Get(schema.FundingYear).Integer()
	require.True(t, ok)
	assert.Equal(t, int64(2022), year)

	start, ok := first.Get(schema.StartDate).Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), start)

	lat, ok := first.Get(schema.ProjectLatitude).Number()
	require.True(t, ok)
	assert.InDelta(t, 18.1978, lat, 1e-9)

	assert.Equal(t, dataset.KindText, first.Get(schema.ApprovedBudget).Kind())
	assert.Equal(t, "1,500,000.00", first.Get(schema.ApprovedBudget).Str())

	second := ds.Row(1)
	assert.Equal(t, "N/A", second.Get(schema.ApprovedBudget).Str(), "N/A rows survive ingestion")
	assert.True(t, second.Get(schema.FundingYear).IsNull())
	assert.True(t, second.Get(schema.ProjectLatitude).IsNull())
}

func TestIngestCSV_MissingColumn(t *testing.T) {
	var header []string
	for _, h := range sourceHeader() {
		if h != "Region" && h != "ContractCost" {
			header = append(header, h)
		}
	}
	content := buildCSV(t, header, sourceRow(nil))

	ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
	require.Error(t, err)
	assert.Nil(t, ds)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeSchemaMismatch, appErr.Type)
	assert.Equal(t, []string{"Region", "ContractCost"}, appErr.Context["missing"])
}

func TestIngestCSV_NonCoercibleNumbers(t *testing.T) {
	tests := []struct {
		name   string
		column string
		value  string
	}{
		{"text in integer column", "FundingYear", "twenty"},
		{"fraction in integer column", "ContractorCount", "1.5"},
		{"text in float column", "ProjectLongitude", "east"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := buildCSV(t, sourceHeader(),
				sourceRow(nil),
				sourceRow(map[string]string{tt.column: tt.value}),
			)

			_, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrTypeSchemaMismatch, appErr.Type)
			assert.Equal(t, tt.column, appErr.Context["column"])
			assert.Equal(t, 2, appErr.Context["row"])
			assert.Equal(t, tt.value, appErr.Context["value"])
		})
	}
}

func TestIngestCSV_HeaderOnly(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		wantType apperrors.ErrorType
	}{
		{
			name:   "complete header yields an empty dataset",
			header: sourceHeader(),
		},
		{
			name:     "missing column is still a schema mismatch",
			header:   sourceHeader()[1:],
			wantType: apperrors.ErrTypeSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := buildCSV(t, tt.header)
			ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
			if tt.wantType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
				assert.Nil(t, ds)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, ds.Len())
			assert.Equal(t, schema.Canonical().Columns(), ds.Columns())
		})
	}
}

func TestIngestCSV_EmptyInput(t *testing.T) {
	_, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestIngestCSV_LiteralNAIsText(t *testing.T) {
	content := buildCSV(t, sourceHeader(),
		sourceRow(map[string]string{"ProjectId": "NA", "LegislativeDistrict": "<nil>"}),
		sourceRow(map[string]string{"ProjectId": "P-002", "Contractor": ""}),
	)

	ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, "NA", ds.Value(0, schema.ProjectID).Str())
	assert.Equal(t, "<nil>", ds.Value(0, schema.LegislativeDistrict).Str())
	assert.True(t, ds.Value(1, schema.Contractor).IsNull(), "empty cells are still null")
}

func TestIngestCSV_UnparseableDateIsNull(t *testing.T) {
	content := buildCSV(t, sourceHeader(), sourceRow(map[string]string{"StartDate": "sometime in March"}))

	ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	assert.True(t, ds.Value(0, schema.StartDate).IsNull())
}

func TestIngestCSV_UnknownColumns(t *testing.T) {
	header := append(sourceHeader(), "Remarks")
	row := sourceRow(map[string]string{"Remarks": "rush"})
	content := buildCSV(t, header, row)

	ds, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, schema.Canonical().Len(), ds.Width())
	assert.False(t, ds.Has(schema.Column("Remarks")))

	_, err = newTestIngester(true).IngestCSV(context.Background(), strings.NewReader(content))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
}

func TestIngestCSV_HeaderIsCaseSensitive(t *testing.T) {
	header := sourceHeader()
	header[1] = "region"
	row := sourceRow(map[string]string{"region": "Region I"})

	_, err := newTestIngester(false).IngestCSV(context.Background(), strings.NewReader(buildCSV(t, header, row)))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
}

func TestIngest_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.csv")
	require.NoError(t, os.WriteFile(path, []byte(buildCSV(t, sourceHeader(), sourceRow(nil))), 0644))

	ds, err := newTestIngester(false).Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = newTestIngester(false).Ingest(context.Background(), filepath.Join(dir, "absent.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestIngest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestIngester(false).Ingest(ctx, "whatever.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngest_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := sourceHeader()
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headerCells))

	row := sourceRow(map[string]string{"ProvincialCapitalLongitude": ""})
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = row[h]
	}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &cells))

	path := filepath.Join(t.TempDir(), "projects.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := newTestIngester(false).Ingest(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	assert.Equal(t, "ACME BUILDERS", ds.Value(0, schema.Contractor).Str())
	year, ok := ds.Value(0, schema.FundingYear).Integer()
	require.True(t, ok)
	assert.Equal(t, int64(2022), year)
	assert.True(t, ds.Value(0, schema.ProvincialCapitalLongitude).IsNull(), "trailing empty cell is padded")
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatXLSX, FormatOf("data/Projects.XLSX"))
	assert.Equal(t, FormatCSV, FormatOf("data/projects.csv"))
	assert.Equal(t, FormatCSV, FormatOf("data/projects.txt"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2021-05-04", time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC), true},
		{"5/4/2021", time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC), true},
		{"05/04/2021", time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC), true},
		{"2021-05-04 13:45:00", time.Date(2021, 5, 4, 13, 45, 0, 0, time.UTC), true},
		{"44197", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal(" 1,234,567.89 ")
	require.NoError(t, err)
	assert.Equal(t, "1234567.89", d.String())

	_, err = ParseDecimal("N/A")
	assert.Error(t, err)
}

func TestIsNullToken(t *testing.T) {
	assert.True(t, IsNullToken(""))
	assert.True(t, IsNullToken("   "))
	assert.True(t, IsNullToken("NaN"))
	assert.False(t, IsNullToken("N/A"))
	assert.False(t, IsNullToken("0"))
}
