package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

// naToken is how gota renders a cell it classified as missing.
const naToken = "NaN"

// dateLayouts are tried in order. The first is the canonical form.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// IsNullToken reports whether raw denotes an absent cell.
func IsNullToken(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || s == naToken
}

// ParseDecimal parses a numeric cell. Thousands separators and surrounding
// whitespace are ignored.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return decimal.NewFromString(s)
}

// ParseDate parses a date cell against the supported layouts, falling back
// to an Excel serial day number. Time-of-day is discarded.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if d, err := decimal.NewFromString(s); err == nil && d.IsPositive() {
		serial, _ := d.Float64()
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerce converts a raw cell to the field's declared type. ok is false when a
// numeric cell holds a non-numeric value; unparseable dates become Null.
func coerce(f schema.Field, raw string) (v dataset.Value, ok bool) {
	if IsNullToken(raw) {
		return dataset.Null(), true
	}

	switch f.Type {
	case schema.Integer:
		d, err := ParseDecimal(raw)
		if err != nil || !d.IsInteger() {
			return dataset.Null(), false
		}
		return dataset.Int(d.IntPart()), true
	case schema.Float:
		d, err := ParseDecimal(raw)
		if err != nil {
			return dataset.Null(), false
		}
		fv, _ := d.Float64()
		return dataset.Float(fv), true
	case schema.Date:
		t, parsed := ParseDate(raw)
		if !parsed {
			return dataset.Null(), true
		}
		return dataset.Date(t), true
	default:
		return dataset.Text(strings.TrimSpace(raw)), true
	}
}

func describeCell(f schema.Field, row int, raw string) string {
	return fmt.Sprintf("column %s (%s) row %d: cannot read %q as %s", f.Source, f.Column, row, raw, f.Type)
}
