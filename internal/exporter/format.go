package exporter

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/brent-soan/CSADPRG/internal/dataset"
)

// formatFloat formats a float64 value for file output with exactly 2 decimal
// places. NaN and infinities render as an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// formatInt formats an int64 value for file output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatValue renders a cell for CSV output: floats fixed to 2 decimals,
// integers plain, dates ISO and missing values empty.
func formatValue(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindFloat:
		f, ok := v.Number()
		if !ok {
			return ""
		}
		return formatFloat(f)
	case dataset.KindInt:
		i, _ := v.Integer()
		return formatInt(i)
	default:
		return v.String()
	}
}

// round2 rounds to 2 decimal places for typed outputs like the workbook.
func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}

var display = message.NewPrinter(language.English)

// displayValue renders a cell for the console: floats get thousands
// separators and 2 decimals, missing values read "n/a".
func displayValue(v dataset.Value) string {
	if v.IsMissing() {
		return "n/a"
	}
	switch v.Kind() {
	case dataset.KindFloat:
		f, _ := v.Number()
		return display.Sprintf("%.2f", round2(f))
	default:
		return v.String()
	}
}
