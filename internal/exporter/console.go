package exporter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/brent-soan/CSADPRG/internal/reports"
	"github.com/brent-soan/CSADPRG/internal/schema"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

// ConsoleWriter renders report previews as text tables.
type ConsoleWriter struct {
	title *color.Color
}

// NewConsoleWriter creates a console writer. Titles are colored only when the
// color package detects a terminal.
func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{title: color.New(color.FgCyan, color.Bold)}
}

// Preview prints the report title and its first maxRows rows. When rows are
// cut a footer reports how many were left out. maxRows <= 0 prints every row.
func (c *ConsoleWriter) Preview(w io.Writer, r *reports.Result, maxRows int) error {
	ds := r.Data
	if _, err := c.title.Fprintf(w, "%s\n", r.Title); err != nil {
		return err
	}

	shown := ds.Len()
	if maxRows > 0 && maxRows < shown {
		shown = maxRows
	}

	cols := ds.Columns()
	header := make([]string, len(cols))
	align := make([]int, len(cols))
	for i, col := range cols {
		header[i] = string(col)
		align[i] = tablewriter.ALIGN_LEFT
		if s, ok := ds.Series(col); ok && (s.Type() == schema.Float || s.Type() == schema.Integer) {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetColumnAlignment(align)
	for row := 0; row < shown; row++ {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = displayValue(ds.Value(row, col))
		}
		table.Append(cells)
	}
	table.Render()

	if rest := ds.Len() - shown; rest > 0 {
		if _, err := fmt.Fprintf(w, "… %d more rows (full table in %s)\n", rest, r.FileName); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// PreviewSummary prints the summary as a two-column table.
func (c *ConsoleWriter) PreviewSummary(w io.Writer, s domain.Summary) error {
	if _, err := c.title.Fprintf(w, "%s\n", "Summary"); err != nil {
		return err
	}
	avgDelay := "n/a"
	if s.GlobalAverageDelay != nil {
		avgDelay = display.Sprintf("%.2f", *s.GlobalAverageDelay)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Total projects", display.Sprintf("%d", s.TotalProjects)},
		{"Total contractors", display.Sprintf("%d", s.TotalContractors)},
		{"Total provinces", display.Sprintf("%d", s.TotalProvinces)},
		{"Global average delay (days)", avgDelay},
		{"Total savings", display.Sprintf("%.2f", s.TotalSavings)},
	})
	table.Render()
	_, err := fmt.Fprintln(w)
	return err
}
