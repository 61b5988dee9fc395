package reports

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Name identifies a report.
type Name string

const (
	RegionalEfficiency Name = "regional_efficiency"
	ContractorRanking  Name = "contractor_ranking"
	AnnualTrends       Name = "annual_trends"
)

// Risk labels used by the contractor ranking.
const (
	HighRisk = "High Risk"
	LowRisk  = "Low Risk"
)

// Result is a finished report table ready for export.
type Result struct {
	Name     Name
	Title    string
	FileName string
	Data     *dataset.Dataset
	// Warnings lists the aggregates that were undefined for some group.
	// They are informational; the affected cells hold NaN.
	Warnings []error
}

// Builder computes reports from a cleaned dataset. It never modifies its
// input.
type Builder struct {
	logger *slog.Logger
	config config.ReportsConfig
}

// NewBuilder creates a new report builder
func NewBuilder(logger *slog.Logger, cfg config.ReportsConfig) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger: logger.With(slog.String("component", "reports")),
		config: cfg,
	}
}

// All builds the three reports in order.
func (b *Builder) All(ctx context.Context, ds *dataset.Dataset) ([]*Result, error) {
	steps := []func(context.Context, *dataset.Dataset) (*Result, error){
		b.RegionalEfficiency,
		b.ContractorRanking,
		b.AnnualTrends,
	}
	results := make([]*Result, 0, len(steps))
	for _, build := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := build(ctx, ds)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (b *Builder) finish(ctx context.Context, r *Result) *Result {
	b.logger.InfoContext(ctx, "Report built",
		slog.String("report", string(r.Name)),
		slog.Int("rows", r.Data.Len()),
		slog.Int("undefined_aggregates", len(r.Warnings)))
	for _, w := range r.Warnings {
		b.logger.DebugContext(ctx, "Undefined aggregate", slog.String("report", string(r.Name)), slog.String("detail", w.Error()))
	}
	return r
}

func requireColumns(ds *dataset.Dataset, report Name, cols ...schema.Column) error {
	if err := ds.Require(cols...); err != nil {
		return apperrors.NewSchemaMismatchError(fmt.Sprintf("%s needs a cleaned dataset", report), err).
			WithContext("report", string(report))
	}
	return nil
}

// undefinedWarnings returns one AggregationUndefined error per row whose
// column c is NaN, labelled with the row's key columns.
func undefinedWarnings(ds *dataset.Dataset, c schema.Column, keys ...schema.Column) []error {
	var out []error
	for i := 0; i < ds.Len(); i++ {
		if !ds.Value(i, c).IsMissing() {
			continue
		}
		label := make([]string, len(keys))
		for k, key := range keys {
			label[k] = ds.Value(i, key).String()
		}
		out = append(out, apperrors.NewAggregationUndefinedError(
			fmt.Sprintf("%s undefined for %v", c, label)).WithContext("column", string(c)))
	}
	return out
}

// ratio returns num/den, or NaN when either side is missing or den is zero.
func ratio(num, den dataset.Value) dataset.Value {
	n, ok1 := num.Number()
	d, ok2 := den.Number()
	if !ok1 || !ok2 || d == 0 {
		return dataset.NaN()
	}
	return dataset.Float(n / d)
}

func percent(v dataset.Value) dataset.Value {
	f, ok := v.Number()
	if !ok {
		return dataset.NaN()
	}
	return dataset.Float(f * 100)
}
