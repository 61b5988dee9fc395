package reports

import (
	"context"
	"fmt"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

const overrunCount schema.Column = "overrun_count"

// AnnualTrends tracks average savings and overrun rate per (funding_year,
// work_type) against the baseline year's average savings for the same
// work type.
func (b *Builder) AnnualTrends(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if err := requireColumns(ds, AnnualTrends,
		schema.FundingYear, schema.WorkType, schema.CostSavings); err != nil {
		return nil, err
	}

	baseline, err := b.baseline(ds)
	if err != nil {
		return nil, err
	}

	grouped, err := ds.GroupBy(schema.FundingYear, schema.WorkType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", AnnualTrends, err)
	}
	out, err := grouped.Aggregate(
		dataset.Count(schema.TotalProjects),
		dataset.Mean(schema.CostSavings, schema.AverageCostSavings),
		dataset.CountIf(schema.CostSavings, overrunCount, func(v dataset.Value) bool {
			s, ok := v.Number()
			return ok && s < 0
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", AnnualTrends, err)
	}

	out, err = out.Derive(schema.OverrunRate, schema.Float, func(r dataset.Row) dataset.Value {
		return percent(ratio(r.Get(overrunCount), r.Get(schema.TotalProjects)))
	})
	if err != nil {
		return nil, err
	}

	out, err = dataset.LeftJoin(out, baseline, schema.WorkType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", AnnualTrends, err)
	}

	out, err = out.Derive(schema.YearOverYearChange, schema.Float, func(r dataset.Row) dataset.Value {
		return yearOverYear(r.Get(schema.AverageCostSavings), r.Get(schema.BaselineAvgSavings))
	})
	if err != nil {
		return nil, err
	}

	out, err = out.Drop(overrunCount, schema.BaselineAvgSavings).SortBy(
		dataset.Desc(schema.AverageCostSavings),
		dataset.Asc(schema.FundingYear),
		dataset.Asc(schema.WorkType),
	)
	if err != nil {
		return nil, err
	}

	return b.finish(ctx, &Result{
		Name:     AnnualTrends,
		Title:    "Annual Project Type Cost Overrun Trends",
		FileName: config.Report3FileName,
		Data:     out,
		Warnings: undefinedWarnings(out, schema.YearOverYearChange, schema.FundingYear, schema.WorkType),
	}), nil
}

// baseline is the mean cost savings per work type in the baseline year.
func (b *Builder) baseline(ds *dataset.Dataset) (*dataset.Dataset, error) {
	year := int64(b.config.BaselineYear)
	inYear := ds.Filter(func(r dataset.Row) bool {
		y, ok := r.Get(schema.FundingYear).Integer()
		return ok && y == year
	})
	grouped, err := inYear.GroupBy(schema.WorkType)
	if err != nil {
		return nil, fmt.Errorf("%s baseline: %w", AnnualTrends, err)
	}
	return grouped.Aggregate(dataset.Mean(schema.CostSavings, schema.BaselineAvgSavings))
}

// yearOverYear is the percent change of avg against base. A missing or zero
// baseline yields 0 rather than NaN.
func yearOverYear(avg, base dataset.Value) dataset.Value {
	b, ok := base.Number()
	if !ok || b == 0 {
		return dataset.Float(0)
	}
	a, ok := avg.Number()
	if !ok {
		return dataset.NaN()
	}
	return dataset.Float((a - b) / b * 100)
}
