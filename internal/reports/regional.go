package reports

import (
	"context"
	"fmt"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

// helper columns dropped before output
const (
	highDelayCount schema.Column = "high_delay_count"
	delayCount     schema.Column = "delay_count"
)

// RegionalEfficiency summarizes budget, savings and delays per
// (region, main_island) and scores each pair by median savings per day of
// average delay.
func (b *Builder) RegionalEfficiency(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if err := requireColumns(ds, RegionalEfficiency,
		schema.Region, schema.MainIsland, schema.ApprovedBudget,
		schema.CostSavings, schema.CompletionDelayDays); err != nil {
		return nil, err
	}

	threshold := float64(b.config.HighDelayDays)
	grouped, err := ds.GroupBy(schema.Region, schema.MainIsland)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RegionalEfficiency, err)
	}
	out, err := grouped.Aggregate(
		dataset.Sum(schema.ApprovedBudget, schema.TotalBudget),
		dataset.Median(schema.CostSavings, schema.MedianSavings),
		dataset.Mean(schema.CompletionDelayDays, schema.AverageDelay),
		dataset.CountIf(schema.CompletionDelayDays, highDelayCount, func(v dataset.Value) bool {
			d, ok := v.Number()
			return ok && d > threshold
		}),
		dataset.CountPresent(schema.CompletionDelayDays, delayCount),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RegionalEfficiency, err)
	}

	out, err = out.Derive(schema.HighDelayPercent, schema.Float, func(r dataset.Row) dataset.Value {
		return percent(ratio(r.Get(highDelayCount), r.Get(delayCount)))
	})
	if err != nil {
		return nil, err
	}
	out, err = out.Derive(schema.EfficiencyScore, schema.Float, func(r dataset.Row) dataset.Value {
		return percent(ratio(r.Get(schema.MedianSavings), r.Get(schema.AverageDelay)))
	})
	if err != nil {
		return nil, err
	}

	out, err = out.Drop(highDelayCount, delayCount).SortBy(
		dataset.Desc(schema.EfficiencyScore),
		dataset.Asc(schema.Region),
		dataset.Asc(schema.MainIsland),
	)
	if err != nil {
		return nil, err
	}

	return b.finish(ctx, &Result{
		Name:     RegionalEfficiency,
		Title:    "Regional Flood Mitigation Efficiency Summary",
		FileName: config.Report1FileName,
		Data:     out,
		Warnings: undefinedWarnings(out, schema.EfficiencyScore, schema.Region, schema.MainIsland),
	}), nil
}
