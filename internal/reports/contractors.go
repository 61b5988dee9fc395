package reports

import (
	"context"
	"fmt"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

var contractorColumns = []schema.Column{
	schema.Rank,
	schema.Contractor,
	schema.TotalCost,
	schema.TotalProjects,
	schema.AverageDelay,
	schema.TotalSavings,
	schema.ReliabilityIndex,
	schema.RiskFlag,
}

// ContractorRanking ranks the largest contractors by total contract cost and
// scores their reliability. Rows without a contractor name are ignored.
func (b *Builder) ContractorRanking(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if err := requireColumns(ds, ContractorRanking,
		schema.Contractor, schema.ContractCost, schema.CostSavings, schema.CompletionDelayDays); err != nil {
		return nil, err
	}

	named := ds.Filter(func(r dataset.Row) bool {
		return !r.Get(schema.Contractor).IsMissing()
	})
	grouped, err := named.GroupBy(schema.Contractor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ContractorRanking, err)
	}
	out, err := grouped.Aggregate(
		dataset.Sum(schema.ContractCost, schema.TotalCost),
		dataset.Count(schema.TotalProjects),
		dataset.Mean(schema.CompletionDelayDays, schema.AverageDelay),
		dataset.Sum(schema.CostSavings, schema.TotalSavings),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ContractorRanking, err)
	}

	minProjects := int64(b.config.MinContractorProjects)
	out = out.Filter(func(r dataset.Row) bool {
		n, _ := r.Get(schema.TotalProjects).Integer()
		return n >= minProjects
	})

	out, err = out.SortBy(dataset.Desc(schema.TotalCost), dataset.Asc(schema.Contractor))
	if err != nil {
		return nil, err
	}
	out = out.Head(b.config.TopContractors)

	horizon := b.config.ReliabilityHorizonDays
	out, err = out.Derive(schema.ReliabilityIndex, schema.Float, func(r dataset.Row) dataset.Value {
		return reliability(r.Get(schema.AverageDelay), r.Get(schema.TotalSavings), r.Get(schema.TotalCost), horizon)
	})
	if err != nil {
		return nil, err
	}

	threshold := b.config.RiskThreshold
	out, err = out.Derive(schema.RiskFlag, schema.Text, func(r dataset.Row) dataset.Value {
		return dataset.Text(riskFlag(r.Get(schema.ReliabilityIndex), threshold))
	})
	if err != nil {
		return nil, err
	}

	out, err = out.Derive(schema.Rank, schema.Integer, func(r dataset.Row) dataset.Value {
		return dataset.Int(int64(r.Index() + 1))
	})
	if err != nil {
		return nil, err
	}

	out, err = out.Select(contractorColumns...)
	if err != nil {
		return nil, err
	}

	return b.finish(ctx, &Result{
		Name:     ContractorRanking,
		Title:    "Top Contractors Performance Ranking",
		FileName: config.Report2FileName,
		Data:     out,
		Warnings: undefinedWarnings(out, schema.ReliabilityIndex, schema.Contractor),
	}), nil
}

// reliability is (1 - delay/horizon) * (savings/cost) * 100, NaN when the
// average delay is unknown or the cost is zero.
func reliability(avgDelay, savings, cost dataset.Value, horizon float64) dataset.Value {
	delay, ok := avgDelay.Number()
	if !ok {
		return dataset.NaN()
	}
	share := ratio(savings, cost)
	s, ok := share.Number()
	if !ok {
		return dataset.NaN()
	}
	return dataset.Float((1 - delay/horizon) * s * 100)
}

// riskFlag labels an index below threshold as high risk. An undefined index
// is low risk.
func riskFlag(index dataset.Value, threshold float64) string {
	if v, ok := index.Number(); ok && v < threshold {
		return HighRisk
	}
	return LowRisk
}
