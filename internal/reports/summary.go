package reports

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	"github.com/brent-soan/CSADPRG/internal/schema"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

// Summary computes the scalar figures of the cleaned dataset.
func (b *Builder) Summary(ctx context.Context, ds *dataset.Dataset) (domain.Summary, error) {
	if err := requireColumns(ds, "summary",
		schema.Contractor, schema.Province, schema.CompletionDelayDays, schema.CostSavings); err != nil {
		return domain.Summary{}, err
	}

	all := ds.All()
	summary := domain.Summary{
		TotalProjects:    ds.Len(),
		TotalContractors: ds.CountDistinct(schema.Contractor),
		TotalProvinces:   ds.CountDistinct(schema.Province),
	}

	if avg, ok := dataset.Mean(schema.CompletionDelayDays, schema.AverageDelay).Apply(all).Number(); ok {
		rounded := round2(avg)
		summary.GlobalAverageDelay = &rounded
	}
	if total, ok := dataset.Sum(schema.CostSavings, schema.TotalSavings).Apply(all).Number(); ok {
		summary.TotalSavings = round2(total)
	}

	b.logger.InfoContext(ctx, "Summary built",
		slog.Int("total_projects", summary.TotalProjects),
		slog.Int("total_contractors", summary.TotalContractors),
		slog.Int("total_provinces", summary.TotalProvinces))
	return summary, nil
}

func round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}
