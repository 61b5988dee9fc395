package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/ingest"
	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Year sources understood by FilterYears.
const (
	YearFromStartDate   = "start_date"
	YearFromFundingYear = "funding_year"
)

// occurrence disambiguates repeated project ids during the validity rejoin.
const occurrence schema.Column = "occurrence"

const hoursPerDay = 24

// Config contains cleaning options
type Config struct {
	// Years is the inclusive set of years to keep.
	Years []int
	// YearSource is YearFromStartDate or YearFromFundingYear.
	YearSource string
}

// Stats records the row count after each cleaning step.
type Stats struct {
	Raw          int
	Valid        int
	YearFiltered int
	Cleaned      int
}

// Dropped returns the number of rows removed overall.
func (s Stats) Dropped() int {
	return s.Raw - s.Cleaned
}

// Cleaner turns an ingested dataset into the analysis-ready one.
type Cleaner struct {
	logger *slog.Logger
	config Config
}

// NewCleaner creates a new cleaner
func NewCleaner(logger *slog.Logger, cfg Config) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.YearSource == "" {
		cfg.YearSource = YearFromStartDate
	}
	return &Cleaner{
		logger: logger.With(slog.String("component", "cleaning")),
		config: cfg,
	}
}

// Clean runs the validity projection, the rejoin, the year filter and the
// derivation in that order. It never modifies raw.
func (c *Cleaner) Clean(ctx context.Context, raw *dataset.Dataset) (*dataset.Dataset, Stats, error) {
	start := time.Now()
	stats := Stats{Raw: raw.Len()}

	if err := raw.Require(schema.ProjectID, schema.ApprovedBudget, schema.ContractCost,
		schema.StartDate, schema.ActualCompletionDate); err != nil {
		return nil, stats, apperrors.NewSchemaMismatchError("dataset is not cleanable", err)
	}

	candidate, err := ProjectValidity(raw)
	if err != nil {
		return nil, stats, err
	}
	valid, err := RejoinValid(raw, candidate)
	if err != nil {
		return nil, stats, err
	}
	stats.Valid = valid.Len()
	c.logger.DebugContext(ctx, "Rejoined valid projects",
		slog.Int("rows_in", stats.Raw),
		slog.Int("rows_out", stats.Valid))

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	filtered, err := FilterYears(valid, c.config.Years, c.config.YearSource)
	if err != nil {
		return nil, stats, err
	}
	stats.YearFiltered = filtered.Len()
	c.logger.DebugContext(ctx, "Filtered by year",
		slog.Any("years", c.config.Years),
		slog.String("source", c.config.YearSource),
		slog.Int("rows_out", stats.YearFiltered))

	cleaned, err := Derive(filtered)
	if err != nil {
		return nil, stats, err
	}
	stats.Cleaned = cleaned.Len()

	if dropped := stats.Dropped(); dropped > 0 {
		rowErr := apperrors.NewRowValidationError(fmt.Sprintf("%d rows failed validation or the year filter", dropped))
		c.logger.DebugContext(ctx, "Rows excluded by cleaning",
			slog.String("error_type", string(apperrors.ErrTypeRowValidation)),
			slog.String("detail", rowErr.Error()),
			slog.Int("rows_dropped", dropped))
	}

	c.logger.InfoContext(ctx, "Cleaning complete",
		slog.Int("raw_rows", stats.Raw),
		slog.Int("valid_rows", stats.Valid),
		slog.Int("cleaned_rows", stats.Cleaned),
		slog.Duration("duration", time.Since(start)))
	return cleaned, stats, nil
}

// ProjectValidity projects raw to project_id, an occurrence ordinal and the
// two cost columns as floats, keeping only rows where both costs are finite
// numbers.
func ProjectValidity(raw *dataset.Dataset) (*dataset.Dataset, error) {
	occ := occurrences(raw)
	var ids, ords, budgets, costs []dataset.Value
	for i := 0; i < raw.Len(); i++ {
		id := raw.Value(i, schema.ProjectID)
		if id.IsMissing() {
			continue
		}
		budget, ok := toFloat(raw.Value(i, schema.ApprovedBudget))
		if !ok {
			continue
		}
		cost, ok := toFloat(raw.Value(i, schema.ContractCost))
		if !ok {
			continue
		}
		ids = append(ids, id)
		ords = append(ords, occ.At(i))
		budgets = append(budgets, dataset.Float(budget))
		costs = append(costs, dataset.Float(cost))
	}

	return dataset.New(
		dataset.NewSeries(schema.ProjectID, schema.Text, ids),
		dataset.NewSeries(occurrence, schema.Integer, ords),
		dataset.NewSeries(schema.ApprovedBudget, schema.Float, budgets),
		dataset.NewSeries(schema.ContractCost, schema.Float, costs),
	)
}

// RejoinValid inner-joins raw (without its cost columns) to candidate on
// project id and occurrence, so only valid rows survive and they carry the
// numeric costs. Columns come back in registry order.
func RejoinValid(raw, candidate *dataset.Dataset) (*dataset.Dataset, error) {
	left, err := raw.Drop(schema.ApprovedBudget, schema.ContractCost).WithColumn(occurrences(raw))
	if err != nil {
		return nil, fmt.Errorf("rejoin: %w", err)
	}
	joined, err := dataset.InnerJoin(left, candidate, schema.ProjectID, occurrence)
	if err != nil {
		return nil, fmt.Errorf("rejoin: %w", err)
	}
	return joined.Drop(occurrence).Reorder(columnOrder()), nil
}

// FilterYears keeps rows whose year, read from source, is in years. Rows with
// no year are dropped.
func FilterYears(ds *dataset.Dataset, years []int, source string) (*dataset.Dataset, error) {
	keep := make(map[int]bool, len(years))
	for _, y := range years {
		keep[y] = true
	}

	var yearOf func(dataset.Row) (int, bool)
	switch source {
	case YearFromStartDate, "":
		if err := ds.Require(schema.StartDate); err != nil {
			return nil, apperrors.NewSchemaMismatchError("year filter", err)
		}
		yearOf = func(r dataset.Row) (int, bool) {
			t, ok := r.Get(schema.StartDate).Time()
			return t.Year(), ok
		}
	case YearFromFundingYear:
		if err := ds.Require(schema.FundingYear); err != nil {
			return nil, apperrors.NewSchemaMismatchError("year filter", err)
		}
		yearOf = func(r dataset.Row) (int, bool) {
			y, ok := r.Get(schema.FundingYear).Integer()
			return int(y), ok
		}
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown year source %q", source))
	}

	return ds.Filter(func(r dataset.Row) bool {
		y, ok := yearOf(r)
		return ok && keep[y]
	}), nil
}

// Derive attaches cost_savings and completion_delay_days, replacing them if
// they already exist.
func Derive(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := ds.Derive(schema.CostSavings, schema.Float, func(r dataset.Row) dataset.Value {
		budget, ok1 := r.Get(schema.ApprovedBudget).Number()
		cost, ok2 := r.Get(schema.ContractCost).Number()
		if !ok1 || !ok2 {
			return dataset.Null()
		}
		savings, _ := decimal.NewFromFloat(budget).Sub(decimal.NewFromFloat(cost)).Float64()
		return dataset.Float(savings)
	})
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", schema.CostSavings, err)
	}

	out, err = out.Derive(schema.CompletionDelayDays, schema.Integer, func(r dataset.Row) dataset.Value {
		return delayDays(r.Get(schema.StartDate), r.Get(schema.ActualCompletionDate))
	})
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", schema.CompletionDelayDays, err)
	}
	return out, nil
}

// delayDays is the whole-day difference actual - start. It is Null when
// either date is missing.
func delayDays(start, actual dataset.Value) dataset.Value {
	s, ok1 := start.Time()
	a, ok2 := actual.Time()
	if !ok1 || !ok2 {
		return dataset.Null()
	}
	return dataset.Int(int64(a.Sub(s).Hours() / hoursPerDay))
}

// occurrences numbers each row among the rows sharing its project id.
func occurrences(ds *dataset.Dataset) dataset.Series {
	seen := make(map[string]int64)
	values := make([]dataset.Value, ds.Len())
	for i := range values {
		id := ds.Value(i, schema.ProjectID)
		if id.IsMissing() {
			values[i] = dataset.Null()
			continue
		}
		key := id.String()
		values[i] = dataset.Int(seen[key])
		seen[key]++
	}
	return dataset.NewSeries(occurrence, schema.Integer, values)
}

// toFloat reads a cost cell. Text is parsed as a number with thousands
// separators allowed; anything non-finite is rejected.
func toFloat(v dataset.Value) (float64, bool) {
	if f, ok := v.Number(); ok {
		return f, !math.IsInf(f, 0)
	}
	if v.Kind() != dataset.KindText {
		return 0, false
	}
	d, err := ingest.ParseDecimal(v.Str())
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, !math.IsInf(f, 0) && !math.IsNaN(f)
}

func columnOrder() []schema.Column {
	return append(schema.Canonical().Columns(), schema.CostSavings, schema.CompletionDelayDays)
}
