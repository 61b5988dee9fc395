package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brent-soan/CSADPRG/internal/cleaning"
	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/exporter"
	"github.com/brent-soan/CSADPRG/internal/infrastructure"
	"github.com/brent-soan/CSADPRG/internal/ingest"
	"github.com/brent-soan/CSADPRG/internal/reports"
	"github.com/brent-soan/CSADPRG/pkg/contracts"
	"github.com/brent-soan/CSADPRG/pkg/contracts/domain"
)

// Operations run by the Runner.
const (
	OperationLoad     = "load"
	OperationGenerate = "generate"
)

// Step identifiers, in execution order within their operation.
const (
	StepIngest  = "ingest"
	StepClean   = "clean"
	StepSummary = "summary"
	StepExport  = "export"
)

// LoadSteps and GenerateSteps list the steps of each operation.
var (
	LoadSteps     = []string{StepIngest, StepClean}
	GenerateSteps = []string{
		string(reports.RegionalEfficiency),
		string(reports.ContractorRanking),
		string(reports.AnnualTrends),
		StepSummary,
		StepExport,
	}
)

// ProgressFunc is called after every finished step with the number of steps
// done so far and the total for the operation.
type ProgressFunc func(step string, done, total int)

// Config holds the options of every stage the runner drives.
type Config struct {
	Ingest   ingest.Config
	Cleaning cleaning.Config
	Reports  config.ReportsConfig
	// Workbook also writes every report into one XLSX file.
	Workbook bool
}

// ConfigFrom maps the application configuration onto runner options.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Ingest:   ingest.Config{Strict: cfg.Pipeline.StrictColumns},
		Cleaning: cleaning.Config{Years: cfg.Pipeline.Years, YearSource: cfg.Pipeline.YearSource},
		Reports:  cfg.Reports,
		Workbook: cfg.Reports.Workbook,
	}
}

// LoadResult is the outcome of a successful Load.
type LoadResult struct {
	RunID string
	Path  string
	Data  *dataset.Dataset
	Stats cleaning.Stats
	State *RunState
}

// GenerateResult is the outcome of a successful Generate.
type GenerateResult struct {
	RunID   string
	Reports []*reports.Result
	Summary domain.Summary
	// Files lists every path written, in write order.
	Files []string
	State *RunState
}

// Runner sequences ingestion, cleaning, report building and export.
type Runner struct {
	config   Config
	paths    *config.Paths
	ingester *ingest.Ingester
	cleaner  *cleaning.Cleaner
	builder  *reports.Builder
	csv      *exporter.CSVWriter
	json     *exporter.JSONWriter
	workbook *exporter.WorkbookWriter
	tracer   *StepTracer
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Runner
type Option func(*Runner)

// WithProgress registers a callback invoked after each step.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner wires the pipeline stages. providers may be nil to disable
// telemetry.
func NewRunner(cfg Config, paths *config.Paths, providers *infrastructure.OTelProviders, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tracer, err := NewStepTracer(providers)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		config:   cfg,
		paths:    paths,
		ingester: ingest.NewIngester(logger, cfg.Ingest),
		cleaner:  cleaning.NewCleaner(logger, cfg.Cleaning),
		builder:  reports.NewBuilder(logger, cfg.Reports),
		csv:      exporter.NewCSVWriter(paths, logger),
		json:     exporter.NewJSONWriter(paths, logger),
		workbook: exporter.NewWorkbookWriter(paths, logger),
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "operations"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Load ingests and cleans the file at path. An empty path uses the
// configured input file.
func (r *Runner) Load(ctx context.Context, path string) (*LoadResult, error) {
	if path == "" {
		path = r.paths.InputFile
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	run := NewRunState(infrastructure.GetTraceID(ctx), OperationLoad, LoadSteps...)
	result := &LoadResult{RunID: run.ID, Path: path, State: run}

	var raw *dataset.Dataset
	err := r.execute(ctx, run, func(ctx context.Context, step *StepState) error {
		switch step.ID {
		case StepIngest:
			ds, err := r.ingester.Ingest(ctx, path)
			if err != nil {
				return err
			}
			raw = ds
			step.SetMetadata("rows", ds.Len())
			r.tracer.RecordRows(ctx, ds.Len())
		case StepClean:
			cleaned, stats, err := r.cleaner.Clean(ctx, raw)
			if err != nil {
				return err
			}
			result.Data, result.Stats = cleaned, stats
			step.SetMetadata("rows", cleaned.Len())
			r.tracer.RecordDropped(ctx, "validity", stats.Raw, stats.Valid)
			r.tracer.RecordDropped(ctx, "year_filter", stats.Valid, stats.YearFiltered)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Generate builds the three reports and the summary from a cleaned dataset
// and writes them to the output directory. On failure the partial result,
// including any files already written, is returned with the error.
func (r *Runner) Generate(ctx context.Context, cleaned *dataset.Dataset) (*GenerateResult, error) {
	if cleaned == nil {
		return nil, apperrors.NewAppValidationError("no dataset loaded; load the source file first")
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	run := NewRunState(infrastructure.GetTraceID(ctx), OperationGenerate, GenerateSteps...)
	result := &GenerateResult{RunID: run.ID, State: run}

	builders := map[string]func(context.Context, *dataset.Dataset) (*reports.Result, error){
		string(reports.RegionalEfficiency): r.builder.RegionalEfficiency,
		string(reports.ContractorRanking):  r.builder.ContractorRanking,
		string(reports.AnnualTrends):       r.builder.AnnualTrends,
	}

	err := r.execute(ctx, run, func(ctx context.Context, step *StepState) error {
		if build, ok := builders[step.ID]; ok {
			res, err := build(ctx, cleaned)
			if err != nil {
				return err
			}
			result.Reports = append(result.Reports, res)
			step.SetMetadata("rows", res.Data.Len())
			step.SetMetadata("undefined_aggregates", len(res.Warnings))
			r.tracer.RecordReportRows(ctx, step.ID, res.Data.Len())
			return nil
		}

		switch step.ID {
		case StepSummary:
			s, err := r.builder.Summary(ctx, cleaned)
			if err != nil {
				return err
			}
			result.Summary = s
		case StepExport:
			files, err := r.export(ctx, result.Reports, result.Summary)
			result.Files = files
			if err != nil {
				return err
			}
			step.SetMetadata("files", len(files))
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// export writes the report CSVs, the summary JSON and optionally the
// workbook. Files already written stay on disk when a later one fails.
func (r *Runner) export(ctx context.Context, results []*reports.Result, summary domain.Summary) ([]string, error) {
	if err := r.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewExportError("failed to create output directory", err).
			WithContext("path", r.paths.OutputDir)
	}

	var files []string
	for _, res := range results {
		path, err := r.csv.WriteDataset(ctx, res.FileName, res.Data)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	path, err := r.json.WriteSummary(ctx, config.SummaryFileName, summary)
	if err != nil {
		return files, err
	}
	files = append(files, path)

	if r.config.Workbook {
		path, err := r.workbook.Write(ctx, config.WorkbookFileName, results, summary)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

// execute runs every step of run in order, stopping at the first failure.
func (r *Runner) execute(ctx context.Context, run *RunState, do func(context.Context, *StepState) error) error {
	run.Start()
	ctx, span := r.tracer.TraceRun(ctx, run)
	r.logger.InfoContext(ctx, "Operation started",
		slog.String("operation", run.Operation),
		slog.String("run_id", run.ID),
		slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)))

	err := r.executeSteps(ctx, run, do)
	if err != nil {
		run.Fail(err)
		r.logger.ErrorContext(ctx, "Operation failed",
			slog.String("operation", run.Operation),
			slog.String("error", err.Error()),
			slog.Duration("duration", run.Duration()))
	} else {
		run.Complete()
		r.logger.InfoContext(ctx, "Operation completed",
			slog.String("operation", run.Operation),
			slog.Duration("duration", run.Duration()))
	}
	r.tracer.EndRun(ctx, span, run, err)
	return err
}

func (r *Runner) executeSteps(ctx context.Context, run *RunState, do func(context.Context, *StepState) error) error {
	total := len(run.Steps)
	for i, step := range run.Steps {
		if err := ctx.Err(); err != nil {
			step.Fail(err)
			return NewStepError(run.Operation, step.ID, err)
		}

		step.Start()
		stepCtx, span := r.tracer.TraceStep(ctx, run, step)
		err := do(stepCtx, step)
		if err != nil {
			step.Fail(err)
		} else {
			step.Complete()
		}
		r.tracer.EndStep(stepCtx, span, step, err)

		if err != nil {
			r.logger.ErrorContext(ctx, "Step failed",
				slog.String("step", step.ID),
				slog.String("error", err.Error()))
			return NewStepError(run.Operation, step.ID, err)
		}
		r.logger.InfoContext(ctx, "Step completed",
			slog.String("step", step.ID),
			slog.Duration("duration", step.Duration()),
			slog.Any("metadata", step.Metadata))

		if r.progress != nil {
			r.progress(step.ID, i+1, total)
		}
	}
	return nil
}

// String describes a load result for logs and the menu.
func (l *LoadResult) String() string {
	return fmt.Sprintf("%d rows loaded, %d kept after cleaning", l.Stats.Raw, l.Stats.Cleaned)
}

// Manifest describes the run for machine consumers. source names the file
// the reports were built from.
func (g *GenerateResult) Manifest(source string) domain.Manifest {
	m := domain.Manifest{
		RunID:   g.RunID,
		Version: contracts.Version,
		Source:  source,
		Files:   g.Files,
		Summary: g.Summary,
	}
	if g.State != nil && g.State.EndTime != nil {
		m.GeneratedAt = g.State.EndTime.UTC().Truncate(time.Second)
	}
	for i, r := range g.Reports {
		report := domain.Report{
			Name:                string(r.Name),
			Title:               r.Title,
			Format:              domain.ReportFormatCSV,
			RecordCount:         r.Data.Len(),
			UndefinedAggregates: len(r.Warnings),
		}
		// Report CSVs are written first, in report order.
		if i < len(g.Files) {
			report.FilePath = g.Files[i]
		}
		m.Reports = append(m.Reports, report)
	}
	return m
}
