package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brent-soan/CSADPRG/internal/config"
	"github.com/brent-soan/CSADPRG/internal/infrastructure"
	"github.com/brent-soan/CSADPRG/internal/menu"
	"github.com/brent-soan/CSADPRG/internal/operations"
	"github.com/brent-soan/CSADPRG/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// Options are the command-line overrides applied on top of the loaded
// configuration.
type Options struct {
	ConfigFile string
	InputFile  string
	OutputDir  string
	// Logger replaces the configured global logger when set.
	Logger        *slog.Logger
	RunnerOptions []operations.Option
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Runner        *operations.Runner

	traceFile *os.File
}

// NewApplication loads configuration and wires logging, telemetry and the
// pipeline runner.
func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.InputFile != "" {
		cfg.Paths.InputFile = opts.InputFile
	}
	if opts.OutputDir != "" {
		cfg.Paths.OutputDir = opts.OutputDir
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("config", cfg.String()))

	app := &Application{
		Config: cfg,
		Paths:  config.NewPaths(cfg.Paths),
		Logger: logger,
	}

	var traceWriter io.Writer
	if cfg.Telemetry.TraceExporter == "file" {
		f, err := app.openTraceFile()
		if err != nil {
			return nil, err
		}
		traceWriter = f
	}

	app.OTelProviders, err = infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, traceWriter), logger)
	if err != nil {
		app.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app.Runner, err = operations.NewRunner(operations.ConfigFrom(cfg), app.Paths, app.OTelProviders, logger, opts.RunnerOptions...)
	if err != nil {
		app.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize pipeline runner: %w", err)
	}

	return app, nil
}

// Menu creates the interactive menu over the application's runner.
func (a *Application) Menu(in io.Reader, out io.Writer) *menu.Menu {
	return menu.New(a.Runner, in, out, menu.Options{
		PreviewRows: a.Config.Reports.PreviewRows,
		Logger:      a.Logger,
	})
}

// Preflight checks the configured input file and output directory so a
// non-interactive run fails before any stage starts.
func (a *Application) Preflight() error {
	v := validation.NewFileValidator(a.Logger)
	if err := v.ValidateSourceFile(a.Paths.InputFile); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(a.Paths.OutputDir)
}

// Process runs load and generate back to back on the configured input.
func (a *Application) Process(ctx context.Context) (*operations.LoadResult, *operations.GenerateResult, error) {
	loaded, err := a.Runner.Load(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	generated, err := a.Runner.Generate(ctx, loaded.Data)
	return loaded, generated, err
}

// Run calls fn with a context cancelled on SIGINT or SIGTERM, then shuts the
// application down.
func (a *Application) Run(ctx context.Context, fn func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fn(ctx)
	if ctx.Err() != nil {
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	}

	if shutdownErr := a.Shutdown(context.Background()); shutdownErr != nil {
		if err == nil {
			return shutdownErr
		}
		a.Logger.Error("Shutdown failed", slog.String("error", shutdownErr.Error()))
	}
	return err
}

// Shutdown writes the metrics textfile, flushes telemetry and closes the
// trace and log files.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if a.OTelProviders != nil {
		if a.Config.Telemetry.MetricsEnabled {
			if err := a.writeMetrics(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if err := a.closeTraceFile(); err != nil {
		errs = append(errs, fmt.Errorf("close trace file: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}

func (a *Application) writeMetrics() error {
	if err := a.Paths.EnsureDirectories(); err != nil {
		return err
	}
	if err := a.OTelProviders.WriteMetrics(a.Paths.MetricsFile); err != nil {
		return err
	}
	a.Logger.Debug("Metrics written", slog.String("path", a.Paths.MetricsFile))
	return nil
}

func (a *Application) openTraceFile() (*os.File, error) {
	if err := a.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}
	f, err := os.Create(a.Paths.TraceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	a.traceFile = f
	return f, nil
}

func (a *Application) closeTraceFile() error {
	if a.traceFile == nil {
		return nil
	}
	err := a.traceFile.Close()
	a.traceFile = nil
	return err
}
