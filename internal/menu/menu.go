package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/brent-soan/CSADPRG/internal/dataset"
	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
	"github.com/brent-soan/CSADPRG/internal/exporter"
	"github.com/brent-soan/CSADPRG/internal/infrastructure"
	"github.com/brent-soan/CSADPRG/internal/operations"
)

// Menu choices.
const (
	ChoiceLoad     = "1"
	ChoiceGenerate = "2"
	ChoiceExit     = "3"
)

// Pipeline is the part of operations.Runner the menu drives.
type Pipeline interface {
	Load(ctx context.Context, path string) (*operations.LoadResult, error)
	Generate(ctx context.Context, cleaned *dataset.Dataset) (*operations.GenerateResult, error)
}

// Options configures a Menu.
type Options struct {
	// InputPath is passed to Load; empty means the runner's configured file.
	InputPath string
	// PreviewRows caps the rows shown per report; 0 shows all of them.
	PreviewRows int
	Logger      *slog.Logger
}

// Menu is the interactive load / generate / exit loop. It holds the single
// cleaned dataset between actions.
type Menu struct {
	pipeline Pipeline
	in       *bufio.Scanner
	out      io.Writer
	console  *exporter.ConsoleWriter
	opts     Options
	logger   *slog.Logger

	loaded *operations.LoadResult

	banner  *color.Color
	success *color.Color
	failure *color.Color
	prompt  *color.Color
}

// New creates a menu reading choices from in and writing to out.
func New(pipeline Pipeline, in io.Reader, out io.Writer, opts Options) *Menu {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Menu{
		pipeline: pipeline,
		in:       bufio.NewScanner(in),
		out:      out,
		console:  exporter.NewConsoleWriter(),
		opts:     opts,
		logger:   infrastructure.WithComponent(logger, "menu"),
		banner:   color.New(color.FgCyan, color.Bold),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		prompt:   color.New(color.FgYellow),
	}
}

// Run shows the menu until the user exits, the input ends or ctx is
// cancelled. Failed actions are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.showMenu()
		choice, ok := m.readChoice()
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case ChoiceLoad:
			m.load(ctx)
		case ChoiceGenerate:
			m.generate(ctx)
		case ChoiceExit:
			m.success.Fprintln(m.out, "\nThank you for using the Flood Control Data Analysis Pipeline!")
			return nil
		default:
			m.failure.Fprintf(m.out, "\nInvalid choice %q. Please enter 1, 2, or 3.\n\n", choice)
		}
	}
}

// Loaded reports whether a dataset is ready for report generation.
func (m *Menu) Loaded() bool {
	return m.loaded != nil
}

func (m *Menu) showMenu() {
	m.banner.Fprintln(m.out, "   FLOOD CONTROL DATA ANALYSIS PIPELINE")
	fmt.Fprintln(m.out)
	fmt.Fprintf(m.out, "[%s] Load the file\n", ChoiceLoad)
	fmt.Fprintf(m.out, "[%s] Generate Reports\n", ChoiceGenerate)
	fmt.Fprintf(m.out, "[%s] Exit\n\n", ChoiceExit)
	m.prompt.Fprint(m.out, "Enter choice: ")
}

func (m *Menu) readChoice() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) load(ctx context.Context) {
	fmt.Fprintln(m.out, "\nLoading dataset...")
	res, err := m.pipeline.Load(ctx, m.opts.InputPath)
	if err != nil {
		// A failed reload must not leave the previous file's data behind.
		m.loaded = nil
		m.reportError("Load failed", err)
		return
	}
	m.loaded = res
	m.success.Fprintf(m.out, "Dataset ready: %s.\n\n", res)
}

func (m *Menu) generate(ctx context.Context) {
	if !m.Loaded() {
		m.failure.Fprintf(m.out, "\nError, please load the file first (option %s).\n\n", ChoiceLoad)
		return
	}

	fmt.Fprintln(m.out, "\nGenerating reports...")
	res, err := m.pipeline.Generate(ctx, m.loaded.Data)
	if err != nil {
		m.reportError("Report generation failed", err)
		if res != nil && len(res.Files) > 0 {
			fmt.Fprintf(m.out, "Files written before the failure: %s\n\n", strings.Join(res.Files, ", "))
		}
		return
	}
	m.success.Fprintf(m.out, "Outputs saved to %d files.\n\n", len(res.Files))

	for _, r := range res.Reports {
		if err := m.console.Preview(m.out, r, m.opts.PreviewRows); err != nil {
			m.logger.WarnContext(ctx, "Failed to render preview",
				slog.String("report", string(r.Name)),
				slog.String("error", err.Error()))
		}
	}
	if err := m.console.PreviewSummary(m.out, res.Summary); err != nil {
		m.logger.WarnContext(ctx, "Failed to render summary", slog.String("error", err.Error()))
	}
}

// reportError prints a failed action. Cancellations are reported briefly;
// everything else is logged with its error type.
func (m *Menu) reportError(action string, err error) {
	if operations.IsCancellation(err) {
		m.failure.Fprintf(m.out, "\n%s: cancelled.\n\n", action)
		return
	}

	m.failure.Fprintf(m.out, "\n%s: %v\n\n", action, err)

	errType := "unknown"
	if t, ok := apperrors.TypeOf(err); ok {
		errType = string(t)
	}
	infrastructure.WithError(m.logger, err).Error(action, slog.String("error_type", errType))
}
