package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/brent-soan/CSADPRG/internal/exporter"
	"github.com/brent-soan/CSADPRG/internal/operations"
)

type runOptions struct {
	json        bool
	previewRows int
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load the dataset and generate every report without prompting",
		Long: `Run ingests and cleans the input file, builds the three reports and the
summary, and writes them to the output directory. With --json a manifest of
the run is printed instead of the report previews.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the run manifest as JSON")
	cmd.Flags().IntVar(&opts.previewRows, "preview", -1, "rows to preview per report (-1 uses reports.preview_rows, 0 shows all)")
	return cmd
}

func runPipeline(cmd *cobra.Command, opts *runOptions) error {
	a, err := newApplication()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := opts.previewRows
	if rows < 0 {
		rows = a.Config.Reports.PreviewRows
	}

	return a.Run(cmd.Context(), func(ctx context.Context) error {
		if err := a.Preflight(); err != nil {
			return err
		}
		loaded, generated, err := a.Process(ctx)
		if err != nil {
			if step, ok := operations.FailedStep(err); ok {
				return fmt.Errorf("pipeline failed at %s: %w", step, err)
			}
			return err
		}

		if opts.json {
			return writeManifest(out, generated, loaded.Path)
		}

		fmt.Fprintf(out, "%s\n\n", loaded)
		console := exporter.NewConsoleWriter()
		for _, r := range generated.Reports {
			if err := console.Preview(out, r, rows); err != nil {
				return err
			}
		}
		if err := console.PreviewSummary(out, generated.Summary); err != nil {
			return err
		}
		for _, path := range generated.Files {
			fmt.Fprintf(out, "wrote %s\n", path)
		}
		return nil
	})
}

func writeManifest(w io.Writer, res *operations.GenerateResult, source string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Manifest(source))
}
