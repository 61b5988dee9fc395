package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brent-soan/CSADPRG/internal/app"
	"github.com/brent-soan/CSADPRG/internal/menu"
	"github.com/brent-soan/CSADPRG/internal/operations"
	"github.com/brent-soan/CSADPRG/pkg/contracts"
)

var (
	cfgFile   string
	inputFile string
	outputDir string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dpwh",
		Short: "DPWH flood control contract analytics",
		Long: `dpwh loads the DPWH flood control projects dataset, cleans it, and writes
three reports plus a summary: regional efficiency, top contractors and
annual cost overrun trends.

Without a subcommand it starts the interactive menu.`,
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dpwh.yaml or ./configs/dpwh.yaml)")
	root.PersistentFlags().StringVar(&inputFile, "input", "", "source CSV or XLSX file (overrides paths.input_file)")
	root.PersistentFlags().StringVar(&outputDir, "output", "", "output directory (overrides paths.output_dir)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newSchemaCmd())
	return root
}

func newApplication(opts ...operations.Option) (*app.Application, error) {
	return app.NewApplication(app.Options{
		ConfigFile:    cfgFile,
		InputFile:     inputFile,
		OutputDir:     outputDir,
		RunnerOptions: opts,
	})
}

func runMenu(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	progress := menu.NewProgress(out)

	a, err := newApplication(operations.WithProgress(progress.Update))
	if err != nil {
		return err
	}
	return a.Run(cmd.Context(), a.Menu(cmd.InOrStdin(), out).Run)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
