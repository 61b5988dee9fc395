package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the expected source columns and their types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Source header", "Column", "Type"})
			for i, f := range schema.Canonical().Fields() {
				table.Append([]string{
					strconv.Itoa(i + 1),
					f.Source,
					string(f.Column),
					f.Type.String(),
				})
			}
			table.Render()
		},
	}
}
