package cmd

import (
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdchart/internal/chart"
)

func toolsCmd(_ *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "tools",
		Short: "List the supported diagram tools",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			tbl := table.New("Tool", "Label", "Tags", "Extension", "Input").WithWriter(cmd.OutOrStdout())

			for _, tool := range chart.Tools() {
				tbl.AddRow(tool.Name(), tool.Label(), strings.Join(tool.Tags(), ", "), tool.Extension(tool.Defaults()), tool.Mode())
			}

			tbl.Print()

			fmt.Fprintf(cmd.OutOrStdout(), "\nOptions: %s\n", strings.Join(chart.OptionNames, ", "))
		},

		DisableAutoGenTag: true,
	}
}
