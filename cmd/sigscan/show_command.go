package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigscan/internal/dataset"
	"sigscan/internal/flatten"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <file.sigmf-meta>",
		Short: "Flatten one metadata file and print its dataset row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the row as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, path string, jsonOutput bool) error {
	res, err := dataset.ParseFile(path)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd, map[string]any{
			"row":         res.Row.Map(),
			"diagnostics": res.Diagnostics,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderKeyValue(rowPairs(res.Row)))

	for _, diag := range res.Diagnostics {
		fmt.Fprintf(out, "warning: %s: %s\n", diag.Column, diag.Message)
	}
	return nil
}

func rowPairs(row flatten.Row) [][2]string {
	values := row.Values()
	pairs := make([][2]string, 0, len(values))
	for i, col := range flatten.Columns() {
		pairs = append(pairs, [2]string{col, flatten.CellString(values[i])})
	}
	return pairs
}
