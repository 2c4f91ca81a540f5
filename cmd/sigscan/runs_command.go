package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sigscan/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved scan runs in the catalog",
	}

	cmd.AddCommand(newRunsListCommand(ctx))
	cmd.AddCommand(newRunsShowCommand(ctx))

	return cmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scan runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, runs)
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.Root,
					run.StartedAt.Local().Format(time.DateTime),
					strconv.Itoa(run.RowCount),
					strconv.Itoa(run.FailureCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"run_id", "root", "started", "rows", "failures"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run list as JSON")

	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one saved run with its rows and failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runID := args[0]
			run, err := st.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			rows, err := st.LoadRows(cmd.Context(), runID)
			if err != nil {
				return err
			}
			failures, err := st.LoadFailures(cmd.Context(), runID)
			if err != nil {
				return err
			}

			if jsonOutput {
				rowMaps := make([]map[string]any, 0, len(rows))
				for _, row := range rows {
					rowMaps = append(rowMaps, row.Map())
				}
				return writeJSON(cmd, map[string]any{
					"run":      run,
					"rows":     rowMaps,
					"failures": failures,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValue([][2]string{
				{"run_id", run.RunID},
				{"root", run.Root},
				{"started", run.StartedAt.Local().Format(time.DateTime)},
				{"finished", run.FinishedAt.Local().Format(time.DateTime)},
				{"discovered", strconv.Itoa(run.Discovered)},
				{"rows", strconv.Itoa(run.RowCount)},
				{"failures", strconv.Itoa(run.FailureCount)},
			}))

			for _, row := range rows {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderKeyValue(rowPairs(row)))
			}

			if len(failures) > 0 {
				failureRows := make([][]string, 0, len(failures))
				for _, failure := range failures {
					failureRows = append(failureRows, []string{failure.Path, failure.Kind, failure.Message})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"path", "kind", "message"},
					failureRows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run as JSON")

	return cmd
}

func openCatalog(ctx *commandContext) (*store.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}
