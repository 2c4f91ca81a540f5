package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sigscan/internal/dataset"
	"sigscan/internal/export"
	"sigscan/internal/logging"
	"sigscan/internal/store"
)

type scanOptions struct {
	workers     int
	csvPath     string
	failuresCSV string
	parquetPath string
	jsonOutput  bool
	save        bool
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	opts := scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Aggregate metadata files under a directory into one dataset",
		Long: `Scan walks a directory tree, parses every .sigmf-meta file it finds, and
flattens each one into a fixed-column dataset row. Files that fail to parse
are reported individually and never abort the batch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parse workers (0 uses the configured or CPU count)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write dataset rows as CSV to this file")
	cmd.Flags().StringVar(&opts.failuresCSV, "failures-csv", "", "Write the failure list as CSV to this file")
	cmd.Flags().StringVar(&opts.parquetPath, "parquet", "", "Write dataset rows as parquet to this file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit the dataset as JSON on stdout")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the run to the scan catalog")

	return cmd
}

func runScan(cmd *cobra.Command, ctx *commandContext, args []string, opts scanOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	root := cfg.Scan.DefaultRoot
	if len(args) > 0 {
		root = strings.TrimSpace(args[0])
	}
	if root == "" {
		return fmt.Errorf("no scan directory given and scan.default_root is not configured")
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}

	ds, err := dataset.NewAggregator(workers, logger).Scan(cmd.Context(), root)
	if err != nil {
		return err
	}

	if opts.csvPath != "" {
		if err := writeExport(opts.csvPath, ds, export.WriteCSV); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if opts.failuresCSV != "" {
		if err := writeExport(opts.failuresCSV, ds, export.WriteFailuresCSV); err != nil {
			return fmt.Errorf("write failures csv: %w", err)
		}
	}
	if opts.parquetPath != "" {
		if err := writeExport(opts.parquetPath, ds, export.WriteParquet); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
	}

	if opts.save {
		st, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveDataset(cmd.Context(), ds); err != nil {
			return fmt.Errorf("save scan run: %w", err)
		}
	}

	if opts.jsonOutput {
		return writeJSON(cmd, scanReport(ds))
	}

	printScanSummary(cmd, ds)
	return nil
}

func writeExport(path string, ds *dataset.Dataset, write func(w io.Writer, ds *dataset.Dataset) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file, ds); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// scanReport shapes a dataset for JSON output with nulls intact.
func scanReport(ds *dataset.Dataset) map[string]any {
	rows := make([]map[string]any, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rows = append(rows, row.Map())
	}
	return map[string]any{
		"run_id":     ds.RunID,
		"root":       ds.Root,
		"discovered": ds.Discovered,
		"rows":       rows,
		"failures":   ds.Failures,
	}
}

func printScanSummary(cmd *cobra.Command, ds *dataset.Dataset) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, renderKeyValue([][2]string{
		{"run_id", ds.RunID},
		{"root", ds.Root},
		{"discovered", fmt.Sprintf("%d", ds.Discovered)},
		{"rows", fmt.Sprintf("%d", len(ds.Rows))},
		{"failures", fmt.Sprintf("%d", len(ds.Failures))},
		{"elapsed", ds.FinishedAt.Sub(ds.StartedAt).Round(time.Millisecond).String()},
	}))

	if len(ds.Failures) > 0 {
		rows := make([][]string, 0, len(ds.Failures))
		for _, failure := range ds.Failures {
			rows = append(rows, []string{failure.Path, failure.Kind, failure.Message})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"path", "kind", "message"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft}))
	}
}
