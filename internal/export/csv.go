package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"sigscan/internal/dataset"
	"sigscan/internal/flatten"
)

// WriteCSV renders the dataset's rows as CSV in schema column order.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	tw := table.NewWriter()

	header := make(table.Row, 0, len(flatten.Columns()))
	for _, col := range ds.Columns() {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, row := range ds.Rows {
		cells := make(table.Row, 0, len(header))
		for _, v := range row.Values() {
			cells = append(cells, flatten.CellString(v))
		}
		tw.AppendRow(cells)
	}

	_, err := io.WriteString(w, tw.RenderCSV()+"\n")
	return err
}

// WriteFailuresCSV renders the failure list as CSV.
func WriteFailuresCSV(w io.Writer, ds *dataset.Dataset) error {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"path", "kind", "message"})
	for _, failure := range ds.Failures {
		tw.AppendRow(table.Row{failure.Path, failure.Kind, failure.Message})
	}
	_, err := io.WriteString(w, tw.RenderCSV()+"\n")
	return err
}
