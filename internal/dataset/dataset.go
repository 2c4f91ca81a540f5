package dataset

import (
	"time"

	"sigscan/internal/flatten"
)

// Failure records one file that could not be parsed. Kind is one of the
// sigmf error kinds.
type Failure struct {
	Path    string
	Kind    string
	Message string
}

// Diagnostic is a flatten diagnostic tagged with the file it came from.
type Diagnostic struct {
	Path    string
	Column  string
	Message string
}

// Dataset is the aggregate of one scan: every successfully flattened row plus
// the parallel failure and diagnostics lists. Row order carries no meaning.
type Dataset struct {
	RunID string
	Root  string

	StartedAt  time.Time
	FinishedAt time.Time

	// Discovered is the number of candidate files; it always equals
	// len(Rows) + len(Failures).
	Discovered int

	Rows        []flatten.Row
	Failures    []Failure
	Diagnostics []Diagnostic
	Annotations []flatten.AnnotationDetail
}

// Columns returns the frozen column schema. It is constant across datasets.
func (d *Dataset) Columns() []string {
	return flatten.Columns()
}
