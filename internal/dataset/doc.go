// Package dataset turns a directory of signal metadata files into one flat
// table.
//
// ParseFile handles a single file end to end: read, decode, flatten. The
// Aggregator discovers candidates under a root, fans ParseFile out across a
// bounded worker pool, and collects rows, per-file failures, and semantic
// diagnostics. One broken file never aborts a batch; the failure list is kept
// beside the row table so partial success cannot corrupt the schema.
package dataset
