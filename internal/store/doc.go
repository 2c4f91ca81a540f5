// Package store persists scan results in a SQLite catalog.
//
// Each saved dataset becomes one scan_runs record plus its dataset_rows,
// scan_failures, and annotation_details. Nullable row columns stay NULL in
// the database so re-exported data keeps the null/zero distinction. A file
// lock around writes keeps concurrent scans from interleaving.
//
// The catalog is a convenience cache of past scans, not a system of record;
// schema changes bump the version in schema.go and users delete the database
// to adopt the new schema.
package store
