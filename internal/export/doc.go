// Package export serializes a scanned dataset to delimited text or parquet.
// Column order always follows the flatten schema; null cells render as empty
// CSV fields and parquet nulls.
package export
