// Package sigmf models SigMF signal-capture metadata documents and decodes
// them permissively.
//
// Recognized core and vendor fields land in typed struct fields; everything
// else is retained verbatim in per-level Extra maps so vendor extensions never
// break parsing. Wrong-typed values are rejected with the offending field
// path; numbers accept both integer and float literals.
//
// Errors carry one of three kinds (io, malformed_metadata,
// semantic_validation) that the dataset aggregator uses to classify per-file
// failures.
package sigmf
