// Package logging builds the slog loggers used across sigscan.
//
// Two output formats exist: a compact console handler for interactive use and
// a JSON handler for machine consumption. Attr helpers keep call sites terse
// and NewNop gives tests a logger that drops everything.
package logging
