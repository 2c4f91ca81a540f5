// Package main hosts the sigscan CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into directory
// scans, single-file inspections, catalog queries, and configuration
// scaffolding. It centralizes configuration resolution and logging setup so
// subcommands can focus on presentation.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
