// Package logging assembles the structured slog loggers used across mediamon
// services.
//
// It centralizes level and output plumbing for the console and JSON handlers
// and exposes small attribute helpers so pipeline code tags log lines with
// consistent keys. A no-op logger is provided for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
