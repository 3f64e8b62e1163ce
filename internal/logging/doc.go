// Package logging assembles the structured slog loggers used across
// ssxwatch components.
//
// It owns the console and JSON handlers, level and output plumbing, and
// the standardized attribute keys (component, kind, path, subscription)
// so the watcher loop, archive, and CLI emit log lines with the same
// shape. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
