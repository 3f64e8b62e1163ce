// Package daemon coordinates the long-running ssxwatch collector process.
//
// It wires configuration, the watcher registry, and the record archive
// into a single lifecycle with flock-based locking to prevent multiple
// instances. For every configured results file it obtains the shared
// watcher and, when archiving is enabled, runs a drain task that persists
// newly parsed records.
//
// Keep orchestration logic here: tailing, parsing, and fan-out semantics
// live in their own packages while the daemon focuses on startup,
// shutdown, and wiring.
package daemon
