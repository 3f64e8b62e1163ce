// Package main hosts the ssxwatch CLI entrypoint and command graph.
//
// The Cobra-based command tree covers live tailing of result files
// (follow), archive inspection (show), and configuration scaffolding
// (config init / validate). It centralizes configuration resolution and
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags
// here.
package main
