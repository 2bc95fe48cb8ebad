// Package main hosts the mediamon CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the monitor daemon, prints
// processed-file statistics, runs readiness checks, sends test
// notifications, and scaffolds configuration. It centralizes configuration
// resolution so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
