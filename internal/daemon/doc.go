// Package daemon coordinates the long-running monitor process and system
// integration points.
//
// It wires configuration, the dedup store, runtime settings, the pipeline
// coordinator, and the filesystem watcher into a single lifecycle with
// flock-based locking to prevent multiple instances. The daemon also owns
// the HTTP API for stats, settings, and test notifications.
//
// Keep orchestration logic here: the processing steps themselves live in
// their respective packages while the daemon focuses on startup, shutdown,
// and high level coordination.
package daemon
