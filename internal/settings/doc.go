// Package settings owns the mutable notification configuration that the HTTP
// API collaborator edits at runtime.
//
// The core pipeline never reads the mutable copy directly: it takes a Snapshot
// per notification attempt, so concurrent updates are never observed mid-file.
// Updates persist to a JSON file and survive restarts; defaults are seeded
// from the static daemon configuration.
package settings
