// Package preflight provides readiness checks for the filesystem paths,
// external binaries, and notification endpoints the monitor depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses to start when a
//     required check fails, instead of silently watching a dead tree.
//   - The CLI "mediamon status" command uses individual check functions
//     (CheckNtfy, CheckDirectoryAccess) to display service health.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
