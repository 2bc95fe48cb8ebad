// Package classify derives status labels and display metadata for arriving
// media files.
//
// Classify applies the fixed rule set over probe output and file size:
// oversized files need re-encoding, streams without language tags need a
// remux, everything else is OK. ParseTitle extracts a human-facing title and
// an episode/movie kind from filename heuristics. The status string format is
// load-bearing for consumers of the dedup store; do not change the separator
// or label ordering.
package classify
