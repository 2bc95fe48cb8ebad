// Package language provides language code normalization for media stream
// tags.
//
// Container formats carry language tags in a mix of ISO 639-1 and ISO 639-2
// codes, sometimes with legacy alternates ("fre" vs "fra") or full words.
// All conversions and display names are consolidated here so classification
// and notification formatting agree on what counts as a tagged stream.
package language
