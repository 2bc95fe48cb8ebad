// Package pipeline runs the per-file ingestion workflow over a bounded worker
// pool.
//
// Submit enqueues an arrival event and returns immediately; workers drain the
// queue and drive each file through dedup claim, stabilization, probing,
// classification, notification, and the final dedup commit. Every failure
// before the commit releases the claim so the path stays eligible for a
// future arrival event, and no per-file failure ever takes down the pool.
//
// The stabilizer blocks its worker for the whole sampling duration, so the
// pool size directly bounds how many files can be mid-stabilization at once.
package pipeline
