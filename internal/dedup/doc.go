// Package dedup persists the set of files already run through the pipeline
// and arbitrates which worker owns an in-flight path.
//
// The Store interface covers the processed-file record lifecycle: Claim takes
// an exclusive in-progress marker before expensive work begins, MarkProcessed
// commits the durable record and releases the claim, and Release abandons a
// claim when the workflow aborts so the path stays eligible for a future
// arrival event. Claims are process-local; records survive restarts.
//
// Two implementations exist: SQLiteStore for production and MemoryStore for
// tests. Treat this package as the single source of truth for dedup semantics.
package dedup
