// Package pipeline defines the media processing stages and the typed events
// chaining them together: receive, analyze, optimize, upload, notify, and
// remove, plus the renotify reconciliation pass.
//
// Each stage writes an in-progress status to the durable record before doing
// work and a completed status after; a failing stage writes nothing further,
// so a record stuck at an "-ing" status is the operator-visible failure
// signal. Stages never enqueue their follow-up event until their own storage
// write has completed, which is what gives each media item causal ordering
// through the chain.
package pipeline
