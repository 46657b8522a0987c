// Package scheduler provides the in-process event loop driving media
// processing: an unbounded FIFO queue, a kind-keyed job registry, and a
// single-consumer worker.
//
// The single-consumer model is deliberate. Media jobs are dominated by
// external work (transcodes, object transfers) where one pipeline at a time
// keeps resource usage predictable, and it gives jobs strict ordering over
// the records they touch without any locking of their own. Scaling out means
// running more daemon instances against separate buckets, not more workers
// per queue.
package scheduler
