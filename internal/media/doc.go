// Package media defines the durable per-media state record and its SQLite
// store. A record tracks one media item's processing status and notification
// delivery counters, keyed by the caller-supplied post id.
package media
