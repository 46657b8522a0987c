package storage

import "context"

// Reserved user-metadata keys stamped on processed objects. StatusKey is the
// idempotency guard: an object carrying StatusOptimized has already been
// through the pipeline and must not be reprocessed.
const (
	StatusKey         = "wmr-status"
	SourceKey         = "wmr-source"
	ProcessorKey      = "wmr-processor"
	AnalysisKeyPrefix = "wmr-analysis-"

	StatusOptimized = "OPTIMIZED"
)

// Object is the capability contract the pipeline holds over one stored media
// object. Implementations must treat Download as safe to retry; the other
// mutations are invoked at most once per stage execution.
type Object interface {
	// Key returns the object's storage key.
	Key() string
	// Exists reports whether the object is present in the bucket.
	Exists(ctx context.Context) (bool, error)
	// Metadata returns the object's user metadata with lowercased keys.
	Metadata(ctx context.Context) (map[string]string, error)
	// Download fetches the object into destDir and returns the local path.
	Download(ctx context.Context, destDir string) (string, error)
	// Upload stores the local file under the object's key with the given
	// user metadata.
	Upload(ctx context.Context, localPath string, metadata map[string]string) error
	// Delete removes the object from the bucket.
	Delete(ctx context.Context) error
	// UpdateMetadata rewrites the object's user metadata in place. When
	// replace is false the given entries are merged over the existing set.
	UpdateMetadata(ctx context.Context, metadata map[string]string, replace bool) error
}

// Client hands out Object handles by storage key.
type Client interface {
	Object(key string) Object
}

// IsProcessed reports whether object metadata carries the processed guard.
func IsProcessed(metadata map[string]string) bool {
	return metadata[StatusKey] == StatusOptimized
}
