package media

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a media record. The pipeline writes the
// "-ing" value before a stage starts work and the "-ed" value after it
// succeeds, so a record parked on an "-ing" status marks a failed stage.
type Status string

const (
	StatusAccepted    Status = "accepted"
	StatusDownloading Status = "downloading"
	StatusDownloaded  Status = "downloaded"
	StatusAnalysing   Status = "analysing"
	StatusAnalysed    Status = "analysed"
	StatusOptimizing  Status = "optimizing"
	StatusOptimized   Status = "optimized"
	StatusUploading   Status = "uploading"
	StatusUploaded    Status = "uploaded"
	StatusNotifying   Status = "notifying"
	StatusNotified    Status = "notified"
	StatusRejected    Status = "rejected"
	StatusNotFound    Status = "not_found"
	StatusDone        Status = "done"
)

var allStatuses = []Status{
	StatusAccepted,
	StatusDownloading,
	StatusDownloaded,
	StatusAnalysing,
	StatusAnalysed,
	StatusOptimizing,
	StatusOptimized,
	StatusUploading,
	StatusUploaded,
	StatusNotifying,
	StatusNotified,
	StatusRejected,
	StatusNotFound,
	StatusDone,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusDownloading: {},
	StatusAnalysing:   {},
	StatusOptimizing:  {},
	StatusUploading:   {},
	StatusNotifying:   {},
}

var terminalStatuses = map[Status]struct{}{
	StatusRejected: {},
	StatusNotFound: {},
	StatusDone:     {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminalStatus reports whether a status is an absorbing terminal state.
func IsTerminalStatus(status Status) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// Record is the durable per-media state row, keyed by the caller-supplied
// post id.
type Record struct {
	PostID               int64
	MediaID              string
	NewMediaID           string
	MediaPath            string
	NewMediaPath         string
	Category             map[string]float64
	Status               Status
	NotificationSent     int
	NotificationAccepted int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NeedsNotification reports whether the record is still waiting for backend
// acceptance and is therefore eligible for reconciliation.
func (r *Record) NeedsNotification() bool {
	return r.NotificationAccepted == 0
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (r *Record) IsProcessing() bool {
	return IsProcessingStatus(r.Status)
}
