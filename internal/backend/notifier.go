package backend

import "context"

// Notification is the payload announcing an optimized rendition to the
// backend that owns the post.
type Notification struct {
	PostID          int64              `json:"post_id"`
	MediaID         string             `json:"media_id"`
	NewMediaID      string             `json:"new_media_id"`
	Metadata        map[string]string  `json:"metadata,omitempty"`
	ContentMetadata map[string]float64 `json:"content_metadata,omitempty"`
}

// Notifier delivers processed-media notifications. Accepted reports whether
// the backend acknowledged taking ownership of the new rendition; a false
// return without error means the backend received the notification but did
// not accept it yet.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (accepted bool, err error)
}

// Disabled returns a Notifier that drops notifications without accepting
// them, used when no backend endpoint is configured. Records keep queueing
// for renotify so a later configuration change can drain them.
func Disabled() Notifier { return disabledNotifier{} }

type disabledNotifier struct{}

func (disabledNotifier) Notify(context.Context, Notification) (bool, error) {
	return false, nil
}
