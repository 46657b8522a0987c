package pipeline

// Event kinds form the closed set of work the scheduler routes. One payload
// struct per kind; jobs receive fully-typed data.
const (
	KindReceive  = "receive-video"
	KindAnalyze  = "analyze"
	KindOptimize = "optimize"
	KindUpload   = "upload"
	KindNotify   = "notify"
	KindRemove   = "remove-video"
	KindRenotify = "renotify"
)

// ReceiveEvent announces a newly submitted media object.
type ReceiveEvent struct {
	MediaID string
	PostID  int64
}

func (ReceiveEvent) Kind() string { return KindReceive }

// AnalyzeEvent carries the source object and its storage metadata into
// content classification.
type AnalyzeEvent struct {
	MediaID  string
	PostID   int64
	Metadata map[string]string
}

func (AnalyzeEvent) Kind() string { return KindAnalyze }

// OptimizeEvent carries the downloaded working file into transcoding.
type OptimizeEvent struct {
	Filename        string
	MediaID         string
	PostID          int64
	Metadata        map[string]string
	ContentMetadata map[string]float64
}

func (OptimizeEvent) Kind() string { return KindOptimize }

// UploadEvent carries the transcode outcome into storage publication.
// NewFilename is empty when the transcode did not improve on the source, in
// which case the original object is re-tagged in place.
type UploadEvent struct {
	Filename        string
	NewFilename     string
	MediaID         string
	NewMediaID      string
	PostID          int64
	Metadata        map[string]string
	ContentMetadata map[string]float64
}

func (UploadEvent) Kind() string { return KindUpload }

// NotifyEvent announces the published rendition to the backend.
type NotifyEvent struct {
	MediaID         string
	NewMediaID      string
	PostID          int64
	Metadata        map[string]string
	ContentMetadata map[string]float64
}

func (NotifyEvent) Kind() string { return KindNotify }

// RemoveEvent retires a superseded storage object and its durable record.
type RemoveEvent struct {
	MediaID string
}

func (RemoveEvent) Kind() string { return KindRemove }

// RenotifyEvent triggers the notification reconciliation pass. The scheduler
// synthesizes one whenever the queue stays empty past its pop timeout.
type RenotifyEvent struct{}

func (RenotifyEvent) Kind() string { return KindRenotify }
