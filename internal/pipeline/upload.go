package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/scheduler"
	"mediapress/internal/storage"
)

// processorName is stamped into object metadata as processing provenance.
const processorName = "mediapress"

// UploadJob publishes the optimized rendition. When no transcode occurred it
// re-tags the original object in place instead of uploading anything.
type UploadJob struct {
	env    Env
	logger *slog.Logger
}

func NewUploadJob(env Env) *UploadJob {
	return &UploadJob{env: env, logger: env.componentLogger("upload")}
}

func (j *UploadJob) Kind() string { return KindUpload }

func (j *UploadJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(UploadEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("upload: unexpected event %T", event)
	}
	logger := j.logger.With(
		logging.Int64(logging.FieldPostID, evt.PostID),
		logging.String(logging.FieldMediaID, evt.NewMediaID),
	)

	record, err := j.env.Store.GetByPostID(ctx, evt.PostID)
	if err != nil {
		return scheduler.Result{}, err
	}
	if record == nil {
		return scheduler.Result{}, fmt.Errorf("upload: no record for post %d", evt.PostID)
	}

	record.Status = media.StatusUploading
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}

	metadata := provenanceMetadata(evt.Metadata, evt.MediaID, evt.ContentMetadata)
	if evt.NewFilename != "" && evt.NewMediaID != evt.MediaID {
		object := j.env.Objects.Object(evt.NewMediaID)
		if err := object.Upload(ctx, evt.NewFilename, metadata); err != nil {
			return scheduler.Result{}, err
		}
		logger.Info("optimized rendition uploaded")
	} else {
		object := j.env.Objects.Object(evt.MediaID)
		if err := object.UpdateMetadata(ctx, metadata, false); err != nil {
			return scheduler.Result{}, err
		}
		logger.Info("original object re-tagged in place")
	}

	removeWorkingFiles(evt.Filename, evt.NewFilename)
	record.MediaPath = ""
	record.NewMediaPath = ""
	record.Status = media.StatusUploaded
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Continue(NotifyEvent{
		MediaID:         evt.MediaID,
		NewMediaID:      evt.NewMediaID,
		PostID:          evt.PostID,
		Metadata:        metadata,
		ContentMetadata: evt.ContentMetadata,
	}), nil
}

// provenanceMetadata merges the source object's metadata with the processed
// guard, the source pointer, and per-label analysis scores.
func provenanceMetadata(source map[string]string, mediaID string, scores map[string]float64) map[string]string {
	merged := make(map[string]string, len(source)+len(scores)+3)
	for k, v := range source {
		merged[k] = v
	}
	merged[storage.StatusKey] = storage.StatusOptimized
	merged[storage.SourceKey] = mediaID
	merged[storage.ProcessorKey] = processorName
	for label, score := range scores {
		key := storage.AnalysisKeyPrefix + strings.ToLower(strings.ReplaceAll(label, " ", "-"))
		merged[key] = strconv.FormatFloat(score, 'f', -1, 64)
	}
	return merged
}

func removeWorkingFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		os.Remove(path)
	}
}
