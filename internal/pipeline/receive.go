package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/scheduler"
	"mediapress/internal/storage"
)

// ReceiveJob admits a submitted media object into the pipeline. It is the
// only job that creates a durable record; everything downstream mutates it.
type ReceiveJob struct {
	env    Env
	logger *slog.Logger
}

func NewReceiveJob(env Env) *ReceiveJob {
	return &ReceiveJob{env: env, logger: env.componentLogger("receive")}
}

func (j *ReceiveJob) Kind() string { return KindReceive }

func (j *ReceiveJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(ReceiveEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("receive: unexpected event %T", event)
	}
	if evt.PostID <= 0 || evt.MediaID == "" {
		return scheduler.Result{}, fmt.Errorf("receive: invalid submission post=%d media=%q", evt.PostID, evt.MediaID)
	}
	logger := j.logger.With(
		logging.Int64(logging.FieldPostID, evt.PostID),
		logging.String(logging.FieldMediaID, evt.MediaID),
	)

	object := j.env.Objects.Object(evt.MediaID)
	exists, err := object.Exists(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}
	if !exists {
		// No record either: nothing durable should outlive a submission
		// for an object that was never there.
		logger.Warn("submitted object not found in storage")
		return scheduler.Done("source object missing"), nil
	}

	metadata, err := object.Metadata(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}

	record := &media.Record{
		PostID:  evt.PostID,
		MediaID: evt.MediaID,
		Status:  media.StatusAccepted,
	}
	if storage.IsProcessed(metadata) {
		record.Status = media.StatusDone
		if err := j.env.Store.Upsert(ctx, record); err != nil {
			return scheduler.Result{}, err
		}
		logger.Info("object already optimized; skipping")
		return scheduler.Done("already optimized"), nil
	}

	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	logger.Info("media accepted")
	return scheduler.Continue(AnalyzeEvent{
		MediaID:  evt.MediaID,
		PostID:   evt.PostID,
		Metadata: metadata,
	}), nil
}
