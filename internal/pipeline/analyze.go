package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/scheduler"
)

// AnalyzeJob downloads the source object and runs content classification.
type AnalyzeJob struct {
	env    Env
	logger *slog.Logger
}

func NewAnalyzeJob(env Env) *AnalyzeJob {
	return &AnalyzeJob{env: env, logger: env.componentLogger("analyze")}
}

func (j *AnalyzeJob) Kind() string { return KindAnalyze }

func (j *AnalyzeJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(AnalyzeEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("analyze: unexpected event %T", event)
	}
	logger := j.logger.With(
		logging.Int64(logging.FieldPostID, evt.PostID),
		logging.String(logging.FieldMediaID, evt.MediaID),
	)

	record, err := j.env.Store.GetByPostID(ctx, evt.PostID)
	if err != nil {
		return scheduler.Result{}, err
	}
	if record == nil {
		return scheduler.Result{}, fmt.Errorf("analyze: no record for post %d", evt.PostID)
	}

	object := j.env.Objects.Object(evt.MediaID)
	exists, err := object.Exists(ctx)
	if err != nil {
		return scheduler.Result{}, err
	}
	if !exists {
		record.Status = media.StatusNotFound
		if err := j.env.Store.Upsert(ctx, record); err != nil {
			return scheduler.Result{}, err
		}
		logger.Warn("source object vanished before analysis")
		return scheduler.Done("source object vanished"), nil
	}

	record.Status = media.StatusDownloading
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	path, err := object.Download(ctx, j.env.Config.Paths.WorkDir)
	if err != nil {
		return scheduler.Result{}, err
	}
	record.MediaPath = path
	record.Status = media.StatusDownloaded
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}

	record.Status = media.StatusAnalysing
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	scores, err := j.env.Classifier.Classify(ctx, path)
	if err != nil {
		return scheduler.Result{}, err
	}
	if len(scores) == 0 {
		// Soft failure: the record stays at analysing so the stall is
		// visible to operators.
		logger.Warn("classifier produced no categories")
		return scheduler.Done("no categories"), nil
	}

	record.Category = scores
	record.Status = media.StatusAnalysed
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	logger.Info("media analysed", logging.Int("labels", len(scores)))
	return scheduler.Continue(OptimizeEvent{
		Filename:        path,
		MediaID:         evt.MediaID,
		PostID:          evt.PostID,
		Metadata:        evt.Metadata,
		ContentMetadata: scores,
	}), nil
}
