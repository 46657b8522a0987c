package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/optimize"
	"mediapress/internal/scheduler"
)

// OptimizeJob transcodes the working file. An output that is not smaller
// than the source is discarded and the original rides through unchanged.
type OptimizeJob struct {
	env    Env
	logger *slog.Logger
}

func NewOptimizeJob(env Env) *OptimizeJob {
	return &OptimizeJob{env: env, logger: env.componentLogger("optimize")}
}

func (j *OptimizeJob) Kind() string { return KindOptimize }

func (j *OptimizeJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(OptimizeEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("optimize: unexpected event %T", event)
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
		return scheduler.Result{}, fmt.Errorf("optimize: no record for post %d", evt.PostID)
	}

	record.Status = media.StatusOptimizing
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}

	outputExt := j.env.Config.Optimizer.OutputExt
	outputPath := optimize.OutputPath(evt.Filename, outputExt)
	result, err := j.env.Transcoder.Transcode(ctx, evt.Filename, outputPath)
	if err != nil {
		return scheduler.Result{}, err
	}

	newFilename := ""
	newMediaID := evt.MediaID
	if result.Improved() {
		newFilename = result.OutputPath
		newMediaID = optimize.NewMediaID(evt.MediaID, outputExt)
		record.NewMediaPath = newFilename
	} else {
		os.Remove(result.OutputPath)
		logger.Info("transcode did not improve on source; keeping original",
			logging.Int64("input_bytes", result.InputSize),
			logging.Int64("output_bytes", result.OutputSize))
	}

	record.NewMediaID = newMediaID
	record.Status = media.StatusOptimized
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Continue(UploadEvent{
		Filename:        evt.Filename,
		NewFilename:     newFilename,
		MediaID:         evt.MediaID,
		NewMediaID:      newMediaID,
		PostID:          evt.PostID,
		Metadata:        evt.Metadata,
		ContentMetadata: evt.ContentMetadata,
	}), nil
}
