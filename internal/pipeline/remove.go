package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mediapress/internal/logging"
	"mediapress/internal/scheduler"
)

// RemoveJob retires a superseded original: the storage object is deleted
// first, then the durable record. It only ever runs after the backend has
// accepted the final notification.
type RemoveJob struct {
	env    Env
	logger *slog.Logger
}

func NewRemoveJob(env Env) *RemoveJob {
	return &RemoveJob{env: env, logger: env.componentLogger("remove")}
}

func (j *RemoveJob) Kind() string { return KindRemove }

func (j *RemoveJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(RemoveEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("remove: unexpected event %T", event)
	}
	if evt.MediaID == "" {
		return scheduler.Result{}, fmt.Errorf("remove: empty media id")
	}

	if err := j.env.Objects.Object(evt.MediaID).Delete(ctx); err != nil {
		return scheduler.Result{}, err
	}
	removed, err := j.env.Store.DeleteByMediaID(ctx, evt.MediaID)
	if err != nil {
		return scheduler.Result{}, err
	}
	j.logger.Info("superseded media removed",
		logging.String(logging.FieldMediaID, evt.MediaID),
		logging.Int64("records_removed", removed))
	return scheduler.Done("media removed"), nil
}
