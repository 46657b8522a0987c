package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"mediapress/internal/backend"
	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/scheduler"
)

// NotifyJob announces the published rendition to the backend. Every attempt
// increments the sent counter; only backend acceptance stops retries and
// unlocks removal of a superseded original.
type NotifyJob struct {
	env    Env
	logger *slog.Logger
}

func NewNotifyJob(env Env) *NotifyJob {
	return &NotifyJob{env: env, logger: env.componentLogger("notify")}
}

func (j *NotifyJob) Kind() string { return KindNotify }

func (j *NotifyJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	evt, ok := event.(NotifyEvent)
	if !ok {
		return scheduler.Result{}, fmt.Errorf("notify: unexpected event %T", event)
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
		return scheduler.Result{}, fmt.Errorf("notify: no record for post %d", evt.PostID)
	}

	record.Status = media.StatusNotifying
	record.NotificationSent++
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}

	accepted, err := j.env.Notifier.Notify(ctx, backend.Notification{
		PostID:          evt.PostID,
		MediaID:         evt.MediaID,
		NewMediaID:      evt.NewMediaID,
		Metadata:        evt.Metadata,
		ContentMetadata: evt.ContentMetadata,
	})
	if err != nil {
		return scheduler.Result{}, err
	}
	if !accepted {
		logger.Info("backend received but did not accept; reconciliation will retry")
		return scheduler.Done("notification not accepted"), nil
	}

	record.NotificationAccepted++
	record.Status = media.StatusNotified
	if err := j.env.Store.Upsert(ctx, record); err != nil {
		return scheduler.Result{}, err
	}
	logger.Info("backend accepted notification")

	if evt.NewMediaID != "" && evt.NewMediaID != evt.MediaID {
		return scheduler.Continue(RemoveEvent{MediaID: evt.MediaID}), nil
	}
	return scheduler.Done(""), nil
}
