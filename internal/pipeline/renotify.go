package pipeline

import (
	"context"
	"log/slog"
	"time"

	"mediapress/internal/backend"
	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/scheduler"
)

// RenotifyJob is the reconciliation pass that makes notification delivery
// eventual: it re-attempts the backend call for records the backend has not
// accepted yet. Least-retried and oldest records go first so nothing
// starves. It is driven by the scheduler's idle path and self-throttles to
// its configured interval.
type RenotifyJob struct {
	env      Env
	logger   *slog.Logger
	interval time.Duration
	batch    int

	// touched only from the worker goroutine
	lastRun time.Time
	now     func() time.Time
}

func NewRenotifyJob(env Env) *RenotifyJob {
	return &RenotifyJob{
		env:      env,
		logger:   env.componentLogger("renotify"),
		interval: time.Duration(env.Config.Scheduler.RenotifyInterval) * time.Second,
		batch:    env.Config.Scheduler.RenotifyBatch,
		now:      time.Now,
	}
}

func (j *RenotifyJob) Kind() string { return KindRenotify }

func (j *RenotifyJob) Run(ctx context.Context, event scheduler.Event) (scheduler.Result, error) {
	now := j.now()
	if !j.lastRun.IsZero() && now.Sub(j.lastRun) < j.interval {
		return scheduler.Result{}, nil
	}
	j.lastRun = now

	records, err := j.env.Store.Unnotified(ctx, j.batch)
	if err != nil {
		return scheduler.Result{}, err
	}
	if len(records) == 0 {
		return scheduler.Result{}, nil
	}
	j.logger.Debug("reconciling unaccepted notifications", logging.Int("records", len(records)))

	var next []scheduler.Event
	for _, record := range records {
		accepted, err := j.env.Notifier.Notify(ctx, backend.Notification{
			PostID:          record.PostID,
			MediaID:         record.MediaID,
			NewMediaID:      record.NewMediaID,
			ContentMetadata: record.Category,
		})
		record.NotificationSent++
		if err != nil {
			j.logger.Warn("renotify attempt failed",
				logging.Int64(logging.FieldPostID, record.PostID),
				logging.Error(err))
		} else if accepted {
			record.NotificationAccepted++
			record.Status = media.StatusNotified
			if record.NewMediaID != "" && record.NewMediaID != record.MediaID {
				next = append(next, RemoveEvent{MediaID: record.MediaID})
			}
			j.logger.Info("backend accepted on retry",
				logging.Int64(logging.FieldPostID, record.PostID),
				logging.Int("attempts", record.NotificationSent))
		}
		if err := j.env.Store.Upsert(ctx, record); err != nil {
			return scheduler.Result{}, err
		}
	}
	return scheduler.Result{Next: next}, nil
}
