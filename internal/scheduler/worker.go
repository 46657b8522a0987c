package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediapress/internal/logging"
)

// Options configures a Worker.
type Options struct {
	// PopTimeout bounds how long the worker waits for an event before
	// synthesizing an idle event.
	PopTimeout time.Duration
	// IdleEvent, when non-nil, is invoked after every empty pop and its
	// event dispatched in place of a queued one. This is how periodic
	// reconciliation work rides the same loop as regular events.
	IdleEvent func() Event
	Logger    *slog.Logger
}

// Worker drains a Queue on a single goroutine, dispatching each event to the
// job registered for its kind. A failing or panicking job drops its event;
// the loop itself never stops on job errors.
type Worker struct {
	queue      *Queue
	registry   *Registry
	popTimeout time.Duration
	idleEvent  func() Event
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWorker(queue *Queue, registry *Registry, opts Options) *Worker {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	popTimeout := opts.PopTimeout
	if popTimeout <= 0 {
		popTimeout = 2 * time.Second
	}
	return &Worker{
		queue:      queue,
		registry:   registry,
		popTimeout: popTimeout,
		idleEvent:  opts.IdleEvent,
		logger:     logging.NewComponentLogger(logger, "scheduler"),
	}
}

// Start begins background processing.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("scheduler already running")
	}
	if w.registry.Len() == 0 {
		return errors.New("scheduler has no registered jobs")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the in-flight event to
// finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	w.logger.Info("scheduler started", logging.Int("jobs", w.registry.Len()))

	for {
		event, ok := w.queue.Pop(ctx, w.popTimeout)
		if !ok {
			if ctx.Err() != nil {
				w.logger.Info("scheduler stopped")
				return
			}
			if w.idleEvent == nil {
				continue
			}
			event = w.idleEvent()
			if event == nil {
				continue
			}
		}
		w.dispatch(ctx, event)
	}
}

func (w *Worker) dispatch(ctx context.Context, event Event) {
	eventID := uuid.NewString()
	logger := w.logger.With(
		logging.String(logging.FieldEventID, eventID),
		logging.String(logging.FieldEvent, event.Kind()),
	)

	job, ok := w.registry.Lookup(event.Kind())
	if !ok {
		logger.Warn("no job registered for event; dropping")
		return
	}

	start := time.Now()
	result, err := w.runJob(ctx, job, event)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("job failed; dropping event",
			logging.String(logging.FieldJob, job.Kind()),
			logging.Error(err),
			logging.Duration("elapsed", time.Since(start)))
		return
	}

	if result.Reason != "" {
		logger.Debug("chain stopped",
			logging.String(logging.FieldJob, job.Kind()),
			logging.String("reason", result.Reason))
	}
	if len(result.Next) > 0 {
		w.queue.Publish(result.Next...)
	}
	logger.Debug("event processed",
		logging.String(logging.FieldJob, job.Kind()),
		logging.Int("published", len(result.Next)),
		logging.Duration("elapsed", time.Since(start)))
}

func (w *Worker) runJob(ctx context.Context, job Job, event Event) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Kind(), r)
		}
	}()
	return job.Run(ctx, event)
}
