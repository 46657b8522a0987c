package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mediapress/internal/logging"
)

type recordingJob struct {
	kind string
	next []Event
	err  error
	pan  bool

	mu   sync.Mutex
	seen []Event
}

func (j *recordingJob) Kind() string { return j.kind }

func (j *recordingJob) Run(_ context.Context, event Event) (Result, error) {
	j.mu.Lock()
	j.seen = append(j.seen, event)
	j.mu.Unlock()
	if j.pan {
		panic("job exploded")
	}
	if j.err != nil {
		return Result{}, j.err
	}
	return Continue(j.next...), nil
}

func (j *recordingJob) events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Event(nil), j.seen...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestWorker(t *testing.T, queue *Queue, registry *Registry, opts Options) *Worker {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.PopTimeout == 0 {
		opts.PopTimeout = 20 * time.Millisecond
	}
	worker := NewWorker(queue, registry, opts)
	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(worker.Stop)
	return worker
}

func TestRegistryRejectsDuplicateKind(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&recordingJob{kind: "work"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(&recordingJob{kind: "work"}); err == nil {
		t.Fatal("expected error for duplicate kind")
	}
	if err := registry.Register(&recordingJob{kind: ""}); err == nil {
		t.Fatal("expected error for empty kind")
	}
}

func TestWorkerDispatchesByKind(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	alpha := &recordingJob{kind: "alpha"}
	beta := &recordingJob{kind: "beta"}
	if err := registry.Register(alpha, beta); err != nil {
		t.Fatalf("Register: %v", err)
	}
	newTestWorker(t, queue, registry, Options{})

	queue.Publish(testEvent{kind: "beta", seq: 1}, testEvent{kind: "alpha", seq: 2})

	waitFor(t, "both jobs to run", func() bool {
		return len(alpha.events()) == 1 && len(beta.events()) == 1
	})
	if got := alpha.events()[0].(testEvent).seq; got != 2 {
		t.Errorf("alpha saw seq %d, want 2", got)
	}
}

func TestWorkerPublishesFollowUpEvents(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	second := &recordingJob{kind: "second"}
	first := &recordingJob{kind: "first", next: []Event{testEvent{kind: "second", seq: 9}}}
	if err := registry.Register(first, second); err != nil {
		t.Fatalf("Register: %v", err)
	}
	newTestWorker(t, queue, registry, Options{})

	queue.Publish(testEvent{kind: "first"})

	waitFor(t, "chained event to run", func() bool { return len(second.events()) == 1 })
	if got := second.events()[0].(testEvent).seq; got != 9 {
		t.Errorf("chained seq = %d, want 9", got)
	}
}

func TestWorkerSurvivesFailingAndPanickingJobs(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	failing := &recordingJob{kind: "failing", err: errors.New("boom")}
	panicking := &recordingJob{kind: "panicking", pan: true}
	healthy := &recordingJob{kind: "healthy"}
	if err := registry.Register(failing, panicking, healthy); err != nil {
		t.Fatalf("Register: %v", err)
	}
	newTestWorker(t, queue, registry, Options{})

	queue.Publish(
		testEvent{kind: "failing"},
		testEvent{kind: "panicking"},
		testEvent{kind: "healthy"},
	)

	waitFor(t, "healthy job to run after failures", func() bool {
		return len(healthy.events()) == 1
	})
	if len(failing.events()) != 1 || len(panicking.events()) != 1 {
		t.Error("failing jobs should each have been attempted once")
	}
}

func TestWorkerDropsUnroutableEvents(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	healthy := &recordingJob{kind: "healthy"}
	if err := registry.Register(healthy); err != nil {
		t.Fatalf("Register: %v", err)
	}
	newTestWorker(t, queue, registry, Options{})

	queue.Publish(testEvent{kind: "unknown"}, testEvent{kind: "healthy"})

	waitFor(t, "healthy event to drain past unroutable one", func() bool {
		return len(healthy.events()) == 1
	})
	if queue.Len() != 0 {
		t.Errorf("queue Len = %d, want 0", queue.Len())
	}
}

func TestWorkerSynthesizesIdleEvents(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	idle := &recordingJob{kind: "idle"}
	if err := registry.Register(idle); err != nil {
		t.Fatalf("Register: %v", err)
	}
	newTestWorker(t, queue, registry, Options{
		PopTimeout: 10 * time.Millisecond,
		IdleEvent:  func() Event { return testEvent{kind: "idle"} },
	})

	waitFor(t, "idle events to fire repeatedly", func() bool {
		return len(idle.events()) >= 2
	})
}

func TestWorkerStartStop(t *testing.T) {
	queue := NewQueue()
	registry := NewRegistry()
	if err := registry.Register(&recordingJob{kind: "work"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	worker := NewWorker(queue, registry, Options{PopTimeout: 10 * time.Millisecond, Logger: logging.NewNop()})
	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := worker.Start(context.Background()); err == nil {
		t.Error("second Start should fail while running")
	}
	worker.Stop()
	worker.Stop() // idempotent

	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
	worker.Stop()
}

func TestWorkerStartRequiresJobs(t *testing.T) {
	worker := NewWorker(NewQueue(), NewRegistry(), Options{Logger: logging.NewNop()})
	if err := worker.Start(context.Background()); err == nil {
		t.Fatal("Start with empty registry should fail")
	}
}
