package scheduler

import (
	"context"
	"sync"
	"time"
)

// Queue is an unbounded in-process FIFO of events. Any number of goroutines
// may publish; a single worker consumes. Publish never blocks.
type Queue struct {
	mu    sync.Mutex
	items []Event
	wake  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Publish appends events to the queue in order and wakes the consumer.
func (q *Queue) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, events...)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest event, blocking up to timeout when the
// queue is empty. The second return is false when the wait timed out or ctx
// was cancelled; check ctx.Err to tell the two apart.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			event := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return event, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false
		case <-timer.C:
			return nil, false
		case <-q.wake:
		}
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
