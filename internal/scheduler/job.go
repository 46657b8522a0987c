package scheduler

import (
	"context"
	"fmt"
)

// Result carries a job's follow-up work. Next holds events published after
// the job returns; an empty Next ends the chain. Reason optionally explains
// why a chain stopped short and is logged at debug level.
type Result struct {
	Next   []Event
	Reason string
}

// Continue builds a Result that chains into the given events.
func Continue(next ...Event) Result {
	return Result{Next: next}
}

// Done builds a Result that ends the chain, with an optional reason.
func Done(reason string) Result {
	return Result{Reason: reason}
}

// Job consumes events of a single kind. Jobs run on the worker goroutine,
// one at a time, so implementations need no internal synchronization.
type Job interface {
	Kind() string
	Run(ctx context.Context, event Event) (Result, error)
}

// Registry maps event kinds to jobs, preserving registration order. Each
// kind may be registered at most once.
type Registry struct {
	jobs  []Job
	kinds map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]struct{})}
}

// Register adds a job. It fails when another job already claims the kind.
func (r *Registry) Register(jobs ...Job) error {
	for _, job := range jobs {
		kind := job.Kind()
		if kind == "" {
			return fmt.Errorf("scheduler: job %T has empty kind", job)
		}
		if _, exists := r.kinds[kind]; exists {
			return fmt.Errorf("scheduler: duplicate job for kind %q", kind)
		}
		r.kinds[kind] = struct{}{}
		r.jobs = append(r.jobs, job)
	}
	return nil
}

// Lookup scans registered jobs in registration order and returns the first
// one claiming the kind.
func (r *Registry) Lookup(kind string) (Job, bool) {
	for _, job := range r.jobs {
		if job.Kind() == kind {
			return job, true
		}
	}
	return nil, false
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int { return len(r.jobs) }
