package scheduler

// Event is a unit of work routed to the job registered for its kind. The
// set of event kinds is closed: every kind is a concrete payload struct
// defined by the pipeline, so jobs receive fully-typed data and never probe
// for fields at runtime.
type Event interface {
	Kind() string
}
