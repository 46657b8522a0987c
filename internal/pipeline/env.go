package pipeline

import (
	"log/slog"

	"mediapress/internal/analysis"
	"mediapress/internal/backend"
	"mediapress/internal/config"
	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/optimize"
	"mediapress/internal/scheduler"
	"mediapress/internal/storage"
)

// Env bundles the collaborators injected into every pipeline job. Jobs reach
// shared state only through this struct; none hold ambient globals.
type Env struct {
	Config     *config.Config
	Store      *media.Store
	Objects    storage.Client
	Classifier analysis.Classifier
	Transcoder optimize.Transcoder
	Notifier   backend.Notifier
	Logger     *slog.Logger
}

func (e Env) componentLogger(component string) *slog.Logger {
	logger := e.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return logging.NewComponentLogger(logger, component)
}

// Register wires every pipeline job into the registry in dispatch order.
func Register(registry *scheduler.Registry, env Env) error {
	return registry.Register(
		NewReceiveJob(env),
		NewNotifyJob(env),
		NewAnalyzeJob(env),
		NewOptimizeJob(env),
		NewUploadJob(env),
		NewRenotifyJob(env),
		NewRemoveJob(env),
	)
}
