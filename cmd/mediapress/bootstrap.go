package main

import (
	"fmt"
	"log/slog"

	"mediapress/internal/analysis"
	"mediapress/internal/backend"
	"mediapress/internal/config"
	"mediapress/internal/media"
	"mediapress/internal/optimize"
	"mediapress/internal/pipeline"
	"mediapress/internal/storage"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, resolvedPath, exists, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" && !exists {
		return nil, fmt.Errorf("config file %s does not exist", resolvedPath)
	}
	return cfg, nil
}

// buildEnv assembles the collaborators every pipeline job depends on. It
// fails fast on anything the daemon cannot run without.
func buildEnv(cfg *config.Config, store *media.Store, logger *slog.Logger) (pipeline.Env, error) {
	objects, err := storage.NewMinioClient(cfg, logger)
	if err != nil {
		return pipeline.Env{}, err
	}
	var transcoder optimize.Transcoder = optimize.Passthrough()
	if cfg.Optimizer.Command != "" {
		transcoder, err = optimize.NewCommandTranscoder(cfg, logger)
		if err != nil {
			return pipeline.Env{}, err
		}
	}
	return pipeline.Env{
		Config:     cfg,
		Store:      store,
		Objects:    objects,
		Classifier: analysis.NewHTTPClassifier(cfg, logger),
		Transcoder: transcoder,
		Notifier:   backend.NewHTTPNotifier(cfg, logger),
		Logger:     logger,
	}, nil
}
