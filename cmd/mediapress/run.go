package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/pipeline"
	"mediapress/internal/scheduler"
)

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the media processing daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), *configPath)
		},
	}
}

func runDaemon(cmdCtx context.Context, configPath string) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "mediapress.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another mediapress instance holds %s", lockPath)
	}
	defer lock.Unlock()

	store, err := media.Open(cfg)
	if err != nil {
		return fmt.Errorf("open media store: %w", err)
	}
	defer store.Close()

	env, err := buildEnv(cfg, store, logger)
	if err != nil {
		return err
	}

	queue := scheduler.NewQueue()
	registry := scheduler.NewRegistry()
	if err := pipeline.Register(registry, env); err != nil {
		return err
	}

	worker := scheduler.NewWorker(queue, registry, scheduler.Options{
		PopTimeout: time.Duration(cfg.Scheduler.PopTimeout) * time.Second,
		IdleEvent:  func() scheduler.Event { return pipeline.RenotifyEvent{} },
		Logger:     logger,
	})
	if err := worker.Start(signalCtx); err != nil {
		return err
	}

	logger.Info("daemon running",
		logging.String("store", store.Path()),
		logging.String("lock", lockPath))
	<-signalCtx.Done()
	logger.Info("shutdown requested")
	worker.Stop()
	return nil
}
