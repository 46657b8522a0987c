package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediapress/internal/logging"
	"mediapress/internal/media"
	"mediapress/internal/pipeline"
	"mediapress/internal/scheduler"
)

// submitWaitSlack bounds how long a one-shot submission may stay idle after
// the queue drains before the command gives up waiting for a terminal state.
const submitWaitSlack = 500 * time.Millisecond

func newSubmitCommand(configPath *string) *cobra.Command {
	var timeoutFlag time.Duration

	cmd := &cobra.Command{
		Use:   "submit <post-id> <media-id>",
		Short: "Process one media object through the full pipeline",
		Long: "Submit runs the receive, analyze, optimize, upload, and notify " +
			"stages inline for a single object and exits when the chain " +
			"settles. It shares the durable store with a running daemon but " +
			"uses its own in-process queue.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q: %w", args[0], err)
			}
			return runSubmit(cmd.Context(), *configPath, postID, args[1], timeoutFlag)
		},
	}
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 15*time.Minute, "Maximum time to wait for the chain to settle")
	return cmd
}

func runSubmit(cmdCtx context.Context, configPath string, postID int64, mediaID string, timeout time.Duration) error {
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
		Logger:     logger,
	})

	ctx, cancel := context.WithTimeout(cmdCtx, timeout)
	defer cancel()
	if err := worker.Start(ctx); err != nil {
		return err
	}
	defer worker.Stop()

	queue.Publish(pipeline.ReceiveEvent{MediaID: mediaID, PostID: postID})

	// Settled means the queue is drained and the record's status held still
	// across two polls; a single observation can land between a stage's
	// final store write and its follow-up event being enqueued.
	var lastSeen media.Status
	seenTwice := false
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("submission did not settle: %w", ctx.Err())
		case <-time.After(submitWaitSlack):
		}
		if queue.Len() > 0 {
			lastSeen, seenTwice = "", false
			continue
		}
		record, err := store.GetByPostID(ctx, postID)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Printf("post %d: no record (object missing or already removed)\n", postID)
			return nil
		}
		if record.IsProcessing() || record.Status != lastSeen {
			lastSeen, seenTwice = record.Status, false
			continue
		}
		if seenTwice {
			fmt.Printf("post %d: %s\n", postID, record.Status)
			return nil
		}
		seenTwice = true
	}
}
