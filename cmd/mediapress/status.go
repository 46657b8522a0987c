package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediapress/internal/api"
	"mediapress/internal/media"
)

func newStatusCommand(configPath *string) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "status [post-id]",
		Short: "Show pipeline record counts and recent activity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := media.Open(cfg)
			if err != nil {
				return fmt.Errorf("open media store: %w", err)
			}
			defer store.Close()
			service := api.NewService(store)

			if len(args) == 1 {
				postID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid post id %q: %w", args[0], err)
				}
				return printRecord(cmd.Context(), service, postID)
			}
			return printStatus(cmd.Context(), service, limitFlag)
		},
	}
	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Number of recent records to list")
	return cmd
}

func printStatus(ctx context.Context, service *api.Service, limit int) error {
	summary, err := service.Summary(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(summary.Counts))
	for _, status := range media.AllStatuses() {
		count, ok := summary.Counts[status]
		if !ok {
			continue
		}
		rows = append(rows, []string{statusLabel(status), strconv.Itoa(count)})
	}
	fmt.Println(renderTable([]string{"Status", "Records"}, rows))
	fmt.Printf("Total: %d\n", summary.Total)

	records, err := service.Latest(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Println(renderTable([]string{"Post", "Media", "Status", "Sent", "Accepted", "Updated"}, recordRows(records)))
	return nil
}

func printRecord(ctx context.Context, service *api.Service, postID int64) error {
	record, err := service.Record(ctx, postID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no record for post %d", postID)
	}
	fmt.Println(renderTable(
		[]string{"Post", "Media", "Status", "Sent", "Accepted", "Updated"},
		recordRows([]*media.Record{record}),
	))
	if record.NewMediaID != "" && record.NewMediaID != record.MediaID {
		fmt.Printf("Optimized rendition: %s\n", record.NewMediaID)
	}
	for label, score := range record.Category {
		fmt.Printf("  %s: %.1f\n", label, score)
	}
	return nil
}

func recordRows(records []*media.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.PostID, 10),
			record.MediaID,
			statusLabel(record.Status),
			strconv.Itoa(record.NotificationSent),
			strconv.Itoa(record.NotificationAccepted),
			record.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}
