// Package api exposes read-only projections over the durable media store for
// operational reporting. It never mutates state.
package api

import (
	"context"

	"mediapress/internal/media"
)

// Service answers status queries against the media store.
type Service struct {
	store *media.Store
}

func NewService(store *media.Store) *Service {
	return &Service{store: store}
}

// Summary aggregates record counts by status.
type Summary struct {
	Counts map[media.Status]int
	Total  int
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	counts, err := s.store.StatusCounts(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Counts: counts}
	for _, count := range counts {
		summary.Total += count
	}
	return summary, nil
}

// Latest returns the most recently created records, newest first.
func (s *Service) Latest(ctx context.Context, limit int) ([]*media.Record, error) {
	return s.store.Latest(ctx, limit)
}

// Record looks up a single record by post id. Returns nil when absent.
func (s *Service) Record(ctx context.Context, postID int64) (*media.Record, error) {
	return s.store.GetByPostID(ctx, postID)
}
