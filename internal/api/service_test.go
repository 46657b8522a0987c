package api

import (
	"context"
	"testing"

	"mediapress/internal/media"
	"mediapress/internal/testsupport"
)

func TestSummaryAggregatesCounts(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for i, status := range []media.Status{
		media.StatusAccepted, media.StatusAccepted, media.StatusNotified,
	} {
		record := &media.Record{PostID: int64(i + 1), MediaID: "clip.mp4", Status: status}
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	summary, err := NewService(store).Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if summary.Counts[media.StatusAccepted] != 2 || summary.Counts[media.StatusNotified] != 1 {
		t.Errorf("Counts = %v", summary.Counts)
	}
}

func TestRecordAbsentReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record, err := NewService(store).Record(context.Background(), 99)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if record != nil {
		t.Errorf("Record = %+v, want nil", record)
	}
}
