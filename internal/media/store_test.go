package media_test

import (
	"context"
	"testing"
	"time"

	"mediapress/internal/media"
	"mediapress/internal/testsupport"
)

func TestUpsertPreservesCreatedAt(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := &media.Record{
		PostID:  7,
		MediaID: "2024/07/clip.mp4",
		Status:  media.StatusAccepted,
	}
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	created := record.CreatedAt
	if created.IsZero() {
		t.Fatal("CreatedAt not set on insert")
	}

	time.Sleep(10 * time.Millisecond)
	record.Status = media.StatusOptimizing
	record.CreatedAt = time.Time{}
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if !record.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", record.CreatedAt, created)
	}

	got, err := store.GetByPostID(ctx, 7)
	if err != nil {
		t.Fatalf("GetByPostID: %v", err)
	}
	if got.Status != media.StatusOptimizing {
		t.Errorf("Status = %s, want %s", got.Status, media.StatusOptimizing)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("UpdatedAt %v should be after CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestGetAbsentReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if got, err := store.GetByPostID(ctx, 999); err != nil || got != nil {
		t.Errorf("GetByPostID = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := store.GetByMediaID(ctx, "missing.mp4"); err != nil || got != nil {
		t.Errorf("GetByMediaID = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := &media.Record{
		PostID:   3,
		MediaID:  "clip.mp4",
		Status:   media.StatusAnalysed,
		Category: map[string]float64{"sports": 0.91, "news": 0.04},
	}
	if err := store.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.GetByPostID(ctx, 3)
	if err != nil {
		t.Fatalf("GetByPostID: %v", err)
	}
	if got.Category["sports"] != 0.91 || len(got.Category) != 2 {
		t.Errorf("Category = %v, want sports/news scores", got.Category)
	}
}

func TestUnnotifiedOrderingAndBatch(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		postID   int64
		sent     int
		accepted int
		age      time.Duration
	}{
		{1, 2, 0, 0},
		{2, 0, 0, time.Minute},  // least retried, older
		{3, 0, 0, 2 * time.Minute},
		{4, 1, 1, 0},            // already accepted, excluded
		{5, 1, 0, 0},
	}
	for _, s := range seed {
		record := &media.Record{
			PostID:           s.postID,
			MediaID:          "clip.mp4",
			Status:           media.StatusNotified,
			NotificationSent: s.sent,
			NotificationAccepted: s.accepted,
			CreatedAt:        base.Add(-s.age),
		}
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert post %d: %v", s.postID, err)
		}
	}

	records, err := store.Unnotified(ctx, 3)
	if err != nil {
		t.Fatalf("Unnotified: %v", err)
	}
	var got []int64
	for _, r := range records {
		got = append(got, r.PostID)
	}
	want := []int64{3, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("Unnotified returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Unnotified order = %v, want %v", got, want)
		}
	}

	if records, err := store.Unnotified(ctx, 0); err != nil || records != nil {
		t.Errorf("Unnotified(0) = (%v, %v), want (nil, nil)", records, err)
	}
}

func TestDeleteByMediaID(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for postID, mediaID := range map[int64]string{10: "a.mp4", 11: "b.mp4"} {
		record := &media.Record{PostID: postID, MediaID: mediaID, Status: media.StatusDone}
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	removed, err := store.DeleteByMediaID(ctx, "a.mp4")
	if err != nil {
		t.Fatalf("DeleteByMediaID: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if got, err := store.GetByPostID(ctx, 10); err != nil || got != nil {
		t.Errorf("deleted record still present: (%v, %v)", got, err)
	}
	if got, _ := store.GetByPostID(ctx, 11); got == nil {
		t.Error("unrelated record removed")
	}
}

func TestStatusCounts(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	statuses := []media.Status{
		media.StatusAccepted, media.StatusAccepted, media.StatusOptimizing, media.StatusDone,
	}
	for i, status := range statuses {
		record := &media.Record{PostID: int64(i + 1), MediaID: "clip.mp4", Status: status}
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	counts, err := store.StatusCounts(ctx)
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if counts[media.StatusAccepted] != 2 || counts[media.StatusOptimizing] != 1 || counts[media.StatusDone] != 1 {
		t.Errorf("StatusCounts = %v", counts)
	}
}

func TestLatestOrdersByCreatedAt(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, postID := range []int64{1, 2, 3} {
		record := &media.Record{PostID: postID, MediaID: "clip.mp4", Status: media.StatusAccepted}
		if err := store.Upsert(ctx, record); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	records, err := store.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Latest returned %d records, want 2", len(records))
	}
	if records[0].PostID != 3 || records[1].PostID != 2 {
		t.Errorf("Latest order = [%d, %d], want [3, 2]", records[0].PostID, records[1].PostID)
	}
}
