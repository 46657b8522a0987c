package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) Notifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Backend.URL = server.URL
	cfg.Backend.AuthToken = "sekrit"
	return NewHTTPNotifier(&cfg, logging.NewNop())
}

func sampleNotification() Notification {
	return Notification{
		PostID:          42,
		MediaID:         "2024/07/clip.mp4",
		NewMediaID:      "2024/07/clip.mp4.webm",
		Metadata:        map[string]string{"wmr-source": "2024/07/clip.mp4"},
		ContentMetadata: map[string]float64{"sports": 0.91},
	}
}

func TestHTTPNotifierAccepted(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		var n Notification
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			t.Errorf("decode notification: %v", err)
		}
		if n.PostID != 42 || n.NewMediaID != "2024/07/clip.mp4.webm" {
			t.Errorf("unexpected notification %+v", n)
		}
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"accepted"}`))
	})

	accepted, err := notifier.Notify(context.Background(), sampleNotification())
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !accepted {
		t.Error("202 with accepted status should report accepted")
	}
}

func TestHTTPNotifierReceivedNotAccepted(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"queued"}`))
	})

	accepted, err := notifier.Notify(context.Background(), sampleNotification())
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if accepted {
		t.Error("non-accepted status should not report accepted")
	}
}

func TestHTTPNotifierErrorStatus(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	if _, err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestHTTPNotifierMalformedBody(t *testing.T) {
	notifier := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	accepted, err := notifier.Notify(context.Background(), sampleNotification())
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if accepted {
		t.Error("unparseable body should not report accepted")
	}
}

func TestNewHTTPNotifierWithoutURLIsDisabled(t *testing.T) {
	cfg := config.Default()
	notifier := NewHTTPNotifier(&cfg, logging.NewNop())
	accepted, err := notifier.Notify(context.Background(), sampleNotification())
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if accepted {
		t.Error("disabled notifier should not accept")
	}
}
