package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

// HTTPNotifier posts notifications as JSON to a configured backend endpoint.
type HTTPNotifier struct {
	url       string
	authToken string
	client    *http.Client
	logger    *slog.Logger
}

// NewHTTPNotifier builds a notifier from cfg.Backend. It returns the Disabled
// notifier when no URL is configured.
func NewHTTPNotifier(cfg *config.Config, logger *slog.Logger) Notifier {
	if cfg.Backend.URL == "" {
		return Disabled()
	}
	timeout := time.Duration(cfg.Backend.RequestTimeout) * time.Second
	return &HTTPNotifier{
		url:       cfg.Backend.URL,
		authToken: cfg.Backend.AuthToken,
		client:    &http.Client{Timeout: timeout},
		logger:    logging.NewComponentLogger(logger, "backend"),
	}
}

type acknowledgement struct {
	Status string `json:"status"`
}

// Notify posts the notification. The backend accepts a rendition by
// answering 200 or 202 with a body of {"status":"accepted"}; any other 2xx
// body counts as received but not accepted.
func (n *HTTPNotifier) Notify(ctx context.Context, notification Notification) (bool, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return false, fmt.Errorf("backend: encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.authToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("backend: notify post %d: %w", notification.PostID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("backend: notify post %d returned %d: %s",
			notification.PostID, resp.StatusCode, string(body))
	}

	var ack acknowledgement
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		n.logger.Warn("unparseable acknowledgement body",
			logging.Int64(logging.FieldPostID, notification.PostID),
			logging.Error(err))
		return false, nil
	}

	accepted := ack.Status == "accepted"
	n.logger.Debug("notification delivered",
		logging.Int64(logging.FieldPostID, notification.PostID),
		logging.String(logging.FieldMediaID, notification.NewMediaID),
		logging.Bool("accepted", accepted))
	return accepted, nil
}
