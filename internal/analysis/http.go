package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

// HTTPClassifier sends media files to an inference service and decodes the
// returned label scores.
type HTTPClassifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPClassifier builds a classifier from cfg.Analyzer. It returns the
// Disabled classifier when no URL is configured.
func NewHTTPClassifier(cfg *config.Config, logger *slog.Logger) Classifier {
	if cfg.Analyzer.URL == "" {
		return Disabled()
	}
	timeout := time.Duration(cfg.Analyzer.RequestTimeout) * time.Second
	return &HTTPClassifier{
		url:    cfg.Analyzer.URL,
		client: &http.Client{Timeout: timeout},
		logger: logging.NewComponentLogger(logger, "analysis"),
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("analysis: open %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("analysis: build request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("analysis: read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("analysis: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("analysis: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis: classify %s: %w", filepath.Base(path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analysis: classifier returned %d: %s", resp.StatusCode, string(payload))
	}

	var scores map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, fmt.Errorf("analysis: decode response: %w", err)
	}
	c.logger.Debug("file classified",
		logging.String("file", filepath.Base(path)),
		logging.Int("labels", len(scores)),
		logging.Duration("elapsed", time.Since(start)))
	return scores, nil
}
