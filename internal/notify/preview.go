package notify

import (
	"log/slog"
	"net/http"
	"time"
)

// PreviewClient asks the preview host to reload the running application.
// Refreshes are fire-and-forget: failures are logged, never propagated.
type PreviewClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewPreviewClient creates a preview refresh client. An empty URL disables
// refreshes (every notification becomes a no-op).
func NewPreviewClient(url string, logger *slog.Logger) *PreviewClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreviewClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// RefreshPreview notifies the preview host. Safe to call from timer
// goroutines; the caller never waits on the result.
func (c *PreviewClient) RefreshPreview() {
	if c.url == "" {
		return
	}

	resp, err := c.client.Post(c.url, "application/json", nil)
	if err != nil {
		c.logger.Warn("preview refresh failed", "error", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.logger.Warn("preview refresh rejected", "status", resp.StatusCode)
	}
}
