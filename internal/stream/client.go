package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rfournie/appforge/internal/chat"
)

// Client opens streaming assistant turns against the upstream agent API.
// No overall timeout is imposed: a turn runs until the upstream closes the
// stream, fails, or the caller cancels the context.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a stream client for the given base URL. A nil
// httpClient falls back to a client without timeouts.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

type chatRequest struct {
	ProjectID string `json:"project_id"`
	Message   string `json:"message"`
}

// Open starts one assistant turn. The returned stream yields decoded events
// until the upstream closes the response; cancelling ctx aborts the
// underlying read mid-stream.
func (c *Client) Open(ctx context.Context, projectID, message string) (chat.EventStream, error) {
	body, err := json.Marshal(chatRequest{ProjectID: projectID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opening chat stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("chat stream: unexpected status %d", resp.StatusCode)
	}

	return &bodyStream{decoder: NewDecoder(resp.Body), body: resp.Body}, nil
}

type bodyStream struct {
	decoder *Decoder
	body    io.ReadCloser
}

func (s *bodyStream) Next() (chat.Event, error) {
	return s.decoder.Next()
}

func (s *bodyStream) Close() error {
	return s.body.Close()
}
