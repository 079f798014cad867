package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running daemon's HTTP API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient constructs a daemon API client for the given bind address.
// The address may be a bare host:port or a full http URL.
func NewClient(address, token string) *Client {
	address = strings.TrimSpace(address)
	if address != "" && !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return &Client{
		baseURL: strings.TrimRight(address, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Status fetches the daemon status snapshot.
func (c *Client) Status(ctx context.Context) (*DaemonStatus, error) {
	var payload DaemonStatus
	if err := c.get(ctx, "/api/status", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Queue fetches the daemon's view of the playback queue.
func (c *Client) Queue(ctx context.Context) (*QueueListResponse, error) {
	var payload QueueListResponse
	if err := c.get(ctx, "/api/queue", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("daemon api address not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("daemon api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("daemon api %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode daemon api response: %w", err)
	}
	return nil
}
