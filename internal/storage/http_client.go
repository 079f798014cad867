package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jukebridge/internal/config"
	"jukebridge/internal/services"
)

const userAgent = "jukebridge/0.1.0"

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// httpClient implements Client against the world storage HTTP API.
type httpClient struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewHTTPClient constructs a storage client using the provided HTTP backend.
func NewHTTPClient(baseURL, apiKey string, client HTTPDoer) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// NewConfiguredClient builds a storage client from application config.
func NewConfiguredClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Storage.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewHTTPClient(cfg.Storage.BaseURL, cfg.Storage.APIKey, &http.Client{Timeout: timeout})
}

type objectEnvelope struct {
	Key      string          `json:"key"`
	Value    string          `json:"value"`
	Version  json.RawMessage `json:"version"`
	Metadata struct {
		Version json.RawMessage `json:"version"`
	} `json:"metadata"`
}

// version prefers the nested metadata token; PUT responses carry it top-level.
func (e *objectEnvelope) version() Version {
	if len(e.Metadata.Version) > 0 {
		return Version(e.Metadata.Version)
	}
	return Version(e.Version)
}

type putRequest struct {
	Value      string          `json:"value"`
	Attributes []string        `json:"attributes"`
	Version    json.RawMessage `json:"version,omitempty"`
}

func (c *httpClient) Get(ctx context.Context, key string) (*Object, error) {
	req, err := c.newRequest(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "storage", "get", key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	case resp.StatusCode >= 300:
		return nil, statusError("get", key, resp)
	}

	var envelope objectEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, services.Wrap(services.ErrTransient, "storage", "get", fmt.Sprintf("decode %s response", key), err)
	}

	return &Object{Key: key, Value: envelope.Value, Version: envelope.version()}, nil
}

func (c *httpClient) Put(ctx context.Context, key, value string, expected Version) (Version, error) {
	payload := putRequest{
		Value:      value,
		Attributes: []string{},
	}
	// Omitting the version yields an unconditional overwrite; sending an
	// explicit null is rejected by the API.
	if !expected.IsZero() {
		payload.Version = json.RawMessage(expected)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "storage", "put", fmt.Sprintf("encode %s payload", key), err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, key, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "storage", "put", key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict, resp.StatusCode == http.StatusPreconditionFailed:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrVersionConflict, "storage", "put", key, nil)
	case resp.StatusCode >= 300:
		return nil, statusError("put", key, resp)
	}

	var envelope objectEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, services.Wrap(services.ErrTransient, "storage", "put", fmt.Sprintf("decode %s response", key), err)
	}

	return envelope.version(), nil
}

func (c *httpClient) newRequest(ctx context.Context, method, key string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/storage/object/%s", c.baseURL, key)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "storage", strings.ToLower(method), fmt.Sprintf("build %s request", key), err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func statusError(operation, key string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := fmt.Sprintf("%s returned %d: %s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	return services.Wrap(services.ErrTransient, "storage", operation, detail, nil)
}
