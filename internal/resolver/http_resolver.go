package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jukebridge/internal/config"
	"jukebridge/internal/request"
	"jukebridge/internal/services"
	"jukebridge/internal/storage"
)

// httpResolver asks the relay endpoint to queue the song on the audio side
// and reports back title and duration when the relay knows them.
type httpResolver struct {
	baseURL         string
	streamURL       string
	defaultDuration int
	client          storage.HTTPDoer
}

// NewHTTPResolver constructs a resolver against the relay endpoint using the
// provided HTTP backend.
func NewHTTPResolver(baseURL, streamURL string, defaultDuration int, client storage.HTTPDoer) Resolver {
	if defaultDuration <= 0 {
		defaultDuration = 30
	}
	return &httpResolver{
		baseURL:         strings.TrimRight(baseURL, "/"),
		streamURL:       streamURL,
		defaultDuration: defaultDuration,
		client:          client,
	}
}

// NewConfiguredResolver builds a resolver from application config.
func NewConfiguredResolver(cfg *config.Config) Resolver {
	timeout := time.Duration(cfg.Resolver.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewHTTPResolver(
		cfg.Resolver.BaseURL,
		cfg.Resolver.StreamURL,
		cfg.Resolver.DefaultDuration,
		&http.Client{Timeout: timeout},
	)
}

type resolveResponse struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration int    `json:"duration"`
}

func (r *httpResolver) Resolve(ctx context.Context, req request.Request) (Song, error) {
	endpoint, err := url.Parse(r.baseURL)
	if err != nil {
		return Song{}, services.Wrap(services.ErrResolver, "resolver", "resolve", "parse endpoint", err)
	}
	query := endpoint.Query()
	query.Set("q", req.Query)
	query.Set("user", req.User)
	query.Set("userid", req.UserID)
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Song{}, services.Wrap(services.ErrResolver, "resolver", "resolve", "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Song{}, services.Wrap(services.ErrResolver, "resolver", "resolve", req.Query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := fmt.Sprintf("%s returned %d: %s", req.Query, resp.StatusCode, strings.TrimSpace(string(body)))
		return Song{}, services.Wrap(services.ErrResolver, "resolver", "resolve", detail, nil)
	}

	song := Song{
		Title:           req.Query,
		URL:             r.streamURL,
		DurationSeconds: r.defaultDuration,
	}

	// The relay's response body is advisory; a bad one still counts as a
	// resolved song with defaults.
	var parsed resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil {
		if title := strings.TrimSpace(parsed.Title); title != "" {
			song.Title = title
		}
		if parsed.Duration > 0 {
			song.DurationSeconds = parsed.Duration
		}
		if u := strings.TrimSpace(parsed.URL); u != "" {
			song.URL = u
		}
	}

	return song, nil
}
