package resolver

import (
	"context"

	"jukebridge/internal/request"
)

// Song is the playable result of resolving a free-text query.
type Song struct {
	Title           string
	URL             string
	DurationSeconds int
}

// Resolver turns a song request into a playable song. Implementations may be
// slow or fail; a failure drops the request, it is never retried.
type Resolver interface {
	Resolve(ctx context.Context, req request.Request) (Song, error)
}

// Static resolves every request to a fixed-duration song titled after the
// query. Used in tests and as a stand-in when no resolver endpoint exists.
type Static struct {
	StreamURL       string
	DurationSeconds int

	// Err, when set, is returned for every request.
	Err error
}

func (s *Static) Resolve(ctx context.Context, req request.Request) (Song, error) {
	if s.Err != nil {
		return Song{}, s.Err
	}
	duration := s.DurationSeconds
	if duration <= 0 {
		duration = 30
	}
	return Song{Title: req.Query, URL: s.StreamURL, DurationSeconds: duration}, nil
}
