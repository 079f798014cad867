package inbox

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"jukebridge/internal/logging"
	"jukebridge/internal/queuesync"
	"jukebridge/internal/request"
	"jukebridge/internal/resolver"
	"jukebridge/internal/services"
	"jukebridge/internal/storage"
)

// Processor drains the inbox object into the playback queue.
//
// The inbox is cleared before the request's side effects run. This is an
// at-most-once guarantee: a crash between clearing and appending loses the
// request instead of replaying it, which is the accepted trade-off for a
// producer that overwrites the inbox on every request.
type Processor struct {
	store  storage.Client
	key    string
	songs  resolver.Resolver
	queue  *queuesync.Synchronizer
	logger *slog.Logger
}

// NewProcessor constructs an inbox processor for the object under key.
func NewProcessor(store storage.Client, key string, songs resolver.Resolver, queue *queuesync.Synchronizer, logger *slog.Logger) *Processor {
	return &Processor{
		store:  store,
		key:    key,
		songs:  songs,
		queue:  queue,
		logger: logging.NewComponentLogger(logger, "inbox"),
	}
}

// Process reads the inbox once and, when it holds a request, clears it,
// resolves the song, and appends it to the queue. The first return value
// reports whether an entry was appended.
func (p *Processor) Process(ctx context.Context) (bool, error) {
	obj, err := p.store.Get(ctx, p.key)
	if err != nil {
		return false, err
	}
	if obj == nil || strings.TrimSpace(obj.Value) == "" {
		return false, nil
	}

	req, ok := request.Decode(obj.Value)
	if !ok {
		return false, nil
	}

	// Clear before any side effect. A conflicting clear means the producer
	// overwrote the inbox between our read and now; the newer request wins
	// and is picked up next cycle.
	if _, err := p.store.Put(ctx, p.key, "", obj.Version); err != nil {
		if errors.Is(err, services.ErrVersionConflict) {
			p.logger.Debug("inbox overwritten before drain, deferring",
				logging.String(logging.FieldStorageKey, p.key),
			)
			return false, nil
		}
		return false, err
	}

	p.logger.Info("request drained",
		logging.String("query", req.Query),
		logging.String("requested_by", req.User),
	)

	song, err := p.songs.Resolve(ctx, req)
	if err != nil {
		// The inbox is already cleared; the request is dropped, not retried.
		return false, err
	}

	entry := queuesync.Entry{
		Title:           song.Title,
		URL:             song.URL,
		DurationSeconds: song.DurationSeconds,
		RequestedBy:     req.User,
		RequestedByID:   req.UserID,
	}
	if err := p.queue.Append(ctx, entry); err != nil {
		return false, err
	}

	p.logger.Info("request queued",
		logging.String("title", entry.Title),
		logging.Int("duration_seconds", entry.DurationSeconds),
		logging.Int("queue_length", p.queue.Len()),
	)
	return true, nil
}
