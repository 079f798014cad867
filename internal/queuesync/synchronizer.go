package queuesync

import (
	"context"
	"errors"
	"log/slog"

	"jukebridge/internal/logging"
	"jukebridge/internal/services"
	"jukebridge/internal/storage"
)

// Synchronizer owns the authoritative in-memory queue and mediates every
// read and write of the remote queue object.
//
// It caches the last-known version token and never writes with a token it
// knows to be superseded: each successful write refreshes the cache, and a
// conflicting write triggers a re-read, a re-apply of the local mutation on
// top of the fresh remote queue, and exactly one retry. A second conflict is
// surfaced so the caller can retry on a later cycle.
//
// A Synchronizer is owned by a single goroutine; it is not safe for
// concurrent use.
type Synchronizer struct {
	store  storage.Client
	key    string
	logger *slog.Logger

	entries []Entry
	version storage.Version
}

// New constructs a synchronizer for the queue object under key.
func New(store storage.Client, key string, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		store:  store,
		key:    key,
		logger: logging.NewComponentLogger(logger, "queue"),
	}
}

// Load replaces local state with the remote queue object. Absent or
// unparsable values become an empty queue, never an error; only transport
// failures are returned.
func (s *Synchronizer) Load(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		return err
	}
	s.logger.Info("queue loaded",
		logging.String(logging.FieldStorageKey, s.key),
		logging.Int("entries", len(s.entries)),
	)
	return nil
}

// Entries returns a copy of the queued entries in play order.
func (s *Synchronizer) Entries() []Entry {
	return cloneEntries(s.entries)
}

// Head returns the entry at the front of the queue.
func (s *Synchronizer) Head() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[0], true
}

// Len returns the number of queued entries.
func (s *Synchronizer) Len() int {
	return len(s.entries)
}

// Append pushes an entry to the tail and persists the queue.
func (s *Synchronizer) Append(ctx context.Context, entry Entry) error {
	return s.commit(ctx, func(entries []Entry) []Entry {
		return append(entries, entry)
	})
}

// PopHead removes the entry at the front of the queue and persists the
// result. Popping an empty queue is a no-op.
func (s *Synchronizer) PopHead(ctx context.Context) (*Entry, error) {
	head, ok := s.Head()
	if !ok {
		return nil, nil
	}
	// Re-applied against a fresh remote queue after a conflict, the pop only
	// removes the head when it is still the entry we finished playing.
	err := s.commit(ctx, func(entries []Entry) []Entry {
		if len(entries) > 0 && entries[0] == head {
			return entries[1:]
		}
		return entries
	})
	if err != nil {
		return nil, err
	}
	return &head, nil
}

// Sanitize rewrites the current queue in the enveloped format. Used once at
// startup to repair values left behind by producers writing raw JSON.
func (s *Synchronizer) Sanitize(ctx context.Context) error {
	return s.commit(ctx, func(entries []Entry) []Entry {
		return entries
	})
}

func (s *Synchronizer) commit(ctx context.Context, mutate func([]Entry) []Entry) error {
	next := mutate(cloneEntries(s.entries))
	err := s.persist(ctx, next)
	if errors.Is(err, services.ErrVersionConflict) {
		s.logger.Warn("queue write conflicted, reconciling",
			logging.String(logging.FieldStorageKey, s.key),
			logging.String("cached_version", s.version.String()),
		)
		if rerr := s.refresh(ctx); rerr != nil {
			return rerr
		}
		next = mutate(cloneEntries(s.entries))
		err = s.persist(ctx, next)
	}
	if err != nil {
		return err
	}
	s.entries = next
	return nil
}

func (s *Synchronizer) persist(ctx context.Context, entries []Entry) error {
	payload, err := encodeValue(entries)
	if err != nil {
		return services.Wrap(services.ErrValidation, "queue", "persist", s.key, err)
	}
	version, err := s.store.Put(ctx, s.key, wrapPayload(payload), s.version)
	if err != nil {
		return err
	}
	s.version = version
	return nil
}

func (s *Synchronizer) refresh(ctx context.Context) error {
	obj, err := s.store.Get(ctx, s.key)
	if err != nil {
		return err
	}
	if obj == nil {
		s.entries = nil
		s.version = nil
		return nil
	}
	s.version = obj.Version
	entries, ok := DecodeValue(obj.Value)
	if !ok {
		s.logger.Warn("queue value unparsable, treating as empty",
			logging.String(logging.FieldStorageKey, s.key),
		)
		s.entries = nil
		return nil
	}
	s.entries = entries
	return nil
}
