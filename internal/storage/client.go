package storage

import (
	"context"
	"encoding/json"
)

// Version is an opaque optimistic-concurrency token. The storage API may emit
// it as a number or a string; it is carried byte-for-byte and passed back
// unchanged on the next write.
type Version json.RawMessage

// IsZero reports whether no version token is held.
func (v Version) IsZero() bool { return len(v) == 0 }

func (v Version) String() string {
	if v.IsZero() {
		return "<none>"
	}
	return string(v)
}

// Object is a value read from the storage API together with its version token.
type Object struct {
	Key     string
	Value   string
	Version Version
}

// Client reads and writes versioned objects in the world storage API.
//
// Get returns (nil, nil) for keys that have never been written. Put with a
// zero expected version overwrites unconditionally; with a non-zero expected
// version it fails with services.ErrVersionConflict when the server holds a
// different version, and the write does not apply.
type Client interface {
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key, value string, expected Version) (Version, error)
}
