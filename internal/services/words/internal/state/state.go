package state

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("state not found")

// Store keeps opaque per-key blobs such as game sessions and user settings.
// A zero ttl keeps the entry until it is deleted. Entries with a ttl may be
// dropped earlier by a bounded backend, and Put fails when a write is not
// kept.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
