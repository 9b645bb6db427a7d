package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCodeNotFound is returned by Get and Take when a key is absent or its
// TTL has elapsed.
var ErrCodeNotFound = errors.New("code not found")

// CodeStore is a key/value store with per-key expiry, used for pending
// auth codes. A key must not be retrievable after its TTL elapses even if
// never explicitly deleted.
type CodeStore interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Take atomically reads and deletes a key, so that of two concurrent
	// takers at most one ever sees the value.
	Take(ctx context.Context, key string) ([]byte, error)
}
