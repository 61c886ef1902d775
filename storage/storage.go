// Package storage is the client-scoped key-value store that replaces browser
// local storage: carts and last-order pointers live here, keyed per session.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("storage: key not found")

// Storage keeps opaque values with an optional TTL. A zero TTL means no expiry.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key scopes name to one session, e.g. "wwCart2:3f1c...".
func Key(name, sessionID string) string {
	return name + ":" + sessionID
}
