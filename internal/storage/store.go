package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the persistence collaborator: opaque values under
// string keys. Remove of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// DefaultPrefix namespaces every key the application writes.
const DefaultPrefix = "painrelief-"

// SessionKey is the key holding one session's data.
func SessionKey(prefix, sessionID string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + sessionID + "-data"
}
