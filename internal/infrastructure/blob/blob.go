package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no object exists under the key.
var ErrNotFound = errors.New("blob: object not found")

// Store is the adapter over a remote object store. Every write is a
// full-object replacement; there are no partial or append writes, and no
// local caching — each call round-trips to the store.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte, contentType string) error
	// URL returns the deterministic public URL for an object under key.
	URL(key string) string
}
