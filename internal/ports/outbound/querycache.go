package outbound

import (
	"context"
	"encoding/json"
)

// QueryCache stores the JSON-encoded result of a keyed fetch. Entries expire
// per the adapter's TTL policy; there is no persistence beyond the backing
// store's own lifetime.
type QueryCache interface {
	// Get returns the cached value for key, or nil (no error) on a miss.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set stores a value under key, subject to the adapter's TTL.
	Set(ctx context.Context, key string, data json.RawMessage) error

	// Delete removes a cached entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the backing store connection.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
