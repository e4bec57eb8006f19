package cache

import (
	"context"
	"time"
)

// Cache stores embedding vectors so remote embedders are not called twice
// for the same text and model.
type Cache interface {
	// GetEmbedding returns the cached vector for key. ok is false on a miss.
	GetEmbedding(ctx context.Context, key string) (vec []float64, ok bool, err error)

	// SetEmbedding stores vec under key with the given TTL (0 means no expiry).
	SetEmbedding(ctx context.Context, key string, vec []float64, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}
