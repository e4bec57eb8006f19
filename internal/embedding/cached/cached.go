package cached

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"time"

	"semaxis/internal/cache"
	"semaxis/internal/embedding"
)

const cacheTimeout = 2 * time.Second

// Embedder wraps a remote embedder with a vector cache. Cache failures are
// logged and treated as misses; errors from the wrapped embedder propagate.
type Embedder struct {
	next  embedding.Embedder
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New wraps next with c. Entries expire after ttl (0 keeps them).
func New(next embedding.Embedder, c cache.Cache, ttl time.Duration, log *slog.Logger) *Embedder {
	return &Embedder{next: next, cache: c, ttl: ttl, log: log}
}

// Name returns the wrapped embedder's name.
func (e *Embedder) Name() string { return e.next.Name() }

// Prepare delegates to the wrapped embedder.
func (e *Embedder) Prepare(corpus []string) error { return e.next.Prepare(corpus) }

// Dimension delegates to the wrapped embedder.
func (e *Embedder) Dimension() int { return e.next.Dimension() }

// Embed returns the cached vector for text or computes and stores it.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if vec, ok := e.lookup(text); ok {
		return vec, nil
	}
	vec, err := e.next.Embed(text)
	if err != nil {
		return nil, err
	}
	e.store(text, vec)
	return vec, nil
}

// EmbedBatch serves cached texts from the cache and sends only the misses to
// the wrapped embedder, in one batch call.
func (e *Embedder) EmbedBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := e.lookup(text); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := e.next.EmbedBatch(missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		out[missingIdx[j]] = vec
		e.store(missing[j], vec)
	}
	return out, nil
}

func (e *Embedder) lookup(text string) ([]float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	vec, ok, err := e.cache.GetEmbedding(ctx, e.key(text))
	if err != nil {
		e.log.Debug("embedding cache lookup failed", "err", err)
		return nil, false
	}
	return vec, ok
}

func (e *Embedder) store(text string, vec []float64) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := e.cache.SetEmbedding(ctx, e.key(text), vec, e.ttl); err != nil {
		e.log.Warn("embedding cache store failed", "err", err)
	}
}

func (e *Embedder) key(text string) string {
	h := sha1.Sum([]byte(text))
	return e.next.Name() + ":" + hex.EncodeToString(h[:])
}
