package correlate

import (
	"context"

	"github.com/aerovoice/aerovoice/internal/cache"
	"github.com/aerovoice/aerovoice/internal/llm"
)

// Embedder wraps the oracle's embedding call with an in-memory cache, so the
// same article body is never embedded twice within a verification run.
type Embedder struct {
	oracle llm.Oracle
	store  cache.Cache
}

// NewEmbedder creates a caching embedder. A nil store disables caching.
func NewEmbedder(oracle llm.Oracle, store cache.Cache) *Embedder {
	return &Embedder{oracle: oracle, store: store}
}

// Embed returns an embedding for the text, from cache when possible. Like
// the underlying oracle, it degrades to a zero vector rather than failing.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	if e.oracle == nil {
		return llm.ZeroVector()
	}
	if e.store == nil {
		return e.oracle.Embed(ctx, text)
	}

	key := cache.Key(text)
	if data, found := e.store.Get(key); found {
		if vec := cache.DecodeVector(data); vec != nil {
			return vec
		}
	}

	vec := e.oracle.Embed(ctx, text)
	if !isZero(vec) {
		_ = e.store.Set(key, cache.EncodeVector(vec), 0)
	}
	return vec
}

func isZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
