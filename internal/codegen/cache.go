package codegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedGenerator memoizes generated scene code keyed by the request
// content. Identical LaTeX submitted twice skips the model round trip.
type CachedGenerator struct {
	inner Generator
	cache *lru.Cache[string, string]
}

var _ Generator = (*CachedGenerator)(nil)

// NewCachedGenerator wraps inner with an LRU cache of the given size.
func NewCachedGenerator(inner Generator, size int) (*CachedGenerator, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedGenerator{inner: inner, cache: cache}, nil
}

// Generate returns cached code when available, otherwise delegates and
// stores the result. Errors are never cached.
func (c *CachedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if code, ok := c.cache.Get(key); ok {
		return code, nil
	}
	code, err := c.inner.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, code)
	return code, nil
}

func cacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.Latex))
	h.Write([]byte{0})
	h.Write([]byte(req.Topic))
	return hex.EncodeToString(h.Sum(nil))
}
