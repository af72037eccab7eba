package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/httpcache"
)

// ResponseCache stores serialized response bodies by name. Get resolves
// name to a key once; Set takes that key so a body loaded across an
// Invalidate is filed under the generation it was read from.
type ResponseCache interface {
	Get(ctx context.Context, name string) (body []byte, key string, ok bool)
	Set(ctx context.Context, key string, body []byte)
	Invalidate(ctx context.Context)
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, string, bool) { return nil, "", false }
func (NopCache) Set(context.Context, string, []byte)                {}
func (NopCache) Invalidate(context.Context)                         {}

// serveCached writes the body stored under name, or loads, serializes and
// stores it. Either way the bytes go through httpcache, so a cached body
// carries the same ETag as a fresh one.
func serveCached(c *gin.Context, cache ResponseCache, logger *zap.Logger, name string, load func() (any, error), fallback string) {
	ctx := c.Request.Context()

	body, key, ok := cache.Get(ctx, name)
	if ok {
		httpcache.Write(c, body)
		return
	}

	v, err := load()
	if err != nil {
		respondError(c, logger, err, fallback)
		return
	}

	body, err = httpcache.Marshal(v)
	if err != nil {
		respondError(c, logger, err, fallback)
		return
	}

	cache.Set(ctx, key, body)
	httpcache.Write(c, body)
}

// writeJSON is the uncached ETag path.
func writeJSON(c *gin.Context, logger *zap.Logger, v any, fallback string) {
	if err := httpcache.JSON(c, v); err != nil {
		respondError(c, logger, err, fallback)
	}
}
