// internal/llm/cache.go
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"content-workers/internal/common/logger"
	"content-workers/internal/common/metrics"
)

// CacheConfig holds the Redis connection settings for response caching.
type CacheConfig struct {
	Address string
	DB      int
	TTL     time.Duration
}

type cachingClient struct {
	inner  Client
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCachingClient wraps inner with a Redis read-through cache keyed on the
// full request. Cache faults degrade to a pass-through call, never a failure.
func NewCachingClient(inner Client, cfg CacheConfig, log logger.Logger) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
		DB:   cfg.DB,
	})
	return &cachingClient{
		inner:  inner,
		rdb:    rdb,
		ttl:    cfg.TTL,
		logger: log.WithFields(map[string]interface{}{"component": "llm-cache"}),
	}
}

func (c *cachingClient) Complete(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		metrics.LLMCacheHits.WithLabelValues("hit").Inc()
		c.logger.Debug("cache hit", map[string]interface{}{"operation": req.Operation})
		return cached, nil
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed, falling through", map[string]interface{}{
			"operation": req.Operation,
			"error":     err.Error(),
		})
	}

	metrics.LLMCacheHits.WithLabelValues("miss").Inc()

	content, err := c.inner.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, content, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"operation": req.Operation,
			"error":     err.Error(),
		})
	}

	return content, nil
}

func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%.3f|%d|%t",
		req.Operation, req.System, req.User, req.Temperature, req.MaxTokens, req.JSONMode)))
	return "llm:response:" + hex.EncodeToString(sum[:])
}
