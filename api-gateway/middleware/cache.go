package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/retail-settlement/pkg/logger"
)

// CacheConfig controls which responses the gateway caches
type CacheConfig struct {
	DefaultTTL      time.Duration
	PathPrefixes    []string
	CacheableStatus []int
}

// DefaultCacheConfig caches catalog reads and availability lookups.
// Receipts and stock mutations must never be served from cache.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL: 2 * time.Minute,
		PathPrefixes: []string{
			"/api/catalog",
			"/api/stock/availability",
		},
		CacheableStatus: []int{200, 203, 404},
	}
}

// CacheMiddleware serves GET responses from Redis for allow-listed paths
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil || c.Method() != fiber.MethodGet || !isPathCacheable(c.Path(), config.PathPrefixes) {
			return c.Next()
		}

		key := cacheKey(c)
		ctx := context.Background()

		if cached, err := redisClient.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Msg("Cache hit")
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if isStatusCacheable(status, config.CacheableStatus) {
			body := c.Response().Body()
			if setErr := redisClient.Set(ctx, key, body, config.DefaultTTL).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("path", c.Path()).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

func cacheKey(c *fiber.Ctx) string {
	raw := fmt.Sprintf("%s:%s:%s",
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)
	hash := sha256.Sum256([]byte(raw))
	return "cache:" + hex.EncodeToString(hash[:])
}

func isPathCacheable(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isStatusCacheable(status int, cacheable []int) bool {
	for _, s := range cacheable {
		if s == status {
			return true
		}
	}
	return false
}
