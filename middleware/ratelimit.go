package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clinicbook/clinic-server/config"
	"github.com/clinicbook/clinic-server/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimit  = 30              // 30 requests
	defaultRateWindow = 1 * time.Minute // per minute per client
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter creates a Redis-backed fixed-window rate limiting middleware.
// When Redis is unavailable the request is allowed through; throttling is a
// protection layer, not a dependency.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)

		allowed, err := checkRateLimit(key, cfg.Limit, cfg.Window)
		if err != nil {
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventSuspiciousActivity,
				IP:        clientIP,
				Message:   fmt.Sprintf("rate limit check failed for %s", endpoint),
				Details:   map[string]interface{}{"error": err.Error()},
			})
			c.Next()
			return
		}
		if !allowed {
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventRateLimitExceeded,
				IP:        clientIP,
				UserAgent: c.Request.UserAgent(),
				Message:   fmt.Sprintf("rate limit exceeded on %s", endpoint),
			})
			c.JSON(http.StatusTooManyRequests, util.APIError{
				Error: "Too many requests, retry later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// checkRateLimit increments the fixed-window counter and reports whether the
// request is within the limit. A nil Redis client disables limiting.
func checkRateLimit(key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return true, err
	}
	return incr.Val() <= int64(limit), nil
}
