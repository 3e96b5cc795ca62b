package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<ip>
// Without a client it degrades to the in-process SimpleRateLimit.
func RedisRateLimit(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return SimpleRateLimit(maxRequests, window)
	}
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, rdb, key, maxRequests, window, c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// allow counts one hit on key and reports whether it is within the limit.
// Redis errors fail open.
func allow(c *gin.Context, rdb *redis.Client, key string, limit int, window time.Duration, label string) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	val, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		return true
	}
	if val == 1 {
		rdb.Expire(ctx, key, window)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(limit)-val), 10))

	if val > int64(limit) {
		RLBlocked.WithLabelValues(label).Inc()
		return false
	}
	RLRequests.WithLabelValues(label).Inc()
	return true
}
