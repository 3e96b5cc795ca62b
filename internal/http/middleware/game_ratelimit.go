package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// GameRateLimit limits control calls (start, stop) per game id rather than per IP.
// The game id comes from the :id route param. Without Redis it lets everything through.
func GameRateLimit(rdb *redis.Client, maxCalls int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if rdb == nil || id == "" {
			c.Next()
			return
		}

		key := "game_rl:" + id + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		if !allow(c, rdb, key, maxCalls, window, "game:"+c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}
