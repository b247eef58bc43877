package middlewares

import (
	"net/http"
	"time"

	"saarthi-be/config"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces a per-IP request quota over a fixed window using
// Redis INCR + EXPIRE. When no Redis client is configured the limiter is a
// pass-through.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RedisClient == nil {
			c.Next()
			return
		}

		ctx := config.Ctx
		key := "ratelimit:" + c.ClientIP()

		count, err := config.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			// fail open when Redis is unreachable
			c.Next()
			return
		}

		if count == 1 {
			config.RedisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			retryAfter, _ := config.RedisClient.TTL(ctx, key).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     "Too many requests from this IP, please try again later.",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
