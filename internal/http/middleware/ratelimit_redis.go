package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// UseRedis sets the shared client used by the rate limiters. A nil client
// makes RateLimit fall back to process memory.
func UseRedis(client *redis.Client) {
	redisClient = client
}

// RateLimit limits requests per client IP within scope. It uses Redis when
// configured and process memory otherwise.
func RateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		return SimpleRateLimit(scope, maxRequests, window)
	}
	return RedisRateLimit(scope, maxRequests, window)
}

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<scope>:<window_seconds>:<ip>
func RedisRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := redisClient
		if client == nil {
			c.Next()
			return
		}

		key := "rl:" + scope + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		ctx := c.Request.Context()

		val, err := client.Incr(ctx, key).Result()
		if err != nil {
			// fail-open on Redis errors
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "リクエストが多すぎます。しばらくしてからお試しください"})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}
