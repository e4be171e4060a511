package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// memoryLimiter is the in-process fixed-window limiter used when Redis is not
// configured. Counts are per process, not per deployment.
type memoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{clients: make(map[string]*clientInfo), now: time.Now}
}

// allow counts one hit for key and reports the running count in the window.
func (l *memoryLimiter) allow(key string, window time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.start) > window {
		l.clients[key] = &clientInfo{start: now, count: 1}
		l.evict(now, window)
		return 1
	}
	ci.count++
	return int64(ci.count)
}

// evict drops windows that have closed so the map does not grow without bound.
func (l *memoryLimiter) evict(now time.Time, window time.Duration) {
	for k, ci := range l.clients {
		if now.Sub(ci.start) > window {
			delete(l.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
// using process memory only.
func SimpleRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	l := newMemoryLimiter()
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if n := l.allow(key, window); n > int64(maxRequests) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "リクエストが多すぎます。しばらくしてからお試しください"})
			return
		}
		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}
