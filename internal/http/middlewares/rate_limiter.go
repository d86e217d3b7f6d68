package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// clientBucket tracks one client IP's remaining tokens.
type clientBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is a token bucket keyed by client IP. Buckets refill at rate
// tokens per second up to burst; idle buckets are evicted lazily.
type RateLimiter struct {
	mu      sync.Mutex
	rate    float64
	burst   float64
	buckets map[string]*clientBucket

	lastSweep time.Time
}

const bucketIdleTTL = 10 * time.Minute

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:      float64(rate),
		burst:     float64(burst),
		buckets:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > bucketIdleTTL {
		rl.sweep(now)
	}

	b, ok := rl.buckets[ip]
	if !ok {
		b = &clientBucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets that have been idle long enough to be full again.
// Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, b := range rl.buckets {
		if now.Sub(b.lastSeen) > bucketIdleTTL {
			delete(rl.buckets, ip)
		}
	}
	rl.lastSweep = now
}
